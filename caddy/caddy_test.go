package caddy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reddec/sail-ssl-proxy/caddy"
	"github.com/reddec/sail-ssl-proxy/internal/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_embedded(t *testing.T) {
	content, err := caddy.Render("", "laravel.test", "")
	require.NoError(t, err)
	assert.NotContains(t, string(content), caddy.Placeholder)
	assert.NotContains(t, string(content), caddy.GatePlaceholder)
	assert.Contains(t, string(content), "reverse_proxy laravel.test")
	assert.Contains(t, string(content), "ask http://"+caddy.DefaultGateAddress+"/.filhocodes-sail-ssl-proxy")
}

func TestRender_gateAddress(t *testing.T) {
	content, err := caddy.Render("", "laravel.test", "laravel.test")
	require.NoError(t, err)
	assert.Contains(t, string(content), "ask http://laravel.test/.filhocodes-sail-ssl-proxy")
}

func TestRender_custom(t *testing.T) {
	tpl := filepath.Join(t.TempDir(), "Caddyfile.tpl")
	require.NoError(t, os.WriteFile(tpl, []byte("a LARAVEL_APP_SERVICE_HOST b LARAVEL_APP_SERVICE_HOST SSL_PROXY_GATE_ADDRESS\n"), 0600))

	content, err := caddy.Render(tpl, "web", "gate:9000")
	require.NoError(t, err)
	assert.Equal(t, "a web b web gate:9000\n", string(content))
}

func TestRender_missingTemplate(t *testing.T) {
	_, err := caddy.Render(filepath.Join(t.TempDir(), "missing"), "web", "")
	require.Error(t, err)
	assert.Equal(t, fault.TemplateRead, fault.KindOf(err))
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, caddy.Write(dir, []byte("first\nlong content")))
	require.NoError(t, caddy.Write(dir, []byte("second")))

	data, err := os.ReadFile(filepath.Join(dir, caddy.FileName))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	err = caddy.Write(filepath.Join(dir, "missing"), []byte("x"))
	require.Error(t, err)
	assert.Equal(t, fault.Write, fault.KindOf(err))
}
