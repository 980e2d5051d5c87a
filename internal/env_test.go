package internal_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reddec/sail-ssl-proxy/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEnvFile(t *testing.T) {
	dir := t.TempDir()

	env, err := internal.ReadEnvFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Empty(t, env)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("# comment\nAPP_URL=http://app.test\nAPP_PORT=8080\n"), 0600))
	env, err = internal.ReadEnvFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"APP_URL": "http://app.test", "APP_PORT": "8080"}, env)
}

func TestEnviron(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SSL_PROXY_TEST_A=file\nSSL_PROXY_TEST_B=file\n"), 0600))
	require.NoError(t, os.Setenv("SSL_PROXY_TEST_B", "process"))
	defer os.Unsetenv("SSL_PROXY_TEST_B")

	env, err := internal.Environ(dir)
	require.NoError(t, err)
	assert.Equal(t, "file", env["SSL_PROXY_TEST_A"])
	assert.Equal(t, "process", env["SSL_PROXY_TEST_B"])
}

func TestUpsertEnvFile(t *testing.T) {
	const key = "FILHOCODES_LARAVEL_SAIL_SSL_PROXY_SERVER_IP"

	t.Run("append to missing file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), ".env")

		prev, err := internal.UpsertEnvFile(file, key, "172.18.0.5")
		require.NoError(t, err)
		assert.Empty(t, prev)

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, key+"=172.18.0.5\n", string(data))
	})

	t.Run("append keeps comments", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(file, []byte("# app\nAPP_NAME=Laravel"), 0600))

		_, err := internal.UpsertEnvFile(file, key, "172.18.0.5")
		require.NoError(t, err)

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, "# app\nAPP_NAME=Laravel\n"+key+"=172.18.0.5\n", string(data))
	})

	t.Run("replace in place", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(file, []byte("APP_NAME=Laravel\n"+key+"=10.0.0.1\nAPP_ENV=local\n"), 0600))

		prev, err := internal.UpsertEnvFile(file, key, "172.18.0.5")
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.1", prev)

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, "APP_NAME=Laravel\n"+key+"=172.18.0.5\nAPP_ENV=local\n", string(data))
	})

	t.Run("similar key untouched", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(file, []byte(key+"_OLD=1\n"), 0600))

		_, err := internal.UpsertEnvFile(file, key, "172.18.0.5")
		require.NoError(t, err)

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, key+"_OLD=1\n"+key+"=172.18.0.5\n", string(data))
	})
}
