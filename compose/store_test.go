package compose_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reddec/sail-ssl-proxy/compose"
	"github.com/reddec/sail-ssl-proxy/internal/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarshal_keepsOrder(t *testing.T) {
	source := `version: "3"
services:
  zeta:
    image: busybox
    environment:
      B: "2"
      A: "1"
  alpha:
    image: nginx
networks:
  sail:
    driver: bridge
`
	doc, err := compose.Parse([]byte(source))
	require.NoError(t, err)
	assert.Equal(t, []string{"version", "services", "networks"}, doc.Keys())

	services, ok := doc.Map("services")
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha"}, services.Keys())

	data, err := compose.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, source, string(data))
}

func TestRead(t *testing.T) {
	dir := t.TempDir()

	_, err := compose.Read(filepath.Join(dir, "docker-compose.yml"))
	assert.Equal(t, fault.NotFound, fault.KindOf(err))

	broken := filepath.Join(dir, "broken.yml")
	require.NoError(t, os.WriteFile(broken, []byte("services: [unclosed\n"), 0600))
	_, err = compose.Read(broken)
	assert.Equal(t, fault.Parse, fault.KindOf(err))

	list := filepath.Join(dir, "list.yml")
	require.NoError(t, os.WriteFile(list, []byte("- a\n- b\n"), 0600))
	_, err = compose.Read(list)
	assert.Equal(t, fault.Parse, fault.KindOf(err))

	good := filepath.Join(dir, "good.yml")
	require.NoError(t, os.WriteFile(good, []byte("services:\n  web:\n    image: nginx\n"), 0600))
	doc, err := compose.Read(good)
	require.NoError(t, err)
	assert.True(t, doc.Has("services"))
}

func TestWrite(t *testing.T) {
	file := filepath.Join(t.TempDir(), "docker-compose.yml")
	require.NoError(t, os.WriteFile(file, []byte("a very long previous content that must disappear completely\n"), 0600))

	doc := compose.NewMap(compose.Item{Key: "services", Value: compose.NewMap()})
	require.NoError(t, compose.Write(file, doc))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "services: {}\n", string(data))

	err = compose.Write(filepath.Join(t.TempDir(), "missing", "docker-compose.yml"), doc)
	assert.Equal(t, fault.Write, fault.KindOf(err))
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()

	_, err := compose.Locate(dir, "")
	require.Error(t, err)
	assert.Equal(t, fault.NotFound, fault.KindOf(err))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "compose.yaml"), []byte("services: {}\n"), 0600))
	file, err := compose.Locate(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "compose.yaml"), file)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "docker-compose.yml"), []byte("services: {}\n"), 0600))
	file, err = compose.Locate(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "docker-compose.yml"), file)

	_, err = compose.Locate(dir, "custom.yml")
	assert.Equal(t, fault.NotFound, fault.KindOf(err))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.yml"), 0755))
	_, err = compose.Locate(dir, "dir.yml")
	assert.Equal(t, fault.NotFound, fault.KindOf(err))
}
