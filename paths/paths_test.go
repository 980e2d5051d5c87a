package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reddec/sail-ssl-proxy/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDir(t *testing.T) string {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func chdir(t *testing.T, dir string) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})
}

func TestToAbsolute(t *testing.T) {
	dir := tempDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docker"), 0755))

	t.Run("existing absolute", func(t *testing.T) {
		assert.Equal(t, filepath.Join(dir, "docker"), paths.ToAbsolute(filepath.Join(dir, "docker")))
	})

	t.Run("missing tail is appended", func(t *testing.T) {
		assert.Equal(t,
			filepath.Join(dir, "docker", "sail-ssl-proxy", "certs"),
			paths.ToAbsolute(filepath.Join(dir, "docker", "sail-ssl-proxy", "certs")))
	})

	t.Run("relative with dots", func(t *testing.T) {
		chdir(t, dir)
		assert.Equal(t, filepath.Join(dir, "docker", "sail-ssl-proxy"), paths.ToAbsolute("./docker/./sail-ssl-proxy"))
	})

	t.Run("relative without existing prefix", func(t *testing.T) {
		chdir(t, dir)
		assert.Equal(t, filepath.Join(dir, "missing", "child"), paths.ToAbsolute("missing/child"))
	})

	t.Run("empty is working directory", func(t *testing.T) {
		chdir(t, dir)
		assert.Equal(t, dir, paths.ToAbsolute(""))
	})

	t.Run("symlink resolved", func(t *testing.T) {
		link := filepath.Join(dir, "link")
		require.NoError(t, os.Symlink(filepath.Join(dir, "docker"), link))
		assert.Equal(t, filepath.Join(dir, "docker", "new"), paths.ToAbsolute(filepath.Join(link, "new")))
	})
}

func TestIsAbsolute(t *testing.T) {
	dir := tempDir(t)

	assert.True(t, paths.IsAbsolute(dir))
	assert.True(t, paths.IsAbsolute("/does/not/exist"))
	assert.True(t, paths.IsAbsolute(`\\server\share`))
	assert.True(t, paths.IsAbsolute(`C:\Users\app`))
	assert.True(t, paths.IsAbsolute("file://"+dir))

	assert.False(t, paths.IsAbsolute(""))
	assert.False(t, paths.IsAbsolute("./docker"))
	assert.False(t, paths.IsAbsolute("docker/sail-ssl-proxy"))
	assert.False(t, paths.IsAbsolute("file://"+filepath.Join(dir, "missing")))
}
