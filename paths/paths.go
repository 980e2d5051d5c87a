// Package paths normalizes user supplied paths, including locations that do not exist yet.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const fileScheme = "file://"

// ToAbsolute resolves path to an absolute one. The longest existing prefix is resolved on disk
// (symlinks included) and remaining segments are appended as is. If nothing resolves,
// the working directory is used as the base.
func ToAbsolute(path string) string {
	path = filepath.ToSlash(path)

	var search []string
	if path != "" {
		for _, part := range strings.Split(path, "/") {
			if part != "." {
				search = append(search, part)
			}
		}
	}

	var (
		base    string
		pending []string
	)
	for len(search) > 0 {
		candidate := strings.Join(search, "/")
		if candidate == "" {
			// only the leading empty segment of an absolute path is left
			candidate = "/"
		}
		if resolved, err := realPath(candidate); err == nil {
			base = resolved
			break
		}
		pending = prepend(pending, search[len(search)-1])
		search = search[:len(search)-1]
	}

	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = string(filepath.Separator)
		}
		base = wd
	}

	return filepath.Join(prepend(pending, base)...)
}

// IsAbsolute reports whether path is absolute: it is already canonical, points to an existing file:// resource,
// has a drive letter or starts with a separator.
func IsAbsolute(path string) bool {
	if strings.HasPrefix(path, fileScheme) {
		if _, err := os.Stat(strings.TrimPrefix(path, fileScheme)); err == nil {
			return true
		}
	}

	if resolved, err := realPath(path); err == nil && resolved == path {
		return true
	}

	if len(path) == 0 || path[0] == '.' {
		return false
	}

	if hasDriveLetter(path) {
		return true
	}

	return path[0] == '/' || path[0] == '\\'
}

func realPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.FromSlash(path))
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func hasDriveLetter(path string) bool {
	if len(path) < 3 { //nolint:gomnd
		return false
	}
	letter := path[0]
	return ((letter >= 'a' && letter <= 'z') || (letter >= 'A' && letter <= 'Z')) && path[1] == ':' && path[2] == '\\'
}

func prepend(list []string, value string) []string {
	return append([]string{value}, list...)
}
