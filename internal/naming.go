package internal

import (
	"path/filepath"
	"strings"
)

// ProxyServiceName is the compose service name of the proxy for the application service.
func ProxyServiceName(service string) string {
	return service + ".proxy"
}

// ComposePath converts host directory to the form used in compose volume definitions:
// no trailing separators, relative paths always start with dot.
func ComposePath(dir string) string {
	trimmed := strings.TrimRight(dir, `/\`)
	if trimmed == "" && dir != "" {
		return dir[:1]
	}
	dir = trimmed
	if dir == "" {
		return "."
	}
	if filepath.IsAbs(dir) || strings.HasPrefix(dir, ".") {
		return dir
	}
	return "./" + dir
}
