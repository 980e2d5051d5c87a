// Package caddy renders configuration of the reverse proxy.
package caddy

import (
	"bytes"
	_ "embed" // for default Caddyfile
	"os"
	"path/filepath"

	"github.com/reddec/sail-ssl-proxy/internal"
	"github.com/reddec/sail-ssl-proxy/internal/fault"
)

const (
	// Placeholder replaced by the application service host in the template.
	Placeholder = "LARAVEL_APP_SERVICE_HOST"
	// GatePlaceholder replaced by host:port of the authorization gate.
	GatePlaceholder = "SSL_PROXY_GATE_ADDRESS"
	FileName        = "Caddyfile"
	// DefaultGateAddress is where `serve` listens by default, as seen from the proxy container.
	DefaultGateAddress = "host.docker.internal:8089"
)

//go:embed Caddyfile
var defaultTemplate []byte // nolint:gochecknoglobals

// Render reads template (embedded one if templatePath is empty) and fills placeholders by service name
// and gate address. Empty gate address means DefaultGateAddress.
func Render(templatePath string, serviceName string, gateAddress string) ([]byte, error) {
	content := defaultTemplate
	if templatePath != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fault.New(fault.TemplateRead, templatePath, err).
				WithMessage("Unable to read the Caddyfile template " + templatePath)
		}
		content = data
	}
	if gateAddress == "" {
		gateAddress = DefaultGateAddress
	}
	content = bytes.ReplaceAll(content, []byte(GatePlaceholder), []byte(gateAddress))
	return bytes.ReplaceAll(content, []byte(Placeholder), []byte(serviceName)), nil
}

// Write stores content as Caddyfile inside destDir.
func Write(destDir string, content []byte) error {
	file := filepath.Join(destDir, FileName)
	if err := internal.WriteFileLocked(file, content, 0644); err != nil { //nolint:gosec
		return fault.New(fault.Write, file, err).WithMessage("Unable to write to " + file)
	}
	return nil
}

// Generator binds template to Render and Write.
type Generator struct {
	Template string // optional path to custom template
}

func (g Generator) Render(serviceName string, gateAddress string) ([]byte, error) {
	return Render(g.Template, serviceName, gateAddress)
}

func (g Generator) Write(destDir string, content []byte) error {
	return Write(destDir, content)
}
