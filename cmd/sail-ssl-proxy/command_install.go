package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/reddec/sail-ssl-proxy/install"
	"go.uber.org/zap"
)

var errInstallFailed = errors.New("installation failed")

type CommandInstall struct {
	Service        string `long:"service" short:"s" env:"SSL_PROXY_SERVICE" description:"Name of the Laravel service in the Docker Compose file" default:"laravel.test"`
	Directory      string `long:"directory" short:"d" env:"SSL_PROXY_DIRECTORY" description:"Directory for Caddyfile, certificates and authorities, relative to the project" default:"./docker/sail-ssl-proxy"`
	Middleware     bool   `long:"middleware" short:"m" description:"Configure TrustProxies middleware to trust the proxy"`
	Project        string `long:"project" short:"p" env:"SSL_PROXY_PROJECT" description:"Laravel project directory" default:"."`
	ComposeFile    string `long:"compose-file" short:"f" env:"SSL_PROXY_COMPOSE_FILE" description:"Docker Compose file name, detected if not set"`
	Template       string `long:"template" env:"SSL_PROXY_TEMPLATE" description:"Custom Caddyfile template"`
	BuildContext   string `long:"build-context" env:"SSL_PROXY_BUILD_CONTEXT" description:"Build context of the proxy image" default:"./vendor/filhocodes/laravel-sail-ssl-proxy/docker"`
	GateAddress    string `long:"gate" env:"SSL_PROXY_GATE_ADDRESS" description:"Address of the authorization gate as seen from the proxy container" default:"host.docker.internal:8089"`
	SkipValidation bool   `long:"skip-validation" description:"Do not validate updated Docker Compose settings"`
}

func (cmd *CommandInstall) Execute([]string) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	installer := install.New(&terminal{out: os.Stdout, err: os.Stderr}, logger, cmd.Template)
	report := installer.Run(install.Target{
		ServiceName:           cmd.Service,
		VolumesDirectory:      cmd.Directory,
		EnableMiddlewarePatch: cmd.Middleware,
		ProjectDir:            cmd.Project,
		ComposeFile:           cmd.ComposeFile,
		BuildContext:          cmd.BuildContext,
		GateAddress:           cmd.GateAddress,
		Validate:              !cmd.SkipValidation,
	})
	logger.Debug("install finished", zap.Stringer("status", report.Status), zap.Stringer("stage", report.Stage))
	if !report.OK() {
		return fmt.Errorf("%s: %w", report.Stage, errInstallFailed)
	}
	return nil
}

// terminal prints installer messages for a human.
type terminal struct {
	out io.Writer
	err io.Writer
}

func (t *terminal) Info(msg string) {
	fmt.Fprintln(t.out, msg)
}

func (t *terminal) Warn(msg string) {
	fmt.Fprintln(t.err, "WARN:", msg)
}

func (t *terminal) Error(msg string) {
	fmt.Fprintln(t.err, "ERROR:", msg)
}

func (t *terminal) Line(msg string) {
	fmt.Fprintln(t.out, msg)
}
