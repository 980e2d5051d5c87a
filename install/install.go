// Package install wires proxy resources into a Sail project.
//
// The pipeline stops at the first failed stage and never rolls back: every stage is idempotent,
// so running the whole pipeline again is the way to recover.
package install

import (
	"path/filepath"

	"github.com/reddec/sail-ssl-proxy/caddy"
	"github.com/reddec/sail-ssl-proxy/compose"
	"github.com/reddec/sail-ssl-proxy/internal"
	"github.com/reddec/sail-ssl-proxy/patch"
	"github.com/reddec/sail-ssl-proxy/paths"
	"github.com/reddec/sail-ssl-proxy/provision"
	"go.uber.org/zap"
)

const (
	DefaultService   = "laravel.test"
	DefaultDirectory = "./docker/sail-ssl-proxy"
	DefaultProject   = "."

	trustGuidance = "Please configure your application to trust the Laravel Sail SSL Proxy when running in the configured environments."
)

// Target is the immutable input of one install run.
type Target struct {
	ServiceName           string // compose service hosting the application
	VolumesDirectory      string // host directory for Caddyfile, certificates and authorities, relative to project
	EnableMiddlewarePatch bool   // patch TrustProxies middleware
	ProjectDir            string // project root, current directory if empty
	ComposeFile           string // compose file name, detected if empty
	BuildContext          string // build context of the proxy image
	GateAddress           string // host:port of authorization gate as seen from the proxy container
	Validate              bool   // validate merged compose document before saving
}

// Report is the outcome of Run. Stage is the failed stage, or Done.
type Report struct {
	Status      Status
	Stage       Stage
	Err         error
	Directory   string
	ComposeFile string
}

func (r Report) OK() bool {
	return r.Status != StatusFailure
}

type Provisioner interface {
	Ensure(targetDir string) (string, error)
}

type ConfigWriter interface {
	Render(serviceName string, gateAddress string) ([]byte, error)
	Write(destDir string, content []byte) error
}

type DocumentStore interface {
	Locate(projectDir, name string) (string, error)
	Read(path string) (*compose.Map, error)
	Write(path string, doc *compose.Map) error
}

type Patcher interface {
	Patch(path string) error
}

// Console shows progress and guidance to the user.
type Console interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Line(msg string)
}

type Installer struct {
	Provisioner Provisioner
	Config      ConfigWriter
	Store       DocumentStore
	Merge       func(doc *compose.Map, target compose.Target) (*compose.Map, error)
	Validate    func(doc *compose.Map, projectDir string) error
	Patcher     Patcher
	Console     Console
	Logger      *zap.Logger
	EnvCommand  string // command which stores proxy IP in .env, shown in guidance
	GateCommand string // command which serves authorization gate, shown in guidance
}

// New installer with default components. Template is an optional path to custom Caddyfile template.
func New(console Console, logger *zap.Logger, template string) *Installer {
	return &Installer{
		Provisioner: provision.New(logger),
		Config:      caddy.Generator{Template: template},
		Store:       compose.Store{},
		Merge:       compose.Merge,
		Validate:    validate,
		Patcher:     patch.Patcher{Snippet: patch.TrustProxiesSnippet},
		Console:     console,
		Logger:      logger.Named("install"),
		EnvCommand:  "sail-ssl-proxy env",
		GateCommand: "sail-ssl-proxy serve",
	}
}

// Run executes pipeline: ProvisionDirs → WriteProxyConfig → LoadCompose → MergeCompose → SaveCompose → [PatchMiddleware] → Done.
func (in *Installer) Run(target Target) Report {
	projectDir := target.ProjectDir
	if projectDir == "" {
		projectDir = DefaultProject
	}
	logger := in.Logger.With(zap.String("service", target.ServiceName), zap.String("project", projectDir))

	var report Report
	fail := func(stage Stage, err error) Report {
		in.Console.Error(Describe(stage, err))
		in.Console.Line("    " + err.Error())
		if stage == PatchMiddleware {
			in.Console.Warn(trustGuidance)
		}
		logger.Error("install failed", zap.Stringer("stage", stage), zap.Error(err))
		report.Status = StatusFailure
		report.Stage = stage
		report.Err = err
		return report
	}

	volumesDir := target.VolumesDirectory
	if !filepath.IsAbs(volumesDir) {
		volumesDir = filepath.Join(projectDir, volumesDir)
	}

	directory, err := in.Provisioner.Ensure(volumesDir)
	if err != nil {
		return fail(ProvisionDirs, err)
	}
	report.Directory = directory
	logger.Debug("stage complete", zap.Stringer("stage", ProvisionDirs), zap.String("directory", directory))

	content, err := in.Config.Render(target.ServiceName, target.GateAddress)
	if err == nil {
		err = in.Config.Write(directory, content)
	}
	if err != nil {
		return fail(WriteProxyConfig, err)
	}
	logger.Debug("stage complete", zap.Stringer("stage", WriteProxyConfig))

	composeFile, err := in.Store.Locate(projectDir, target.ComposeFile)
	if err != nil {
		return fail(LoadCompose, err)
	}
	report.ComposeFile = composeFile

	doc, err := in.Store.Read(composeFile)
	if err != nil {
		return fail(LoadCompose, err)
	}
	logger.Debug("stage complete", zap.Stringer("stage", LoadCompose), zap.String("file", composeFile))

	// compose resolves relative volumes against the directory of the compose file
	composeDir := paths.ToAbsolute(filepath.Dir(composeFile))
	volumesRef := directory
	if !filepath.IsAbs(target.VolumesDirectory) {
		volumesRef = relativeTo(composeDir, directory)
	}

	merged, err := in.Merge(doc, compose.Target{
		ServiceName:      target.ServiceName,
		VolumesDirectory: volumesRef,
		ProjectDirectory: relativeTo(composeDir, paths.ToAbsolute(projectDir)),
		BuildContext:     target.BuildContext,
	})
	if err == nil && target.Validate && in.Validate != nil {
		err = in.Validate(merged, projectDir)
	}
	if err != nil {
		return fail(MergeCompose, err)
	}
	logger.Debug("stage complete", zap.Stringer("stage", MergeCompose))

	if err := in.Store.Write(composeFile, merged); err != nil {
		return fail(SaveCompose, err)
	}
	logger.Info("proxy service installed", zap.String("file", composeFile), zap.String("directory", directory))

	in.Console.Info("The Sail SSL Proxy service is installed in your " + filepath.Base(composeFile))
	in.Console.Line("")

	report.Status = StatusSuccess
	if target.EnableMiddlewarePatch {
		if err := in.Patcher.Patch(filepath.Join(projectDir, patch.TrustProxiesFile)); err != nil {
			return fail(PatchMiddleware, err)
		}
		logger.Debug("stage complete", zap.Stringer("stage", PatchMiddleware))

		in.Console.Info("The TrustProxies middleware was successfully configured.")
		in.Console.Line("AFTER STARTING THE CONTAINERS, please execute the following command to set the environment variable with the proxy IP")
		in.Console.Line("    " + in.EnvCommand)
	} else {
		report.Status = StatusManualAction
		in.Console.Warn("You did not opt in to change the TrustProxies middleware.")
		in.Console.Warn(trustGuidance)
	}
	in.Console.Line("")

	in.Console.Info("Caddy asks the authorization gate before issuing certificates, keep it running on the host:")
	in.Console.Info("    " + in.GateCommand)
	in.Console.Line("To configure the behavior of the SSL Proxy authorization, see the options of the serve command.")
	in.Console.Line("")
	in.Console.Info("To deploy your development environment:")
	in.Console.Info("    ./vendor/bin/sail up -d")
	in.Console.Line("")

	report.Stage = Done
	return report
}

// relativeTo returns target relative to base, or target itself if there is no relative form.
func relativeTo(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}

func validate(doc *compose.Map, projectDir string) error {
	environ, err := internal.Environ(projectDir)
	if err != nil {
		return err
	}
	return compose.Validate(doc, projectDir, environ)
}
