// Package provision creates host directories mounted into the proxy container.
package provision

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/reddec/sail-ssl-proxy/internal/fault"
	"github.com/reddec/sail-ssl-proxy/paths"
	"go.uber.org/zap"
)

const (
	CertificatesDir = "certificates"
	AuthoritiesDir  = "authorities"
	MarkerFile      = ".gitignore"
	MarkerContent   = "*\n!.gitignore\n"

	dirPerm = 0755
)

func New(logger *zap.Logger) *Provisioner {
	return &Provisioner{logger: logger.Named("provision")}
}

type Provisioner struct {
	logger *zap.Logger
}

// Ensure creates target directory with certificates and authorities sub-directories and returns
// resolved absolute path. Existing directories are kept as is.
func (p *Provisioner) Ensure(targetDir string) (string, error) {
	directory := paths.ToAbsolute(targetDir)
	if !paths.IsAbsolute(directory) {
		return "", fault.Newf(fault.InvalidTarget, targetDir, "resolved to %q", directory).
			WithMessage("Unable to understand which directory will be used to store the certificates and authorities")
	}

	steps := []struct {
		dir     string
		message string
	}{
		{directory, "Unable to create the directory that will be used to store the certificates and authorities"},
		{filepath.Join(directory, CertificatesDir), "Unable to create the directory that will be used to store the certificates"},
		{filepath.Join(directory, AuthoritiesDir), "Unable to create the directory that will be used to store the authorities"},
	}

	for _, step := range steps {
		if err := os.MkdirAll(step.dir, dirPerm); err != nil {
			return "", fault.New(fault.DirectoryCreate, step.dir, err).WithMessage(step.message)
		}
	}

	if err := writeMarkers(directory); err != nil {
		p.logger.Warn("failed to write ignore markers", zap.String("directory", directory), zap.Error(err))
	}

	p.logger.Debug("directories ensured", zap.String("directory", directory))
	return directory, nil
}

func writeMarkers(directory string) error {
	var result *multierror.Error
	for _, leaf := range []string{CertificatesDir, AuthoritiesDir} {
		file := filepath.Join(directory, leaf, MarkerFile)
		if err := os.WriteFile(file, []byte(MarkerContent), 0644); err != nil { //nolint:gosec
			result = multierror.Append(result, fmt.Errorf("write %s: %w", file, err))
		}
	}
	return result.ErrorOrNil()
}
