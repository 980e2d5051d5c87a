package compose

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/reddec/sail-ssl-proxy/internal"
	"github.com/reddec/sail-ssl-proxy/internal/fault"
	"gopkg.in/yaml.v2"
)

// DefaultFiles are compose file names probed in project directory, in priority order.
func DefaultFiles() []string {
	return []string{"docker-compose.yml", "docker-compose.yaml", "compose.yaml", "compose.yml"}
}

// Locate returns path to compose file in the project directory. Empty name means
// the first existing file from DefaultFiles.
func Locate(projectDir string, name string) (string, error) {
	names := DefaultFiles()
	if name != "" {
		if filepath.IsAbs(name) {
			return name, nil
		}
		names = []string{name}
	}

	var errs *multierror.Error
	for _, candidate := range names {
		file := filepath.Join(projectDir, candidate)
		info, err := os.Stat(file)
		if err == nil && !info.IsDir() {
			return file, nil
		}
		if err == nil {
			err = fmt.Errorf("%s is a directory", file)
		}
		errs = multierror.Append(errs, err)
	}

	return "", fault.New(fault.NotFound, filepath.Join(projectDir, names[0]), errs.ErrorOrNil()).
		WithMessage("Unable to access " + names[0])
}

// Parse decodes YAML document keeping keys order.
func Parse(data []byte) (*Map, error) {
	var slice yaml.MapSlice
	if err := yaml.Unmarshal(data, &slice); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return fromMapSlice(slice), nil
}

// Marshal encodes document as YAML with two-space indentation.
func Marshal(doc *Map) ([]byte, error) {
	data, err := yaml.Marshal(toYAML(doc))
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return data, nil
}

// Read loads compose document from file.
func Read(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fault.New(fault.NotFound, path, err).WithMessage("Unable to access " + filepath.Base(path))
	}
	if err != nil {
		return nil, fault.New(fault.NotFound, path, err).WithMessage("Unable to retrieve the contents of " + filepath.Base(path))
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fault.New(fault.Parse, path, err).WithMessage("Unable to parse the YAML contents of " + filepath.Base(path))
	}
	return doc, nil
}

// Write replaces compose file with serialized document under exclusive lock.
func Write(path string, doc *Map) error {
	data, err := Marshal(doc)
	if err != nil {
		return fault.New(fault.Write, path, err).WithMessage("Unable to serialize the updated " + filepath.Base(path))
	}

	if err := internal.WriteFileLocked(path, data, 0644); err != nil { //nolint:gosec
		return fault.New(fault.Write, path, err).WithMessage("Unable to write to " + filepath.Base(path))
	}
	return nil
}

// Store binds package functions to an object, so they can be substituted.
type Store struct{}

func (Store) Locate(projectDir, name string) (string, error) {
	return Locate(projectDir, name)
}

func (Store) Read(path string) (*Map, error) {
	return Read(path)
}

func (Store) Write(path string, doc *Map) error {
	return Write(path, doc)
}
