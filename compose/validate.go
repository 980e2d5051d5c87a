package compose

import (
	"fmt"
	"path/filepath"

	"github.com/compose-spec/compose-go/loader"
	"github.com/compose-spec/compose-go/types"
	"github.com/reddec/sail-ssl-proxy/internal/fault"
)

// Validate checks that document is a loadable compose project: schema, interpolation and
// references between services, networks and volumes. Environment is used for interpolation.
func Validate(doc *Map, projectDir string, environ map[string]string) error {
	content, err := Marshal(doc)
	if err != nil {
		return fault.New(fault.Merge, "", err).WithMessage("Unable to serialize the updated Docker Compose settings")
	}

	workDir, err := filepath.Abs(projectDir)
	if err != nil {
		return fault.New(fault.Merge, projectDir, fmt.Errorf("detect root path of project: %w", err))
	}

	_, err = loader.Load(types.ConfigDetails{
		WorkingDir:  workDir,
		Environment: environ,
		ConfigFiles: []types.ConfigFile{{
			Filename: filepath.Join(workDir, DefaultFiles()[0]),
			Content:  content,
		}},
	})
	if err != nil {
		return fault.New(fault.Merge, "", fmt.Errorf("load compose config: %w", err)).
			WithMessage("The updated Docker Compose settings are not valid")
	}
	return nil
}
