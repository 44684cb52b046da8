package steps

import (
	"context"
	"fmt"
	"os"

	"github.com/drewbarontini/system-runner/builder"
	"github.com/drewbarontini/system-runner/config"
	"github.com/drewbarontini/system-runner/models"
)

type FileStep struct {
	path config.ValueSpec
	into string
}

func (s *FileStep) Run(ctx context.Context, scope *models.Scope) error {
	pathResolved, err := s.path.Resolve(scope)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	filePath := fmt.Sprintf("%v", pathResolved)

	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	scope.Set(targetKey(s.into, scope), string(content))
	return nil
}

func init() {
	builder.RegisterActionType("file", "Reads a file into the state as a string", func(cfg map[string]any) (models.Action, error) {
		path, ok := cfg["path"]
		if !ok {
			return nil, models.ErrMissingConfig("path")
		}

		into, err := stringConfig(cfg, "into", "")
		if err != nil {
			return nil, err
		}

		return &FileStep{path: valueSpec(path), into: into}, nil
	})
}
