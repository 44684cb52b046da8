package steps

import (
	"context"
	"text/template"

	"github.com/drewbarontini/system-runner/builder"
	"github.com/drewbarontini/system-runner/models"
)

type TemplateStep struct {
	template *template.Template
	into     string
}

func (s *TemplateStep) Run(ctx context.Context, scope *models.Scope) error {
	input, state, err := scope.Snapshot()
	if err != nil {
		return err
	}
	data := map[string]any{
		"input": input,
		"state": state,
		"vars":  scope.Variables,
	}

	rendered, err := builder.ExecuteTemplate(s.template, data)
	if err != nil {
		return err
	}

	scope.Set(targetKey(s.into, scope), rendered)
	return nil
}

func init() {
	builder.RegisterActionType("template", "Renders a Go text/template over input, state and vars", func(cfg map[string]any) (models.Action, error) {
		text, ok := cfg["template"].(string)
		if !ok {
			return nil, models.ErrMissingConfig("template")
		}

		into, err := stringConfig(cfg, "into", "")
		if err != nil {
			return nil, err
		}

		tmpl, err := builder.ParseTemplate(text)
		if err != nil {
			return nil, err
		}

		return &TemplateStep{template: tmpl, into: into}, nil
	})
}
