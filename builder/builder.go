package builder

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"github.com/drewbarontini/system-runner/config"
)

// Value prefixes recognised in routine configuration strings
const (
	prefixJS     = "$js:"
	prefixVar    = "$var:"
	prefixSecret = "$secret:"
	prefixEnv    = "$env:"
)

// GenerateRunID generates a unique ID for a run
func GenerateRunID() string {
	return "run_" + uuid.NewString()
}

// ParseConfigValue converts a configuration value to config.ValueSpec
// Recognizes the "$js:", "$var:", "$secret:" and "$env:" prefixes
func ParseConfigValue(v any) config.ValueSpec {
	// Already parsed (e.g. built programmatically)
	if vs, ok := v.(config.ValueSpec); ok {
		return vs
	}

	str, ok := v.(string)
	if !ok {
		return config.StaticValue{Value: v}
	}

	switch {
	case strings.HasPrefix(str, prefixJS):
		return config.DynamicValue{
			Language:   "js",
			Expression: strings.TrimSpace(strings.TrimPrefix(str, prefixJS)),
		}
	case strings.HasPrefix(str, prefixVar):
		return config.VariableReference{Name: strings.TrimSpace(strings.TrimPrefix(str, prefixVar))}
	case strings.HasPrefix(str, prefixSecret):
		return config.SecretReference{Name: strings.TrimSpace(strings.TrimPrefix(str, prefixSecret))}
	case strings.HasPrefix(str, prefixEnv):
		return config.EnvReference{Name: strings.TrimSpace(strings.TrimPrefix(str, prefixEnv))}
	}

	// Otherwise it's a static value
	return config.StaticValue{Value: v}
}

// ParseConfigValues converts every entry of a configuration map
func ParseConfigValues(values map[string]any) map[string]config.ValueSpec {
	specs := make(map[string]config.ValueSpec, len(values))
	for k, v := range values {
		specs[k] = ParseConfigValue(v)
	}
	return specs
}

// ParseTemplate parses a Go template; missing keys render as zero values
func ParseTemplate(tmplStr string) (*template.Template, error) {
	tmpl, err := template.New("tpl").Option("missingkey=zero").Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}

// RenderTemplate renders a Go template against data
func RenderTemplate(tmplStr string, data any) (string, error) {
	// If it doesn't contain template markers, return as string
	if !strings.Contains(tmplStr, "{{") {
		return tmplStr, nil
	}

	tmpl, err := ParseTemplate(tmplStr)
	if err != nil {
		return "", err
	}

	return ExecuteTemplate(tmpl, data)
}

// ExecuteTemplate executes a parsed template against data
func ExecuteTemplate(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
