package config

import (
	"fmt"
	"os"

	"github.com/dop251/goja"

	"github.com/drewbarontini/system-runner/models"
)

// ValueSpec represents a value that can be static or dynamic
type ValueSpec interface {
	IsStatic() bool
	GetStaticValue() (any, bool)
	GetDynamicExpression() (DynamicValue, bool)
	// Resolve resolves the value using the routine scope
	Resolve(scope *models.Scope) (any, error)
}

// StaticValue represents a literal value (number, string, bool, etc.)
type StaticValue struct {
	Value any
}

func NewStaticValue(value any) StaticValue {
	return StaticValue{
		Value: value,
	}
}

func (s StaticValue) IsStatic() bool {
	return true
}

func (s StaticValue) GetStaticValue() (any, bool) {
	return s.Value, true
}

func (s StaticValue) GetDynamicExpression() (DynamicValue, bool) {
	return DynamicValue{}, false
}

func (s StaticValue) Resolve(scope *models.Scope) (any, error) {
	// Static values always return themselves
	return s.Value, nil
}

// DynamicValue represents an expression to be evaluated at runtime
type DynamicValue struct {
	Language   string // "js"
	Expression string // the expression to evaluate
	Type       string // optional: "string", "number", "boolean", etc.
}

func (d DynamicValue) IsStatic() bool {
	return false
}

func (d DynamicValue) GetStaticValue() (any, bool) {
	return nil, false
}

func (d DynamicValue) GetDynamicExpression() (DynamicValue, bool) {
	return d, true
}

func (d DynamicValue) Resolve(scope *models.Scope) (any, error) {
	switch d.Language {
	case "js", "javascript", "":
		return d.resolveJS(scope)
	default:
		return nil, fmt.Errorf("unsupported language: %s", d.Language)
	}
}

// resolveJS evaluates a JavaScript expression using Goja
func (d DynamicValue) resolveJS(scope *models.Scope) (any, error) {
	runtime, err := NewJSRuntime(scope)
	if err != nil {
		return nil, err
	}

	wrappedCode := "(function() {\n return " + d.Expression + "\n})()"

	// Execute the expression
	result, err := runtime.RunString(wrappedCode)
	if err != nil {
		return nil, fmt.Errorf("failed to execute JS expression '%s': %w", d.Expression, err)
	}

	// Return the native Go value
	return result.Export(), nil
}

// NewJSRuntime creates a Goja runtime exposing the scope:
// ctx (input, state, _execution), input, state, $vars and $secrets
func NewJSRuntime(scope *models.Scope) (*goja.Runtime, error) {
	runtime := goja.New()

	input, state, err := scope.Snapshot()
	if err != nil {
		return nil, err
	}
	if input == nil {
		input = make(map[string]any)
	}
	if state == nil {
		state = make(map[string]any)
	}

	ctx := map[string]any{
		"input": input,
		"state": state,
	}

	// Add execution metadata
	if scope.RunID != "" {
		ctx["_execution"] = map[string]any{
			"id":   scope.RunID,
			"step": scope.StepID,
		}
	}

	globals := map[string]any{
		"ctx":   ctx,
		"input": input,
		"state": state,
	}
	if scope.Variables != nil {
		globals["$vars"] = scope.Variables
	}
	if scope.Secrets != nil {
		globals["$secrets"] = scope.Secrets
	}

	for name, value := range globals {
		if err := runtime.Set(name, value); err != nil {
			return nil, fmt.Errorf("failed to set %s in JavaScript runtime: %w", name, err)
		}
	}

	return runtime, nil
}

// HasDynamicValues checks if at least one value is dynamic
func HasDynamicValues(values map[string]ValueSpec) bool {
	for _, v := range values {
		if !v.IsStatic() {
			return true
		}
	}
	return false
}

// ExtractStaticValues extracts only static values into a map[string]any
// Useful for passing to standard Go templates
func ExtractStaticValues(values map[string]ValueSpec) map[string]any {
	result := make(map[string]any)
	for k, v := range values {
		if staticVal, ok := v.GetStaticValue(); ok {
			result[k] = staticVal
		}
	}
	return result
}

// ResolveAll resolves every value of the map against the scope
func ResolveAll(values map[string]ValueSpec, scope *models.Scope) (map[string]any, error) {
	result := make(map[string]any, len(values))
	for k, v := range values {
		resolved, err := v.Resolve(scope)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve '%s': %w", k, err)
		}
		result[k] = resolved
	}
	return result, nil
}

// VariableReference represents a reference to a global routine variable ($var:name)
type VariableReference struct {
	Name string
}

func (v VariableReference) IsStatic() bool {
	return false
}

func (v VariableReference) GetStaticValue() (any, bool) {
	return nil, false
}

func (v VariableReference) GetDynamicExpression() (DynamicValue, bool) {
	return DynamicValue{}, false
}

func (v VariableReference) Resolve(scope *models.Scope) (any, error) {
	if scope.Variables == nil {
		return nil, fmt.Errorf("variable '%s' not found: no global variables defined", v.Name)
	}

	value, exists := scope.Variables[v.Name]
	if !exists {
		return nil, fmt.Errorf("variable '%s' not found in global variables", v.Name)
	}

	return value, nil
}

// SecretReference represents a reference to a global routine secret ($secret:name)
type SecretReference struct {
	Name string
}

func (s SecretReference) IsStatic() bool {
	return false
}

func (s SecretReference) GetStaticValue() (any, bool) {
	return nil, false
}

func (s SecretReference) GetDynamicExpression() (DynamicValue, bool) {
	return DynamicValue{}, false
}

func (s SecretReference) Resolve(scope *models.Scope) (any, error) {
	if scope.Secrets == nil {
		return nil, fmt.Errorf("secret '%s' not found: no global secrets defined", s.Name)
	}

	value, exists := scope.Secrets[s.Name]
	if !exists {
		return nil, fmt.Errorf("secret '%s' not found in global secrets", s.Name)
	}

	return value, nil
}

// String returns a masked representation of the secret for logging
func (s SecretReference) String() string {
	return fmt.Sprintf("$secret:%s=***", s.Name)
}

// EnvReference represents a reference to an environment variable ($env:NAME)
type EnvReference struct {
	Name string
}

func (e EnvReference) IsStatic() bool {
	return false
}

func (e EnvReference) GetStaticValue() (any, bool) {
	return nil, false
}

func (e EnvReference) GetDynamicExpression() (DynamicValue, bool) {
	return DynamicValue{}, false
}

func (e EnvReference) Resolve(scope *models.Scope) (any, error) {
	value := os.Getenv(e.Name)
	if value == "" {
		return nil, fmt.Errorf("environment variable '%s' is not set or is empty", e.Name)
	}

	return value, nil
}
