package builder

import (
	"fmt"
	"sort"
	"sync"

	"github.com/drewbarontini/system-runner/models"
)

// ActionFactory is a function that creates an Action from a configuration
type ActionFactory func(config map[string]any) (models.Action, error)

type registration struct {
	description string
	factory     ActionFactory
}

var (
	// registry contains all registered factories by action type
	registry = make(map[string]registration)
	mu       sync.RWMutex
)

// RegisterActionType registers a factory for an action type
// This function is called by init() in action packages
func RegisterActionType(actionType, description string, factory ActionFactory) {
	mu.Lock()
	defer mu.Unlock()
	registry[actionType] = registration{description: description, factory: factory}
}

// GetActionFactory returns the factory for an action type
func GetActionFactory(actionType string) (ActionFactory, error) {
	mu.RLock()
	defer mu.RUnlock()

	reg, exists := registry[actionType]
	if !exists {
		return nil, &models.UnknownActionError{ActionType: actionType}
	}
	return reg.factory, nil
}

// DescribeAction returns the description registered with an action type
func DescribeAction(actionType string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()

	reg, exists := registry[actionType]
	return reg.description, exists
}

// ListActionTypes returns all registered action types, sorted
func ListActionTypes() []string {
	mu.RLock()
	defer mu.RUnlock()

	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// CreateAction creates an action based on type and configuration
func CreateAction(actionType string, actionConfig map[string]any) (models.Action, error) {
	factory, err := GetActionFactory(actionType)
	if err != nil {
		return nil, err
	}
	if actionConfig == nil {
		actionConfig = make(map[string]any)
	}
	action, err := factory(actionConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create '%s' action: %w", actionType, err)
	}
	return action, nil
}
