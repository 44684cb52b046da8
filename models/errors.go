package models

import "fmt"

type MissingConfigError struct {
	Key string
}

func (e *MissingConfigError) Error() string {
	return "missing required configuration key: " + e.Key
}

func ErrMissingConfig(key string) error {
	return &MissingConfigError{Key: key}
}

type InvalidConfigError struct {
	Key    string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for key '%s': %s", e.Key, e.Reason)
}

func ErrInvalidConfig(key, reason string) error {
	return &InvalidConfigError{Key: key, Reason: reason}
}

type UnknownActionError struct {
	ActionType string
}

func (e *UnknownActionError) Error() string {
	return "unknown action type: " + e.ActionType
}
