package models

// Trigger describes when a routine is meant to run.
// It is display metadata for schedulers and operators; the engine never reads it.
type Trigger struct {
	Type        string `yaml:"type" json:"type"`               // e.g. "time"
	Description string `yaml:"description" json:"description"` // Human-readable purpose
	Schedule    string `yaml:"schedule" json:"schedule"`       // e.g. "Every Monday at 10:00 AM ET"
}
