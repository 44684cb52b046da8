package routines

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// ProjectStatus is the health reported for a project in review meetings
type ProjectStatus string

const (
	StatusOnTrack  ProjectStatus = "on track"
	StatusOffTrack ProjectStatus = "off track"
	StatusAtRisk   ProjectStatus = "at risk"
)

// Valid reports whether s is one of the known statuses
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusOnTrack, StatusOffTrack, StatusAtRisk:
		return true
	}
	return false
}

// ProjectUpdate is what a team member shares about one project
type ProjectUpdate struct {
	Title       string        `yaml:"title" json:"title"`
	Description string        `yaml:"description" json:"description"`
	Status      ProjectStatus `yaml:"status" json:"status"`
	Link        string        `yaml:"link,omitempty" json:"link,omitempty"` // Video or screenshot showing progress
}

// Artifact is a tracked piece of progress evidence
type Artifact struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Link  string `yaml:"link" json:"link"`
}

// InvalidStatusError is returned when an update carries an unknown status
type InvalidStatusError struct {
	Project string
	Status  ProjectStatus
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("project '%s' has invalid status '%s' (want on track, off track or at risk)", e.Project, e.Status)
}

// tallyStatuses counts updates per status
func tallyStatuses(updates []ProjectUpdate) (map[ProjectStatus]int, error) {
	counts := map[ProjectStatus]int{
		StatusOnTrack:  0,
		StatusOffTrack: 0,
		StatusAtRisk:   0,
	}
	for _, u := range updates {
		if !u.Status.Valid() {
			return nil, &InvalidStatusError{Project: u.Title, Status: u.Status}
		}
		counts[u.Status]++
	}
	return counts, nil
}

// flagged returns the titles of projects not on track, in input order
func flagged(updates []ProjectUpdate) []string {
	titles := []string{}
	for _, u := range updates {
		if u.Status != StatusOnTrack {
			titles = append(titles, fmt.Sprintf("%s (%s)", u.Title, u.Status))
		}
	}
	return titles
}

// artifactsFrom turns every update with a link into an artifact.
// IDs are kebab-case titles, suffixed on collision.
func artifactsFrom(updates []ProjectUpdate) []Artifact {
	artifacts := []Artifact{}
	seen := make(map[string]int)
	for _, u := range updates {
		if strings.TrimSpace(u.Link) == "" {
			continue
		}

		id := strcase.ToKebab(strings.TrimSpace(u.Title))
		if id == "" {
			id = "artifact"
		}
		seen[id]++
		if n := seen[id]; n > 1 {
			id = fmt.Sprintf("%s-%d", id, n)
		}

		artifacts = append(artifacts, Artifact{ID: id, Title: u.Title, Link: u.Link})
	}
	return artifacts
}

// nonEmpty returns the trimmed, non-blank entries
func nonEmpty(items []string) []string {
	out := []string{}
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
