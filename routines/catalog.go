package routines

import (
	"context"
	"fmt"
	"sort"

	pipeline "github.com/drewbarontini/system-runner"
	"github.com/drewbarontini/system-runner/models"
)

// DecodeFunc fills a typed routine input, e.g. yaml.Node.Decode
type DecodeFunc func(v any) error

// Entry describes a typed routine independently of its input and output types
type Entry struct {
	Name        string
	Description string
	Triggers    []models.Trigger
	Outline     []pipeline.StepInfo

	run func(ctx context.Context, decode DecodeFunc, opts []pipeline.Option) (any, error)
}

// Run decodes the routine input and executes the routine.
// The returned value is a *pipeline.Result of the routine's own types.
// A nil decode runs the routine with a zero input.
func (e Entry) Run(ctx context.Context, decode DecodeFunc, opts ...pipeline.Option) (any, error) {
	return e.run(ctx, decode, opts)
}

func newEntry[I, O any](spec pipeline.SystemSpec[I, O], triggers []models.Trigger) Entry {
	return Entry{
		Name:        spec.Name,
		Description: spec.Description,
		Triggers:    triggers,
		Outline:     spec.Outline(),
		run: func(ctx context.Context, decode DecodeFunc, opts []pipeline.Option) (any, error) {
			var input I
			if decode != nil {
				if err := decode(&input); err != nil {
					return nil, fmt.Errorf("failed to decode input for '%s': %w", spec.Name, err)
				}
			}
			result, err := pipeline.Execute(ctx, spec, input, opts...)
			if err != nil {
				return nil, err
			}
			return result, nil
		},
	}
}

// Catalog returns the built-in routines sorted by name
func Catalog() []Entry {
	entries := []Entry{
		newEntry(DailyStartup(), DailyStartupTriggers),
		newEntry(WeeklyReview(), nil),
		newEntry(WeeklySync(nil), WeeklySyncTriggers),
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Lookup returns the built-in routine with the given name
func Lookup(name string) (Entry, bool) {
	for _, e := range Catalog() {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
