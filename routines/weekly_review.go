package routines

import (
	"context"
	"errors"

	pipeline "github.com/drewbarontini/system-runner"
)

type WeeklyReviewInput struct {
	Updates []ProjectUpdate `yaml:"updates" json:"updates"`
}

type WeeklyReviewOutput struct {
	Artifacts []Artifact `yaml:"artifacts" json:"artifacts"`
}

type reviewStep = pipeline.Step[WeeklyReviewInput, WeeklyReviewOutput]
type reviewContext = pipeline.StepContext[WeeklyReviewInput, WeeklyReviewOutput]

// WeeklyReview collects project updates and tracks their progress artifacts
func WeeklyReview() pipeline.SystemSpec[WeeklyReviewInput, WeeklyReviewOutput] {
	return pipeline.SystemSpec[WeeklyReviewInput, WeeklyReviewOutput]{
		Name:        "weekly-review",
		Description: "Share project progress and keep artifacts of it",
		Steps: []reviewStep{
			pipeline.NewStep("share-updates",
				"Each team member shares their updates and shows progress",
				"Every project reports its status: on track, off track or at risk.",
				func(ctx context.Context, sc reviewContext) (reviewContext, error) {
					counts, err := tallyStatuses(sc.Input.Updates)
					if err != nil {
						return sc, err
					}
					sc.State = sc.State.With("status_counts", counts)
					return sc, nil
				}),
			pipeline.NewManualStep[WeeklyReviewInput, WeeklyReviewOutput]("update-systems",
				"Systems are updated to reflect the latest project status",
				"Update boards and trackers so they match what was shared."),
			pipeline.NewStep("track-artifacts",
				"Videos and screenshots are tracked as progress artifacts",
				"Every update that links to a video or screenshot becomes an artifact.",
				func(ctx context.Context, sc reviewContext) (reviewContext, error) {
					sc.State = sc.State.With("artifacts", artifactsFrom(sc.Input.Updates))
					return sc, nil
				}),
		},
		Finalize: func(sc reviewContext) (WeeklyReviewOutput, error) {
			artifacts, ok := pipeline.Lookup[[]Artifact](sc.State, "artifacts")
			if !ok {
				return WeeklyReviewOutput{}, errors.New("artifacts were not tracked")
			}
			return WeeklyReviewOutput{Artifacts: artifacts}, nil
		},
	}
}
