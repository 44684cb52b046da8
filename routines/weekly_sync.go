package routines

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pipeline "github.com/drewbarontini/system-runner"
	"github.com/drewbarontini/system-runner/models"
)

// PlaceholderVideoLink is the output of a weekly sync nobody recorded
const PlaceholderVideoLink = "A_LINK_TO_YOUR_VIDEO_UPDATE"

type WeeklySyncInput struct {
	WeekOf         string          `yaml:"week_of" json:"weekOf"`
	Metrics        []string        `yaml:"metrics" json:"metrics"`
	Released       []string        `yaml:"released" json:"released"`
	ProjectUpdates []ProjectUpdate `yaml:"project_updates" json:"projectUpdates"`
}

type WeeklySyncOutput struct {
	VideoLink string `yaml:"video_link" json:"videoLink"`
}

// WeeklySummary is what gets recorded at the end of a weekly sync
type WeeklySummary struct {
	WeekOf       string
	Metrics      []string
	Released     []string
	StatusCounts map[ProjectStatus]int
	Flagged      []string // Projects off track or at risk
}

// Recorder publishes the weekly video and returns its link
type Recorder interface {
	Record(ctx context.Context, summary WeeklySummary) (string, error)
}

// RecorderFunc is an adapter to use functions as Recorder
type RecorderFunc func(ctx context.Context, summary WeeklySummary) (string, error)

func (f RecorderFunc) Record(ctx context.Context, summary WeeklySummary) (string, error) {
	return f(ctx, summary)
}

var WeeklySyncTriggers = []models.Trigger{
	{
		Type:        "time",
		Description: "Run the weekly sync at the beginning of each week.",
		Schedule:    "Every Monday at 10:00 AM ET",
	},
}

type syncStep = pipeline.Step[WeeklySyncInput, WeeklySyncOutput]
type syncContext = pipeline.StepContext[WeeklySyncInput, WeeklySyncOutput]

const (
	recordStepID    = "record-video"
	recordStepTitle = "Record and publish a weekly Loom video summarizing highlights, risks, and next steps."
	recordStepDesc  = "Share the summary with everyone who could not attend."
)

// WeeklySync reviews the past week and publishes a video summary.
// With a nil recorder the recording is left to the operator.
func WeeklySync(recorder Recorder) pipeline.SystemSpec[WeeklySyncInput, WeeklySyncOutput] {
	steps := []syncStep{
		pipeline.NewManualStep[WeeklySyncInput, WeeklySyncOutput]("review-metrics",
			"Review metrics and surfaced signals from the past week.",
			"Look for anything unusual in the dashboards."),
		pipeline.NewManualStep[WeeklySyncInput, WeeklySyncOutput]("review-releases",
			"Review last week's releases and note any follow-ups needed.",
			""),
		pipeline.NewStep("review-project-updates",
			"Review project updates and assess status (on track / off track / at risk).",
			"",
			func(ctx context.Context, sc syncContext) (syncContext, error) {
				counts, err := tallyStatuses(sc.Input.ProjectUpdates)
				if err != nil {
					return sc, err
				}
				sc.State = sc.State.
					With("status_counts", counts).
					With("flagged", flagged(sc.Input.ProjectUpdates))
				return sc, nil
			}),
		pipeline.NewManualStep[WeeklySyncInput, WeeklySyncOutput]("update-systems",
			"Update internal systems and artifacts to reflect the latest information.",
			""),
	}

	if recorder == nil {
		steps = append(steps, pipeline.NewManualStep[WeeklySyncInput, WeeklySyncOutput](recordStepID, recordStepTitle, recordStepDesc))
	} else {
		steps = append(steps, pipeline.NewStep(recordStepID, recordStepTitle, recordStepDesc,
			func(ctx context.Context, sc syncContext) (syncContext, error) {
				counts, _ := pipeline.Lookup[map[ProjectStatus]int](sc.State, "status_counts")
				flaggedProjects, _ := pipeline.Lookup[[]string](sc.State, "flagged")

				link, err := recorder.Record(ctx, WeeklySummary{
					WeekOf:       sc.Input.WeekOf,
					Metrics:      nonEmpty(sc.Input.Metrics),
					Released:     nonEmpty(sc.Input.Released),
					StatusCounts: counts,
					Flagged:      flaggedProjects,
				})
				if err != nil {
					return sc, fmt.Errorf("failed to record weekly video: %w", err)
				}
				if strings.TrimSpace(link) == "" {
					return sc, errors.New("recorder returned an empty link")
				}

				sc.State = sc.State.With("video_link", link)
				return sc, nil
			}))
	}

	return pipeline.SystemSpec[WeeklySyncInput, WeeklySyncOutput]{
		Name:        "weekly-sync",
		Description: "Review the past week and publish a video summary",
		Steps:       steps,
		Finalize: func(sc syncContext) (WeeklySyncOutput, error) {
			if link, ok := pipeline.Lookup[string](sc.State, "video_link"); ok {
				return WeeklySyncOutput{VideoLink: link}, nil
			}
			return WeeklySyncOutput{VideoLink: PlaceholderVideoLink}, nil
		},
	}
}
