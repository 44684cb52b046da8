package routines

import (
	"context"
	"fmt"

	pipeline "github.com/drewbarontini/system-runner"
	"github.com/drewbarontini/system-runner/models"
)

// maxOutcomes caps the focus of a day
const maxOutcomes = 3

type DailyStartupInput struct {
	Notifications []string `yaml:"notifications" json:"notifications"`
	Schedule      []string `yaml:"schedule" json:"schedule"`
	Tasks         []string `yaml:"tasks" json:"tasks"`
}

type DailyStartupOutput struct {
	Outcomes []string `yaml:"outcomes" json:"outcomes"`
}

var DailyStartupTriggers = []models.Trigger{
	{
		Type:        "time",
		Description: "Run the daily startup routine at the beginning of each day",
		Schedule:    "Every weekday at 9:00 AM ET",
	},
}

type dailyStep = pipeline.Step[DailyStartupInput, DailyStartupOutput]
type dailyContext = pipeline.StepContext[DailyStartupInput, DailyStartupOutput]

// DailyStartup closes open loops, blocks time and picks up to three outcomes for the day
func DailyStartup() pipeline.SystemSpec[DailyStartupInput, DailyStartupOutput] {
	return pipeline.SystemSpec[DailyStartupInput, DailyStartupOutput]{
		Name:        "daily-startup",
		Description: "Start the day with a clear inbox, a protected calendar and a short list of outcomes",
		Steps: []dailyStep{
			pipeline.NewStep("review-notifications",
				"Review all notifications and close open loops",
				"Go through every notification and either act on it or capture it as a task.",
				func(ctx context.Context, sc dailyContext) (dailyContext, error) {
					sc.State = sc.State.With("open_loops", nonEmpty(sc.Input.Notifications))
					return sc, nil
				}),
			pipeline.NewStep("review-schedule",
				"Review schedule for the day and block off time",
				"Check the calendar and reserve focus time around meetings.",
				func(ctx context.Context, sc dailyContext) (dailyContext, error) {
					sc.State = sc.State.With("blocked", nonEmpty(sc.Input.Schedule))
					return sc, nil
				}),
			pipeline.NewStep("determine-focus",
				"Determine core focus and get started on it",
				"Pick the outcomes that matter most today.",
				func(ctx context.Context, sc dailyContext) (dailyContext, error) {
					tasks := nonEmpty(sc.Input.Tasks)
					if len(tasks) > maxOutcomes {
						tasks = tasks[:maxOutcomes]
					}
					sc.State = sc.State.With("focus", tasks)
					return sc, nil
				}),
		},
		Finalize: func(sc dailyContext) (DailyStartupOutput, error) {
			focus, ok := pipeline.Lookup[[]string](sc.State, "focus")
			if !ok {
				return DailyStartupOutput{}, fmt.Errorf("focus was not determined")
			}

			outcomes := make([]string, len(focus))
			for i, task := range focus {
				outcomes[i] = fmt.Sprintf("%d. %s", i+1, task)
			}
			return DailyStartupOutput{Outcomes: outcomes}, nil
		},
	}
}
