package cli

import (
	"io"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/drewbarontini/system-runner/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	manualStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// ConsoleListener prints run events as they happen
type ConsoleListener struct {
	w io.Writer
}

func NewConsoleListener(w io.Writer) *ConsoleListener {
	return &ConsoleListener{w: w}
}

func (cl *ConsoleListener) OnEvent(event models.Event) {
	timestamp := faintStyle.Render(event.Timestamp.Format("15:04:05.000"))
	title, _ := event.Data["title"].(string)

	switch event.Type {
	case models.EventRunStarted:
		lipgloss.Fprintf(cl.w, "%s %s %s (%v steps)\n", timestamp, titleStyle.Render("▶"), event.Data["pipeline"], event.Data["steps"])

	case models.EventStepStarted:
		lipgloss.Fprintf(cl.w, "%s   %s...\n", timestamp, title)

	case models.EventStepCompleted:
		duration, _ := event.Data["duration"].(time.Duration)
		lipgloss.Fprintf(cl.w, "%s   %s %s %s\n", timestamp, okStyle.Render("✓"), title, faintStyle.Render(duration.Round(time.Microsecond).String()))

	case models.EventStepManual:
		lipgloss.Fprintf(cl.w, "%s   %s %s\n", timestamp, manualStyle.Render("☐"), title)
		if description, _ := event.Data["description"].(string); description != "" {
			lipgloss.Fprintf(cl.w, "%s     %s\n", timestamp, faintStyle.Render(description))
		}

	case models.EventStepFailed:
		err, _ := event.Data["error"].(string)
		lipgloss.Fprintf(cl.w, "%s   %s %s: %s\n", timestamp, errStyle.Render("✗"), title, err)

	case models.EventRunSucceeded:
		duration, _ := event.Data["duration"].(time.Duration)
		lipgloss.Fprintf(cl.w, "%s %s completed in %v\n", timestamp, okStyle.Render("■"), duration.Round(time.Millisecond))

	case models.EventRunFailed:
		err, _ := event.Data["error"].(string)
		lipgloss.Fprintf(cl.w, "%s %s %s\n", timestamp, errStyle.Render("■"), err)
	}
}
