package cli

import (
	"github.com/spf13/cobra"

	"charm.land/lipgloss/v2"
)

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name|file.yaml>",
		Short: "Show the steps and triggers of a routine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.resolve(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			lipgloss.Fprintln(w, titleStyle.Render(t.name))
			if t.description != "" {
				lipgloss.Fprintln(w, t.description)
			}
			lipgloss.Fprintln(w, faintStyle.Render("source: "+t.source))

			lipgloss.Fprintln(w)
			lipgloss.Fprintln(w, titleStyle.Render("Steps"))
			for i, step := range t.outline {
				kind := manualStyle.Render("manual")
				if !step.Manual {
					kind = okStyle.Render("automated")
					if action, ok := t.actions[step.ID]; ok {
						kind = okStyle.Render(action)
					}
				}
				lipgloss.Fprintf(w, "  %d. %s [%s]\n", i+1, step.Title, kind)
				if step.Description != "" {
					lipgloss.Fprintf(w, "     %s\n", faintStyle.Render(step.Description))
				}
			}

			if len(t.triggers) > 0 {
				lipgloss.Fprintln(w)
				lipgloss.Fprintln(w, titleStyle.Render("Triggers"))
				for _, trigger := range t.triggers {
					lipgloss.Fprintf(w, "  %s: %s\n", trigger.Type, trigger.Schedule)
					if trigger.Description != "" {
						lipgloss.Fprintf(w, "     %s\n", faintStyle.Render(trigger.Description))
					}
				}
			}

			return nil
		},
	}
}
