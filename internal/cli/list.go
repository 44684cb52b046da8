package cli

import (
	"github.com/spf13/cobra"

	"charm.land/lipgloss/v2"

	"github.com/drewbarontini/system-runner/routines"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available routines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			lipgloss.Fprintln(w, titleStyle.Render("Built-in routines"))
			for _, entry := range routines.Catalog() {
				lipgloss.Fprintf(w, "  %-16s %s\n", entry.Name, faintStyle.Render(entry.Description))
			}

			names := a.registry.List()
			if len(names) == 0 {
				return nil
			}

			lipgloss.Fprintln(w)
			lipgloss.Fprintf(w, "%s %s\n", titleStyle.Render("Routines from"), a.settings.RoutinesDir)
			for _, name := range names {
				cfg, _ := a.registry.Get(name)
				lipgloss.Fprintf(w, "  %-16s %s\n", name, faintStyle.Render(cfg.Description))
			}
			return nil
		},
	}
}
