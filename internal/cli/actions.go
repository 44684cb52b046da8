package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"charm.land/lipgloss/v2"

	"github.com/drewbarontini/system-runner/builder"
)

func newActionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the actions YAML routine steps can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, name := range builder.ListActionTypes() {
				description, _ := builder.DescribeAction(name)
				lipgloss.Fprintf(w, "  %s %s\n", titleStyle.Render(fmt.Sprintf("%-12s", name)), description)
			}
			return nil
		},
	}
}
