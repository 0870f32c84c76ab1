package cli

import (
	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int
	var entityID string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the local event log",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List events (oldest-first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			_, s, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			evs, err := s.ReadEvents(ctx, entityID, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 200, "Max events to return (0 = all)")
	listCmd.Flags().StringVar(&entityID, "entity", "", "Only events for this entity id")

	cmd.AddCommand(listCmd)
	return cmd
}
