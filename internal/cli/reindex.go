package cli

import (
	"github.com/spf13/cobra"
)

func newReindexCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Repair the board: drop orphans and renumber every sibling set densely",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.Repair(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res,
				"meta": map[string]any{"dir": app.Dir, "counts": b.Snapshot().Counts()},
				"_hints": []string{
					"taskorium doctor --fail",
				},
			})
		},
	}
}
