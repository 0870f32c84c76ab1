package cli

import (
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board [project-id]",
		Short: "Print a project's columns, cards and subtask progress (default: current project)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := loadBoard(cmdContext(cmd), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := projectArg(b.CurrentProjectID(), args)
			if err != nil {
				return writeErr(cmd, err)
			}
			v, err := b.Board(id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": v})
		},
	}
}
