package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"taskorium-cli/internal/publish"
)

func newPublishCmd(app *App) *cobra.Command {
	var toDir string
	var includeBodies bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish [project-id]",
		Short: "Export a project board as Markdown files (not canonical)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toDir = strings.TrimSpace(toDir)
			if toDir == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
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
			res, err := publish.WriteBoard(v, toDir, publish.WriteOptions{
				IncludeBodies: includeBodies,
				Overwrite:     overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res,
				"meta": map[string]any{"projectId": id},
			})
		},
	}
	cmd.Flags().StringVar(&toDir, "to", "", "Output directory")
	cmd.Flags().BoolVar(&includeBodies, "include-bodies", false, "Inline card bodies in the board index")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	return cmd
}
