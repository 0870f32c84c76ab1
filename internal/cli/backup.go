package cli

import (
	"github.com/spf13/cobra"

	"taskorium-cli/internal/store"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import a workspace as board.json + events.jsonl",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export <dir>",
		Short: "Write the workspace into dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s := store.Store{Dir: dir}
			res, err := s.ExportBackup(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <dir>",
		Short: "Replace the workspace with a backup (rejected if the backup fails doctor checks)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s := store.Store{Dir: dir}
			res, err := s.ImportBackup(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   res,
				"_hints": []string{"taskorium doctor"},
			})
		},
	})
	return cmd
}
