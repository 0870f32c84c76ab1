package cli

import (
	"github.com/spf13/cobra"
)

func newSubtasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtasks",
		Aliases: []string{"subtask"},
		Short:   "Subtask (checklist) commands",
	}
	cmd.AddCommand(newSubtasksAddCmd(app))
	cmd.AddCommand(newSubtasksListCmd(app))
	cmd.AddCommand(newSubtasksToggleCmd(app))
	cmd.AddCommand(newSubtasksRenameCmd(app))
	cmd.AddCommand(newSubtasksDeleteCmd(app))
	return cmd
}

func newSubtasksAddCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <card-id>",
		Short: "Add a subtask to a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.CreateSubtask(ctx, args[0], title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Subtask})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Subtask title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newSubtasksListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <card-id>",
		Short: "List a card's subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := loadBoard(cmdContext(cmd), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			subs, err := b.Subtasks(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			done := 0
			for _, s := range subs {
				if s.Completed {
					done++
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": subs,
				"meta": map[string]any{"completed": done, "total": len(subs)},
			})
		},
	}
}

func newSubtasksToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <subtask-id>",
		Short: "Flip a subtask's completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.ToggleSubtask(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Subtask})
		},
	}
}

func newSubtasksRenameCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "rename <subtask-id>",
		Short: "Rename a subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.RenameSubtask(ctx, args[0], title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res.Subtask,
				"meta": map[string]any{"changed": res.Changed},
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newSubtasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <subtask-id>",
		Short: "Delete a subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.DeleteSubtask(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
}
