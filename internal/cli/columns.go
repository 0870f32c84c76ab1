package cli

import (
	"math"

	"github.com/spf13/cobra"
)

func newColumnsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "columns",
		Aliases: []string{"column", "cols"},
		Short:   "Column commands",
	}
	cmd.AddCommand(newColumnsCreateCmd(app))
	cmd.AddCommand(newColumnsListCmd(app))
	cmd.AddCommand(newColumnsRenameCmd(app))
	cmd.AddCommand(newColumnsMoveCmd(app))
	cmd.AddCommand(newColumnsDeleteCmd(app))
	return cmd
}

func newColumnsCreateCmd(app *App) *cobra.Command {
	var projectID, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Append a column to a project (default: current project)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			pid, err := projectArg(b.CurrentProjectID(), []string{projectID})
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.CreateColumn(ctx, pid, name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Column})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: current project)")
	cmd.Flags().StringVar(&name, "name", "", "Column name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newColumnsListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's columns left to right",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := loadBoard(cmdContext(cmd), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			pid, err := projectArg(b.CurrentProjectID(), []string{projectID})
			if err != nil {
				return writeErr(cmd, err)
			}
			cols, err := b.Columns(pid)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cols})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: current project)")
	return cmd
}

func newColumnsRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <column-id>",
		Short: "Rename a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.RenameColumn(ctx, args[0], name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res.Column,
				"meta": map[string]any{"changed": res.Changed},
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newColumnsMoveCmd(app *App) *cobra.Command {
	var to int

	cmd := &cobra.Command{
		Use:   "move <column-id>",
		Short: "Move a column to a drop-gap index within its project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.MoveColumn(ctx, args[0], to)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().IntVar(&to, "to", math.MaxInt32, "Drop-gap index (0 = leftmost; default: end)")
	return cmd
}

func newColumnsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <column-id>",
		Short: "Delete a column; its cards move to the first remaining column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.DeleteColumn(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
}
