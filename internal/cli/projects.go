package cli

import (
	"math"
	"strings"

	"github.com/spf13/cobra"

	"taskorium-cli/internal/model"
	"taskorium-cli/internal/mutate"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Project commands",
	}
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	cmd.AddCommand(newProjectsEditCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	cmd.AddCommand(newProjectsMoveCmd(app))
	cmd.AddCommand(newProjectsReorderCmd(app))
	cmd.AddCommand(newProjectsUseCmd(app))
	cmd.AddCommand(newProjectsCurrentCmd(app))
	return cmd
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var name, description, theme string
	var use bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project with the default columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(theme) == "" && app.cfg != nil {
				theme = app.cfg.DefaultTheme
			}
			th, err := model.ParseTheme(theme)
			if err != nil {
				return writeErr(cmd, mutate.ValidationError{Field: "theme", Message: err.Error()})
			}
			res, err := b.CreateProject(ctx, name, description, th)
			if err != nil {
				return writeErr(cmd, err)
			}
			if use {
				if _, err := b.UseProject(ctx, res.Project.ID); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": res.Project,
				"meta": map[string]any{"columns": res.Columns},
				"_hints": []string{
					"taskorium board " + res.Project.ID,
					"taskorium cards create --column " + res.Columns[0].ID + " --title <title>",
				},
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&theme, "theme", "", "Planet theme (mercury|venus|earth|mars|jupiter|saturn|uranus|neptune)")
	cmd.Flags().BoolVar(&use, "use", false, "Make it the current project")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects in board order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := loadBoard(cmdContext(cmd), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": b.Projects(),
				"meta": map[string]any{"currentProjectId": b.CurrentProjectID()},
			})
		},
	}
}

func newProjectsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [project-id]",
		Short: "Show a project and its columns (default: current project)",
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
			p, err := b.Project(id)
			if err != nil {
				return writeErr(cmd, err)
			}
			cols, err := b.Columns(id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": p,
				"meta": map[string]any{"columns": cols},
			})
		},
	}
}

func newProjectsEditCmd(app *App) *cobra.Command {
	var name, description, theme string

	cmd := &cobra.Command{
		Use:   "edit <project-id>",
		Short: "Edit a project's name, description or theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var patch mutate.ProjectPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("theme") {
				th, err := model.ParseTheme(theme)
				if err != nil {
					return writeErr(cmd, mutate.ValidationError{Field: "theme", Message: err.Error()})
				}
				patch.Theme = &th
			}
			res, err := b.EditProject(ctx, args[0], patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res.Project,
				"meta": map[string]any{"changed": res.Changed},
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&theme, "theme", "", "New planet theme")
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project with all of its columns, cards and subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.DeleteProject(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
}

func newProjectsMoveCmd(app *App) *cobra.Command {
	var to int

	cmd := &cobra.Command{
		Use:   "move <project-id>",
		Short: "Move a project to a drop-gap index in the project list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.MoveProject(ctx, args[0], to)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().IntVar(&to, "to", math.MaxInt32, "Drop-gap index (0 = first; default: end)")
	return cmd
}

func newProjectsReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <project-id>...",
		Short: "Set the project order; unlisted projects keep their relative order after the listed ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.ReorderProjects(ctx, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": b.Projects(),
				"meta": map[string]any{"changed": res.Changed},
			})
		},
	}
}

func newProjectsUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <project-id>",
		Short: "Set the current project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := b.UseProject(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
}

func newProjectsCurrentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := loadBoard(cmdContext(cmd), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := b.CurrentProjectID()
			if id == "" {
				return writeErr(cmd, errNoCurrentProject)
			}
			p, err := b.Project(id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
}

// projectArg returns args[0] or the current project.
func projectArg(current string, args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if strings.TrimSpace(current) == "" {
		return "", errNoCurrentProject
	}
	return current, nil
}
