package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"taskorium-cli/internal/store"
)

func newWorkspaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Workspace management (the default workspace is fine for most uses)",
	}
	cmd.AddCommand(newWorkspaceInitCmd(app))
	cmd.AddCommand(newWorkspaceUseCmd(app))
	cmd.AddCommand(newWorkspaceCurrentCmd(app))
	cmd.AddCommand(newWorkspaceListCmd(app))
	return cmd
}

func newWorkspaceInitCmd(app *App) *cobra.Command {
	var use bool

	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Create a named workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := store.NormalizeWorkspaceName(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := store.WorkspaceDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := os.Stat(dir); err == nil {
				return writeErr(cmd, errors.New("workspace already exists: "+name))
			}
			s := store.Store{Dir: dir}
			if _, err := s.Load(cmdContext(cmd)); err != nil {
				return writeErr(cmd, err)
			}
			if use {
				if err := setCurrentWorkspace(app, name); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"workspace": name, "dir": dir},
			})
		},
	}

	cmd.Flags().BoolVar(&use, "use", false, "Make it the current workspace")
	return cmd
}

func newWorkspaceUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Set current workspace (created if missing)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := store.NormalizeWorkspaceName(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := store.WorkspaceDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := (store.Store{Dir: dir}).Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			if err := setCurrentWorkspace(app, name); err != nil {
				return writeErr(cmd, err)
			}
			app.Workspace = name
			app.Dir = dir
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"workspace": name, "dir": dir},
			})
		},
	}
}

func newWorkspaceCurrentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the workspace commands would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"workspace": workspaceLabel(app), "dir": dir},
			})
		},
	}
}

func newWorkspaceListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := "default"
			if app.cfg != nil && app.cfg.CurrentWorkspace != "" {
				current = app.cfg.CurrentWorkspace
			}
			ws, err := store.ListWorkspaces()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"workspaces":       ws,
					"currentWorkspace": current,
				},
			})
		},
	}
}

func setCurrentWorkspace(app *App, name string) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	cfg.CurrentWorkspace = name
	if err := store.SaveConfig(cfg); err != nil {
		return err
	}
	app.cfg = cfg
	return nil
}
