package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"taskorium-cli/internal/model"
	"taskorium-cli/internal/store"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Global settings (~/.taskorium/config.json)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective global config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": app.cfg,
				"meta": map[string]any{"path": path},
			})
		},
	})
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigSetCmd(app *App) *cobra.Command {
	var theme, logLevel, redisURL, redisChannel string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update global settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			f := cmd.Flags()
			if f.Changed("default-theme") {
				th := ""
				if strings.TrimSpace(theme) != "" {
					t, err := model.ParseTheme(theme)
					if err != nil {
						return writeErr(cmd, err)
					}
					th = string(t)
				}
				cfg.DefaultTheme = th
			}
			if f.Changed("log-level-default") {
				cfg.LogLevel = strings.TrimSpace(logLevel)
			}
			if f.Changed("redis-url") || f.Changed("redis-channel") {
				if cfg.Redis == nil {
					cfg.Redis = &store.RedisConfig{}
				}
				if f.Changed("redis-url") {
					cfg.Redis.URL = strings.TrimSpace(redisURL)
				}
				if f.Changed("redis-channel") {
					cfg.Redis.Channel = strings.TrimSpace(redisChannel)
				}
				if cfg.Redis.URL == "" && cfg.Redis.Channel == "" {
					cfg.Redis = nil
				}
			}
			if f.Changed("no-color") {
				cfg.TUI = &store.TUIConfig{NoColor: noColor}
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.cfg = cfg
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	}

	cmd.Flags().StringVar(&theme, "default-theme", "", "Theme for new projects (empty to clear)")
	cmd.Flags().StringVar(&logLevel, "log-level-default", "", "Default log level")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "redis:// URL for commit notifications (empty to disable)")
	cmd.Flags().StringVar(&redisChannel, "redis-channel", "", "Pub/sub channel (default: taskorium:commits)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colors in the TUI")
	return cmd
}
