package cli

import (
	"math"
	"strings"

	"github.com/spf13/cobra"

	"taskorium-cli/internal/mutate"
)

func newCardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"card"},
		Short:   "Card commands",
	}
	cmd.AddCommand(newCardsCreateCmd(app))
	cmd.AddCommand(newCardsListCmd(app))
	cmd.AddCommand(newCardsShowCmd(app))
	cmd.AddCommand(newCardsEditCmd(app))
	cmd.AddCommand(newCardsMoveCmd(app))
	cmd.AddCommand(newCardsDeleteCmd(app))
	return cmd
}

func newCardsCreateCmd(app *App) *cobra.Command {
	var columnID, title, body string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Append a card to a column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.CreateCard(ctx, columnID, title, body)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   res.Card,
				"_hints": []string{"taskorium subtasks add " + res.Card.ID + " --title <title>"},
			})
		},
	}

	cmd.Flags().StringVar(&columnID, "column", "", "Column id")
	cmd.Flags().StringVar(&title, "title", "", "Card title")
	cmd.Flags().StringVar(&body, "body", "", "Card body (markdown)")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newCardsListCmd(app *App) *cobra.Command {
	var columnID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a column's cards top to bottom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := loadBoard(cmdContext(cmd), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cards, err := b.Cards(columnID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cards})
		},
	}

	cmd.Flags().StringVar(&columnID, "column", "", "Column id")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func newCardsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <card-id>",
		Short: "Show a card with its subtasks and location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := loadBoard(cmdContext(cmd), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			d, err := b.Card(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": d})
		},
	}
}

func newCardsEditCmd(app *App) *cobra.Command {
	var title, body string

	cmd := &cobra.Command{
		Use:   "edit <card-id>",
		Short: "Edit a card's title or body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var patch mutate.CardPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("body") {
				patch.Body = &body
			}
			res, err := b.EditCard(ctx, args[0], patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res.Card,
				"meta": map[string]any{"changed": res.Changed},
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&body, "body", "", "New body (markdown)")
	return cmd
}

func newCardsMoveCmd(app *App) *cobra.Command {
	var columnID string
	var to int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "move <card-id>",
		Short: "Move a card to a drop-gap index in a column (default: its own column)",
		Long: strings.TrimSpace(`
Move a card. --to is a drop-gap index measured with the card still in place:
0 drops in front of the first card, N (the column length) drops after the last.
Within the same column, dropping just before or after the card is a no-op.
Out-of-range values are clamped.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			dest := strings.TrimSpace(columnID)
			if dest == "" {
				loc, err := b.LocateCard(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				dest = loc.ParentID
			}
			if dryRun {
				t, err := b.ResolveCardDrop(args[0], dest, to)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": t, "meta": map[string]any{"dryRun": true}})
			}
			res, err := b.MoveCard(ctx, args[0], dest, to)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&columnID, "column", "", "Destination column id (default: current column)")
	cmd.Flags().IntVar(&to, "to", math.MaxInt32, "Drop-gap index (default: end)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve the drop target without moving")
	return cmd
}

func newCardsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Delete a card and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			b, _, err := loadBoard(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := b.DeleteCard(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
}
