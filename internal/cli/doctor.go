package cli

import (
	"github.com/spf13/cobra"

	"taskorium-cli/internal/store"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate board ordering and ownership invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := loadBoard(cmdContext(cmd), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			report := b.Check()
			snap := b.Snapshot()

			if err := writeOut(cmd, app, map[string]any{
				"data": report,
				"meta": map[string]any{
					"issues":    len(report.Issues),
					"hasErrors": report.HasErrors(),
					"counts":    snap.Counts(),
				},
				"_hints": []string{"taskorium reindex"},
			}); err != nil {
				return err
			}

			if fail && report.HasErrors() {
				return store.ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
