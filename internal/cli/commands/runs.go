package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/takeline-labs/takeline/internal/report"
	"github.com/takeline-labs/takeline/internal/state"
	"github.com/takeline-labs/takeline/internal/validate"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show run history",
		Long: `List recorded takeoff runs, or show the per-item validation results
of one run when a run ID is given.`,
		Example: `  # Recent runs
  takeline runs

  # One run's item results
  takeline runs 6a1f3c9e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()

			store := state.NewSQLiteStore()
			if err := store.Open(cfg.StatePath); err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				return showRun(cmd, store, args[0])
			}
			return listRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}

func listRuns(cmd *cobra.Command, store *state.SQLiteStore, limit int) error {
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}

	if jsonOutput(getConfig()) {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "(no runs recorded)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Project", "Status", "Started", "Items", "Accuracy"})
	for _, run := range runs {
		accuracy := "-"
		if run.Items > 0 {
			accuracy = fmt.Sprintf("%.1f%%", run.OverallPct)
		}
		t.AppendRow(table.Row{
			run.ID, run.Project, run.Status,
			run.StartedAt.Local().Format(time.DateTime),
			run.Items, accuracy,
		})
	}
	t.Render()
	return nil
}

func showRun(cmd *cobra.Command, store *state.SQLiteStore, id string) error {
	run, err := store.GetRun(id)
	if err != nil {
		return err
	}
	records, err := store.GetRecords(id)
	if err != nil {
		return err
	}

	if jsonOutput(getConfig()) {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"run": run, "records": records})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s) started %s\n", run.ID, run.Status,
		run.StartedAt.Local().Format(time.DateTime))
	if run.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", run.Error)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "(no validation results recorded)")
		return nil
	}

	report.RenderValidation(out, records, validate.Summary{
		Total:      run.Items,
		Exact:      run.Exact,
		Close:      run.Close,
		Acceptable: run.Acceptable,
		Miss:       run.Miss,
		OverallPct: run.OverallPct,
	})
	return nil
}
