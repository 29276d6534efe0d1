package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/takeline-labs/takeline/internal/engine"
	"github.com/takeline-labs/takeline/internal/report"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var minAccuracy float64

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Score a takeoff against ground truth",
		Long: `Run the full pipeline and compare every generated quantity against
the ground truth file. The run is recorded in the history database.

The command fails when overall accuracy lands below --min-accuracy,
which makes it usable as a regression gate.`,
		Example: `  takeline validate --drawing plans/set.pdf --ground-truth truth.yaml

  # Fail the build below 90% accuracy
  takeline validate --drawing plans/set.pdf --ground-truth truth.yaml --min-accuracy 90`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()

			doc, closeDoc, err := openDocument(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeDoc() }()

			ref, err := loadGroundTruth(cfg, true)
			if err != nil {
				return err
			}

			eng, err := createEngine(cmd, cfg, true)
			if err != nil {
				return err
			}
			defer eng.Close()

			result, err := eng.Run(cmd.Context(), doc, engine.RunOptions{
				GroundTruth: ref,
				Derive:      deriveOptions(cmd, cfg),
			})
			if err != nil {
				return fmt.Errorf("validation run failed: %w", err)
			}

			if jsonOutput(cfg) {
				if err := report.WriteJSON(cmd.OutOrStdout(), report.Result{
					Project: cfg.Project.Name,
					RunID:   result.RunID,
					Records: result.Records,
					Summary: result.Summary,
				}); err != nil {
					return err
				}
			} else {
				report.RenderValidation(cmd.OutOrStdout(), result.Records, *result.Summary)
			}

			if result.Summary.OverallPct < minAccuracy {
				return fmt.Errorf("accuracy %.1f%% below required %.1f%%",
					result.Summary.OverallPct, minAccuracy)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&minAccuracy, "min-accuracy", 0, "Fail below this overall accuracy percentage")
	return cmd
}
