package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/takeline-labs/takeline/internal/engine"
	"github.com/takeline-labs/takeline/internal/report"
)

// NewDeriveCommand creates the derive command.
func NewDeriveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive the material list from a drawing set",
		Long: `Run extraction and the derivation rules, printing the resulting
material list without validation or run history. Length-dependent rules
are skipped entirely when no conduit lengths are available.`,
		Example: `  takeline derive --drawing plans/set.pdf
  takeline derive --drawing plans/set.pdf --fittings=false`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()

			doc, closeDoc, err := openDocument(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeDoc() }()

			ref, err := loadGroundTruth(cfg, false)
			if err != nil {
				return err
			}

			eng, err := createEngine(cmd, cfg, false)
			if err != nil {
				return err
			}
			defer eng.Close()

			result, err := eng.Run(cmd.Context(), doc, engine.RunOptions{
				Derive: deriveOptions(cmd, cfg),
			})
			if err != nil {
				return fmt.Errorf("derivation failed: %w", err)
			}

			if jsonOutput(cfg) {
				return report.WriteJSON(cmd.OutOrStdout(), report.Result{
					Project:   cfg.Project.Name,
					Lengths:   result.Lengths,
					Counts:    result.Counts,
					Materials: result.Materials,
				})
			}
			report.RenderLengths(cmd.OutOrStdout(), result.Lengths)
			report.RenderMaterials(cmd.OutOrStdout(), result.Materials, categoryFn(ref))
			return nil
		},
	}

	cmd.Flags().Bool("fittings", true, "Derive conduit fittings from run lengths")
	cmd.Flags().Bool("consumables", true, "Derive consumables from device totals")
	cmd.Flags().Bool("wire", true, "Derive conductor footage from run lengths")

	return cmd
}
