package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/takeline-labs/takeline/internal/report"
)

// NewCountCommand creates the count command.
func NewCountCommand() *cobra.Command {
	var instructions string

	cmd := &cobra.Command{
		Use:   "count <image>",
		Short: "Count devices on a rendered page image",
		Long: `Send one rendered drawing page to the configured vision model and
report the device counts it sees. Useful as a cross-check against the
pattern extractors on sheets with unusual symbology.

Requires gemini_api_key in takeline.yaml or TAKELINE_GEMINI_API_KEY.`,
		Example: `  takeline count page3.png
  takeline count page3.png --instructions "count only fire alarm devices"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()

			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image %s: %w", args[0], err)
			}

			eng, err := createEngine(cmd, cfg, false)
			if err != nil {
				return err
			}
			defer eng.Close()

			counts, err := eng.CountCheck(cmd.Context(), image, instructions)
			if err != nil {
				return fmt.Errorf("vision count failed: %w", err)
			}

			if jsonOutput(cfg) {
				return report.WriteJSON(cmd.OutOrStdout(), report.Result{
					Project: cfg.Project.Name,
					Counts:  counts,
				})
			}
			report.RenderCounts(cmd.OutOrStdout(), counts)
			return nil
		},
	}

	cmd.Flags().StringVar(&instructions, "instructions", "", "Extra counting instructions for the model")
	return cmd
}
