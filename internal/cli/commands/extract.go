package commands

import (
	"github.com/spf13/cobra"

	"github.com/takeline-labs/takeline/internal/extract"
	"github.com/takeline-labs/takeline/internal/report"
	"github.com/takeline-labs/takeline/internal/sheet"
	"github.com/takeline-labs/takeline/internal/takeoff"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	var pageFlag int

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract device counts from a drawing set",
		Long: `Classify sheets and count devices per category without deriving
materials or touching the run history. Useful for inspecting what the
extractors see on a drawing revision.`,
		Example: `  # Count devices across the whole set
  takeline extract --drawing plans/set.pdf

  # Count devices on one page only (1-based)
  takeline extract --drawing plans/set.pdf --page 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()

			doc, closeDoc, err := openDocument(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeDoc() }()

			ex := extract.New(&cfg.Project)
			counts := takeoff.NewCountSnapshot()
			var sheets []takeoff.Sheet

			if pageFlag > 0 {
				s := sheet.ClassifyPage(doc, pageFlag-1, &cfg.Project)
				sheets = []takeoff.Sheet{s}
				counts = ex.ExtractSheet(doc, s)
			} else {
				sheets = sheet.ClassifyAll(doc, &cfg.Project)
				for _, s := range sheets {
					counts = counts.Merge(ex.ExtractSheet(doc, s))
				}
			}

			if jsonOutput(cfg) {
				return report.WriteJSON(cmd.OutOrStdout(), report.Result{
					Project: cfg.Project.Name,
					Sheets:  sheets,
					Counts:  counts,
				})
			}
			report.RenderCounts(cmd.OutOrStdout(), counts)
			return nil
		},
	}

	cmd.Flags().IntVarP(&pageFlag, "page", "p", 0, "Extract a single page (1-based)")
	return cmd
}
