package commands

import (
	"github.com/spf13/cobra"

	"github.com/takeline-labs/takeline/internal/report"
	"github.com/takeline-labs/takeline/internal/sheet"
)

// NewSheetsCommand creates the sheets command.
func NewSheetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "Classify the sheets of a drawing set",
		Long: `Read sheet codes out of title blocks and report what role each page
plays in the takeoff: legend, demolition, new work, schedule, or
reference. Pages with no detectable code come back as unknown and are
skipped by extraction.`,
		Example: `  takeline sheets --drawing plans/set.pdf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()

			doc, closeDoc, err := openDocument(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeDoc() }()

			sheets := sheet.ClassifyAll(doc, &cfg.Project)
			if jsonOutput(cfg) {
				return report.WriteJSON(cmd.OutOrStdout(), report.Result{
					Project: cfg.Project.Name,
					Sheets:  sheets,
				})
			}
			report.RenderSheets(cmd.OutOrStdout(), sheets)
			return nil
		},
	}
}
