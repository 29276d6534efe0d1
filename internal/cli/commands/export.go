package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/takeline-labs/takeline/internal/engine"
	"github.com/takeline-labs/takeline/internal/report"
)

// ExportOptions holds options for the export command.
type ExportOptions struct {
	Out    string
	Format string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a takeoff to a workbook or JSON file",
		Long: `Run the full pipeline and write the result to a file. The format is
inferred from the output extension unless --format is given.`,
		Example: `  takeline export --drawing plans/set.pdf --out takeoff.xlsx
  takeline export --drawing plans/set.pdf --out takeoff.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "O", "", "Output file path (required)")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Output format (xlsx|json), inferred from --out by default")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	cfg := getConfig()

	format := strings.ToLower(opts.Format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.Out)), ".")
	}
	if format != "xlsx" && format != "json" {
		return fmt.Errorf("unsupported export format %q (want xlsx or json)", format)
	}

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
		GroundTruth: ref,
		Derive:      deriveOptions(cmd, cfg),
	})
	if err != nil {
		return fmt.Errorf("export run failed: %w", err)
	}

	res := report.Result{
		Project:   cfg.Project.Name,
		Sheets:    result.Sheets,
		Counts:    result.Counts,
		Lengths:   result.Lengths,
		Materials: result.Materials,
		Records:   result.Records,
		Summary:   result.Summary,
	}

	switch format {
	case "xlsx":
		if err := report.WriteXLSX(opts.Out, res, categoryFn(ref)); err != nil {
			return err
		}
	case "json":
		f, err := os.Create(opts.Out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", opts.Out, err)
		}
		defer f.Close()
		if err := report.WriteJSON(f, res); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d materials to %s\n", len(result.Materials), opts.Out)
	return nil
}
