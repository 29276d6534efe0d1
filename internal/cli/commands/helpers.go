// Package commands implements the takeline subcommands.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/takeline-labs/takeline/internal/cli/config"
	"github.com/takeline-labs/takeline/internal/derive"
	"github.com/takeline-labs/takeline/internal/engine"
	"github.com/takeline-labs/takeline/internal/groundtruth"
	"github.com/takeline-labs/takeline/internal/report"
	"github.com/takeline-labs/takeline/internal/source"
	"github.com/takeline-labs/takeline/internal/vision"
)

// getConfig returns the configuration loaded by the root command.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		StatePath:    config.DefaultStateFile,
		OutputFormat: config.DefaultOutput,
	}
}

// createEngine builds an engine from the configuration. persist
// controls whether the run lands in the history database.
func createEngine(cmd *cobra.Command, cfg *config.Config, persist bool) (*engine.Engine, error) {
	logger := config.GetLogger(cmd.Context())

	statePath := ""
	if persist {
		statePath = cfg.StatePath
		if statePath != "" && statePath != ":memory:" {
			if dir := filepath.Dir(statePath); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0750); err != nil {
					return nil, fmt.Errorf("failed to create state directory: %w", err)
				}
			}
		}
	}

	var counter vision.Counter
	if cfg.GeminiAPIKey != "" {
		counter = vision.NewGemini(cfg.GeminiAPIKey, cfg.VisionModel, logger)
	}

	return engine.New(engine.Config{
		Project:   cfg.Project,
		StatePath: statePath,
		Counter:   counter,
		Logger:    logger,
	})
}

// openDocument opens the configured drawing set. Snapshot files carry
// pre-extracted pages; everything else is treated as PDF.
func openDocument(cfg *config.Config) (source.Document, func() error, error) {
	if cfg.Drawing == "" {
		return nil, nil, fmt.Errorf("no drawing set configured (use --drawing or set drawing in takeline.yaml)")
	}

	switch strings.ToLower(filepath.Ext(cfg.Drawing)) {
	case ".yaml", ".yml", ".json":
		doc, err := source.OpenSnapshot(cfg.Drawing)
		if err != nil {
			return nil, nil, err
		}
		return doc, func() error { return nil }, nil
	default:
		doc, err := source.OpenPDF(cfg.Drawing)
		if err != nil {
			return nil, nil, err
		}
		return doc, doc.Close, nil
	}
}

// loadGroundTruth loads the reference quantities when configured.
// required distinguishes commands that validate from commands that only
// use the reference for display grouping.
func loadGroundTruth(cfg *config.Config, required bool) (*groundtruth.Reference, error) {
	if cfg.GroundTruth == "" {
		if required {
			return nil, fmt.Errorf("no ground truth configured (use --ground-truth or set ground_truth in takeline.yaml)")
		}
		return nil, nil
	}
	return groundtruth.Load(cfg.GroundTruth)
}

// categoryFn builds the material grouping function from a reference,
// nil when no reference is available.
func categoryFn(ref *groundtruth.Reference) report.CategoryFn {
	if ref == nil {
		return nil
	}
	return ref.Category
}

// jsonOutput reports whether the configured output format is JSON.
func jsonOutput(cfg *config.Config) bool {
	return strings.EqualFold(cfg.OutputFormat, "json")
}

// deriveOptions resolves the derivation rule-group toggles. Explicitly
// set flags win; otherwise the project configuration applies. Commands
// without the flags fall through to the configuration.
func deriveOptions(cmd *cobra.Command, cfg *config.Config) derive.Options {
	opts := derive.Options{
		Fittings:    cfg.Project.Derive.Fittings,
		Consumables: cfg.Project.Derive.Consumables,
		Wire:        cfg.Project.Derive.Wire,
	}

	flags := cmd.Flags()
	if flags.Changed("fittings") {
		opts.Fittings, _ = flags.GetBool("fittings")
	}
	if flags.Changed("consumables") {
		opts.Consumables, _ = flags.GetBool("consumables")
	}
	if flags.Changed("wire") {
		opts.Wire, _ = flags.GetBool("wire")
	}
	return opts
}
