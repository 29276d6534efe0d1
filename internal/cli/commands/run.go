package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/takeline-labs/takeline/internal/cli/config"
	"github.com/takeline-labs/takeline/internal/engine"
	"github.com/takeline-labs/takeline/internal/report"
)

// RunOptions holds options for the run command. The derivation toggles
// stay unbound flags so the configured project defaults show through
// when they are not set.
type RunOptions struct {
	Watch bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full takeoff pipeline",
		Long: `Classify sheets, extract device counts, estimate conduit runs, derive
material quantities, and validate against ground truth when configured.

Each run is recorded in the history database for later comparison.`,
		Example: `  # Run against the configured drawing set
  takeline run --drawing plans/set.pdf

  # Run and score against known-good quantities
  takeline run --drawing plans/set.pdf --ground-truth truth.yaml

  # Re-run whenever the drawing set changes
  takeline run --drawing plans/set.pdf --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().Bool("fittings", true, "Derive conduit fittings from run lengths")
	cmd.Flags().Bool("consumables", true, "Derive consumables from device totals")
	cmd.Flags().Bool("wire", true, "Derive conductor footage from run lengths")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when the drawing set changes")

	return cmd
}

func runRun(cmd *cobra.Command, opts *RunOptions) error {
	cfg := getConfig()

	if err := runOnce(cmd, cfg, opts); err != nil {
		if !opts.Watch {
			return err
		}
		// In watch mode a broken revision is reported, not fatal; the
		// next save gets another chance.
		fmt.Fprintf(cmd.ErrOrStderr(), "run failed: %v\n", err)
	}
	if !opts.Watch {
		return nil
	}
	return watchAndRun(cmd, cfg, opts)
}

func runOnce(cmd *cobra.Command, cfg *config.Config, opts *RunOptions) error {
	doc, closeDoc, err := openDocument(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeDoc() }()

	ref, err := loadGroundTruth(cfg, false)
	if err != nil {
		return err
	}

	eng, err := createEngine(cmd, cfg, true)
	if err != nil {
		return err
	}
	defer eng.Close()

	start := time.Now()
	result, err := eng.Run(cmd.Context(), doc, engine.RunOptions{
		GroundTruth: ref,
		Derive:      deriveOptions(cmd, cfg),
	})
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	out := cmd.OutOrStdout()
	res := report.Result{
		Project:   cfg.Project.Name,
		RunID:     result.RunID,
		Sheets:    result.Sheets,
		Counts:    result.Counts,
		Lengths:   result.Lengths,
		Materials: result.Materials,
		Records:   result.Records,
		Summary:   result.Summary,
	}
	if jsonOutput(cfg) {
		return report.WriteJSON(out, res)
	}

	report.RenderSheets(out, result.Sheets)
	report.RenderCounts(out, result.Counts)
	report.RenderLengths(out, result.Lengths)
	report.RenderMaterials(out, result.Materials, categoryFn(ref))
	if result.Summary != nil {
		report.RenderValidation(out, result.Records, *result.Summary)
	}
	fmt.Fprintf(out, "Completed in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// watchDebounce coalesces editor save bursts into one re-run.
const watchDebounce = 500 * time.Millisecond

func watchAndRun(cmd *cobra.Command, cfg *config.Config, opts *RunOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which drops
	// a watch placed on the file itself.
	dir := filepath.Dir(cfg.Drawing)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	target := filepath.Clean(cfg.Drawing)

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl-C to stop)\n", cfg.Drawing)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var timer *time.Timer
	rerun := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})
		case <-rerun:
			fmt.Fprintf(cmd.ErrOrStderr(), "Change detected, re-running\n")
			if err := runOnce(cmd, cfg, opts); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "run failed: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		}
	}
}
