package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/takeline-labs/takeline/internal/derive"
	"github.com/takeline-labs/takeline/internal/extract"
	"github.com/takeline-labs/takeline/internal/geometry"
	"github.com/takeline-labs/takeline/internal/groundtruth"
	"github.com/takeline-labs/takeline/internal/sheet"
	"github.com/takeline-labs/takeline/internal/source"
	"github.com/takeline-labs/takeline/internal/state"
	"github.com/takeline-labs/takeline/internal/takeoff"
	"github.com/takeline-labs/takeline/internal/validate"
)

// RunOptions controls what a run produces beyond the raw extraction.
type RunOptions struct {
	// GroundTruth enables validation when set.
	GroundTruth *groundtruth.Reference

	// Derive selects the optional derivation rule groups.
	Derive derive.Options
}

// RunResult is everything one run produced.
type RunResult struct {
	RunID     string
	Sheets    []takeoff.Sheet
	Counts    takeoff.CountSnapshot
	Lengths   takeoff.LengthSnapshot
	Materials takeoff.MaterialList
	Records   []validate.Record
	Summary   *validate.Summary
}

// Run executes the full takeoff pipeline against a document.
func (e *Engine) Run(ctx context.Context, doc source.Document, opts RunOptions) (*RunResult, error) {
	var runID string
	if e.store != nil {
		run, err := e.store.CreateRun(e.cfg.Project.Name)
		if err != nil {
			return nil, err
		}
		runID = run.ID
	}

	result, err := e.run(ctx, doc, opts)
	if e.store != nil && runID != "" {
		e.persist(runID, result, err)
	}
	if err != nil {
		return nil, err
	}
	result.RunID = runID
	return result, nil
}

func (e *Engine) run(ctx context.Context, doc source.Document, opts RunOptions) (*RunResult, error) {
	cfg := &e.cfg.Project

	sheets := sheet.ClassifyAll(doc, cfg)
	e.logger.Info("classified sheets", "pages", len(sheets))

	counts, err := e.extractAll(ctx, doc, sheets)
	if err != nil {
		return nil, err
	}
	e.logger.Info("extracted devices", "total", counts.Total())

	lengths := e.estimateLengths(doc, sheets, counts)

	materials := takeoff.MaterialList{}
	for item, n := range counts.Flatten() {
		materials[item] = n
	}
	for item, n := range derive.Materials(counts, lengths, cfg.Ratios, opts.Derive) {
		materials[item] += n
	}

	result := &RunResult{
		Sheets:    sheets,
		Counts:    counts,
		Lengths:   lengths,
		Materials: materials,
	}

	if opts.GroundTruth != nil {
		result.Records = validate.Compare(materials, opts.GroundTruth.Items())
		summary := validate.Summarize(result.Records, opts.GroundTruth.Category)
		result.Summary = &summary
		e.logger.Info("validated against ground truth",
			"items", summary.Total, "accuracy", summary.OverallPct)
	}
	return result, nil
}

// extractAll runs per-sheet extraction concurrently and merges the
// snapshots. Merge order does not matter; counts are commutative sums.
func (e *Engine) extractAll(ctx context.Context, doc source.Document, sheets []takeoff.Sheet) (takeoff.CountSnapshot, error) {
	ex := extract.New(&e.cfg.Project)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	perSheet := make([]takeoff.CountSnapshot, len(sheets))
	for i, s := range sheets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perSheet[i] = ex.ExtractSheet(doc, s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := takeoff.NewCountSnapshot()
	for _, snap := range perSheet {
		counts = counts.Merge(snap)
	}
	return counts, nil
}

// estimateLengths picks the best available conduit length source:
// configured reference lengths, then vector geometry from new-work
// sheets, then the device-count fallback.
func (e *Engine) estimateLengths(doc source.Document, sheets []takeoff.Sheet, counts takeoff.CountSnapshot) takeoff.LengthSnapshot {
	cfg := &e.cfg.Project

	if len(cfg.ReferenceConduit) > 0 {
		lengths := takeoff.LengthSnapshot{}
		for size, feet := range cfg.ReferenceConduit {
			lengths[size] = feet
		}
		e.logger.Debug("using reference conduit lengths", "sizes", len(lengths))
		return lengths
	}

	var paths []source.Path
	sawVectors := false
	for _, s := range sheets {
		if s.Role != takeoff.RoleNewWork {
			continue
		}
		p, err := doc.Paths(s.PageIndex)
		if errors.Is(err, source.ErrNoVectorData) {
			continue
		}
		if err != nil {
			e.logger.Warn("reading vector paths", "page", s.PageIndex, "error", err)
			continue
		}
		sawVectors = true
		paths = append(paths, p...)
	}
	if sawVectors && len(paths) > 0 {
		e.logger.Debug("estimating conduit from vector geometry", "paths", len(paths))
		return geometry.EstimateLengths(paths, cfg.Geometry)
	}

	e.logger.Debug("estimating conduit from device counts")
	return geometry.EstimateFromDevices(counts, cfg.BuildingSqft, cfg.FloorCount)
}

// persist records the run outcome, logging rather than failing when the
// store write goes wrong.
func (e *Engine) persist(runID string, result *RunResult, runErr error) {
	status := state.RunStatusCompleted
	errMsg := ""
	summary := validate.Summary{}

	if runErr != nil {
		status = state.RunStatusFailed
		errMsg = runErr.Error()
	} else if result.Summary != nil {
		summary = *result.Summary
	}

	if err := e.store.CompleteRun(runID, status, summary, errMsg); err != nil {
		e.logger.Warn("recording run", "run_id", runID, "error", err)
		return
	}
	if runErr == nil && len(result.Records) > 0 {
		if err := e.store.SaveRecords(runID, result.Records); err != nil {
			e.logger.Warn("recording run items", "run_id", runID, "error", err)
		}
	}
}

// CountCheck runs the vision counter over one rendered page image and
// returns its snapshot. It requires a configured counter.
func (e *Engine) CountCheck(ctx context.Context, image []byte, instructions string) (takeoff.CountSnapshot, error) {
	if e.counter == nil {
		return nil, fmt.Errorf("no vision counter configured")
	}
	return e.counter.Count(ctx, image, instructions)
}
