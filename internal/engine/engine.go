// Package engine orchestrates a takeoff run: sheet classification,
// per-sheet extraction, conduit estimation, material derivation, and
// validation against ground truth.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/takeline-labs/takeline/internal/config"
	"github.com/takeline-labs/takeline/internal/state"
	"github.com/takeline-labs/takeline/internal/vision"
)

// Config holds the engine configuration.
type Config struct {
	Project config.Project

	// StatePath is the run-history database. Empty disables
	// persistence.
	StatePath string

	// Counter is the optional model-assisted count check. Nil skips it.
	Counter vision.Counter

	Logger *slog.Logger
}

// Engine runs takeoffs against drawing documents.
type Engine struct {
	cfg     Config
	logger  *slog.Logger
	store   *state.SQLiteStore
	counter vision.Counter
}

// New creates an engine, opening the state store when configured.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := &Engine{
		cfg:     cfg,
		logger:  logger,
		counter: cfg.Counter,
	}

	if cfg.StatePath != "" {
		store := state.NewSQLiteStore()
		if err := store.Open(cfg.StatePath); err != nil {
			return nil, fmt.Errorf("opening state store: %w", err)
		}
		e.store = store
	}

	return e, nil
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// Store exposes the run-history store, nil when persistence is
// disabled.
func (e *Engine) Store() *state.SQLiteStore {
	return e.store
}
