// Package report renders takeoff results as terminal tables, JSON, and
// XLSX workbooks.
package report

import (
	"github.com/takeline-labs/takeline/internal/takeoff"
	"github.com/takeline-labs/takeline/internal/validate"
)

// Result bundles everything one run produced for rendering.
type Result struct {
	Project   string                 `json:"project"`
	RunID     string                 `json:"run_id,omitempty"`
	Sheets    []takeoff.Sheet        `json:"sheets"`
	Counts    takeoff.CountSnapshot  `json:"counts"`
	Lengths   takeoff.LengthSnapshot `json:"lengths,omitempty"`
	Materials takeoff.MaterialList   `json:"materials"`
	Records   []validate.Record      `json:"validation,omitempty"`
	Summary   *validate.Summary      `json:"summary,omitempty"`
}

// CategoryFn maps a material name to a display category.
type CategoryFn func(item string) string
