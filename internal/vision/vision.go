// Package vision counts devices on rendered drawing pages with a
// multimodal model. It is an optional cross-check for the text and
// vector extractors, never the primary source of quantities.
package vision

import (
	"context"

	"github.com/takeline-labs/takeline/internal/takeoff"
)

// Counter counts devices visible in a rendered page image.
type Counter interface {
	// Count returns device counts for one page image. instructions
	// narrows what to look for, e.g. "count only receptacles".
	// A page the model cannot read yields an empty snapshot, not an
	// error.
	Count(ctx context.Context, image []byte, instructions string) (takeoff.CountSnapshot, error)
}

// Static is a Counter that always returns the same snapshot. Test
// double and offline placeholder.
type Static struct {
	Snapshot takeoff.CountSnapshot
	Err      error
}

func (s *Static) Count(ctx context.Context, image []byte, instructions string) (takeoff.CountSnapshot, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Snapshot == nil {
		return takeoff.NewCountSnapshot(), nil
	}
	return s.Snapshot, nil
}
