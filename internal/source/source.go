// Package source defines the document boundary of the pipeline. A Document
// hands the extractor text tokens with bounding boxes, vector paths, and
// table grids, page by page. Coordinates use a top-left origin with y
// growing downward, matching the coordinate space of drawing extractors.
package source

import "errors"

// ErrNoVectorData is returned by providers that cannot expose vector
// paths. The geometry estimator treats it as "no geometry available" and
// produces an empty length snapshot.
var ErrNoVectorData = errors.New("source: provider has no vector data")

// Word is a text token with its bounding box in page points.
type Word struct {
	Text string  `yaml:"text" json:"text"`
	X0   float64 `yaml:"x0" json:"x0"`
	Y0   float64 `yaml:"y0" json:"y0"`
	X1   float64 `yaml:"x1" json:"x1"`
	Y1   float64 `yaml:"y1" json:"y1"`
}

// Width returns the horizontal extent of the token in points.
func (w Word) Width() float64 { return w.X1 - w.X0 }

// CenterX returns the horizontal midpoint of the token.
func (w Word) CenterX() float64 { return (w.X0 + w.X1) / 2 }

// CenterY returns the vertical midpoint of the token.
func (w Word) CenterY() float64 { return (w.Y0 + w.Y1) / 2 }

// Segment is one straight piece of a vector path.
type Segment struct {
	X0 float64 `yaml:"x0" json:"x0"`
	Y0 float64 `yaml:"y0" json:"y0"`
	X1 float64 `yaml:"x1" json:"x1"`
	Y1 float64 `yaml:"y1" json:"y1"`
}

// Path is a stroked vector path with a uniform stroke width in points.
type Path struct {
	Width    float64   `yaml:"width" json:"width"`
	Segments []Segment `yaml:"segments" json:"segments"`
}

// Size is a page size in points.
type Size struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Table is a grid of cell strings, rows outer, columns inner.
type Table [][]string

// Document is the read side of a drawing set. Implementations return
// empty slices for pages they do not have or features they cannot
// extract; only Paths may signal a hard capability gap via
// ErrNoVectorData.
type Document interface {
	// PageCount returns the number of pages in the set.
	PageCount() int

	// PageSize returns the dimensions of a page. Unknown pages report
	// a zero size.
	PageSize(page int) Size

	// Words returns the text tokens of a page.
	Words(page int) []Word

	// Paths returns the vector paths of a page, or ErrNoVectorData when
	// the provider cannot expose geometry at all.
	Paths(page int) ([]Path, error)

	// Tables returns the table grids of a page.
	Tables(page int) []Table
}
