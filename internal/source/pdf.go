package source

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/ledongthuc/pdf"
)

// Default US letter size used when a page carries no usable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Gap between glyph runs, as a fraction of font size, below which runs
// are joined into one word.
const wordJoinGapFactor = 0.35

// PDFDocument reads text tokens straight from a PDF file. The underlying
// reader exposes positioned glyph runs but no stroke geometry and no table
// detection, so Paths reports ErrNoVectorData and Tables is always empty.
// Pipelines that need conduit geometry feed a snapshot instead.
type PDFDocument struct {
	file   *os.File
	reader *pdf.Reader
}

// OpenPDF opens a drawing set from a PDF file. The caller must Close it.
func OpenPDF(path string) (*PDFDocument, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	return &PDFDocument{file: f, reader: r}, nil
}

// Close releases the underlying file.
func (d *PDFDocument) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

// PageCount returns the number of pages in the PDF.
func (d *PDFDocument) PageCount() int {
	return d.reader.NumPage()
}

// PageSize returns the page MediaBox dimensions in points.
func (d *PDFDocument) PageSize(page int) Size {
	p := d.page(page)
	if p == nil {
		return Size{}
	}
	return mediaBoxSize(*p)
}

// Words extracts positioned text tokens from a page. Adjacent glyph runs
// on the same baseline are joined into words. Coordinates are converted
// to a top-left origin.
func (d *PDFDocument) Words(page int) []Word {
	p := d.page(page)
	if p == nil {
		return nil
	}

	content := p.Content()
	if len(content.Text) == 0 {
		return nil
	}

	size := mediaBoxSize(*p)
	texts := make([]pdf.Text, len(content.Text))
	copy(texts, content.Text)

	// Reading order: top of page first, then left to right.
	sort.Slice(texts, func(i, j int) bool {
		if texts[i].Y != texts[j].Y {
			return texts[i].Y > texts[j].Y
		}
		return texts[i].X < texts[j].X
	})

	var words []Word
	var cur *wordBuilder
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if cur != nil && cur.joins(t) {
			cur.append(t)
			continue
		}
		if cur != nil {
			words = append(words, cur.build(size.Height))
		}
		cur = newWordBuilder(t)
	}
	if cur != nil {
		words = append(words, cur.build(size.Height))
	}
	return words
}

// Paths reports that PDFs opened through this provider carry no usable
// vector data.
func (d *PDFDocument) Paths(int) ([]Path, error) {
	return nil, ErrNoVectorData
}

// Tables returns nil; this provider has no table detection.
func (d *PDFDocument) Tables(int) []Table { return nil }

// page returns the 1-based reader page for a 0-based index, nil when out
// of range or null.
func (d *PDFDocument) page(page int) *pdf.Page {
	if page < 0 || page >= d.reader.NumPage() {
		return nil
	}
	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return nil
	}
	return &p
}

func mediaBoxSize(p pdf.Page) Size {
	box := p.V.Key("MediaBox")
	if box.Kind() != pdf.Array || box.Len() < 4 {
		return Size{Width: defaultPageWidth, Height: defaultPageHeight}
	}
	w := box.Index(2).Float64() - box.Index(0).Float64()
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if w <= 0 || h <= 0 {
		return Size{Width: defaultPageWidth, Height: defaultPageHeight}
	}
	return Size{Width: w, Height: h}
}

// wordBuilder accumulates glyph runs that belong to one word.
type wordBuilder struct {
	text     string
	x0, x1   float64
	y        float64
	fontSize float64
}

func newWordBuilder(t pdf.Text) *wordBuilder {
	return &wordBuilder{
		text:     t.S,
		x0:       t.X,
		x1:       t.X + t.W,
		y:        t.Y,
		fontSize: t.FontSize,
	}
}

// joins reports whether run t continues the current word: same baseline
// and a horizontal gap small relative to the font size.
func (b *wordBuilder) joins(t pdf.Text) bool {
	if math.Abs(t.Y-b.y) > 2 {
		return false
	}
	gap := t.X - b.x1
	maxGap := b.fontSize * wordJoinGapFactor
	if maxGap <= 0 {
		maxGap = 2
	}
	return gap >= -1 && gap <= maxGap
}

func (b *wordBuilder) append(t pdf.Text) {
	b.text += t.S
	if end := t.X + t.W; end > b.x1 {
		b.x1 = end
	}
	if t.FontSize > b.fontSize {
		b.fontSize = t.FontSize
	}
}

// build converts the accumulated runs into a Word with a top-left origin.
func (b *wordBuilder) build(pageHeight float64) Word {
	if pageHeight <= 0 {
		pageHeight = defaultPageHeight
	}
	height := b.fontSize
	if height <= 0 {
		height = 10
	}
	return Word{
		Text: b.text,
		X0:   b.x0,
		Y0:   pageHeight - b.y - height,
		X1:   b.x1,
		Y1:   pageHeight - b.y,
	}
}
