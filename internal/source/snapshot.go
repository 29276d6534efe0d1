package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// snapshotPage is the on-disk form of one extracted page.
type snapshotPage struct {
	Width  float64      `yaml:"width" json:"width"`
	Height float64      `yaml:"height" json:"height"`
	Words  []Word       `yaml:"words" json:"words"`
	Paths  []Path       `yaml:"paths" json:"paths"`
	Tables [][][]string `yaml:"tables" json:"tables"`
}

type snapshotFile struct {
	Pages []snapshotPage `yaml:"pages" json:"pages"`
}

// SnapshotDocument serves pages from a pre-extracted snapshot file. The
// snapshot format carries everything the pipeline consumes (words, vector
// paths, tables), so richer external extractors can feed the pipeline
// without a direct dependency.
type SnapshotDocument struct {
	pages []snapshotPage
}

// OpenSnapshot loads a YAML (or JSON) page snapshot from disk.
func OpenSnapshot(path string) (*SnapshotDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes snapshot bytes into a document.
func ParseSnapshot(data []byte) (*SnapshotDocument, error) {
	var f snapshotFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &SnapshotDocument{pages: f.Pages}, nil
}

// NewSnapshotDocument builds a document directly from page data. Used by
// tests and programmatic callers.
func NewSnapshotDocument(pages ...SnapshotPage) *SnapshotDocument {
	doc := &SnapshotDocument{}
	for _, p := range pages {
		doc.pages = append(doc.pages, snapshotPage(p))
	}
	return doc
}

// SnapshotPage is the programmatic form of one page for NewSnapshotDocument.
type SnapshotPage struct {
	Width  float64
	Height float64
	Words  []Word
	Paths  []Path
	Tables [][][]string
}

// PageCount returns the number of pages in the snapshot.
func (d *SnapshotDocument) PageCount() int { return len(d.pages) }

// PageSize returns the page dimensions, zero for out-of-range pages.
func (d *SnapshotDocument) PageSize(page int) Size {
	if page < 0 || page >= len(d.pages) {
		return Size{}
	}
	return Size{Width: d.pages[page].Width, Height: d.pages[page].Height}
}

// Words returns the text tokens of a page, nil for out-of-range pages.
func (d *SnapshotDocument) Words(page int) []Word {
	if page < 0 || page >= len(d.pages) {
		return nil
	}
	return d.pages[page].Words
}

// Paths returns the vector paths of a page.
func (d *SnapshotDocument) Paths(page int) ([]Path, error) {
	if page < 0 || page >= len(d.pages) {
		return nil, nil
	}
	return d.pages[page].Paths, nil
}

// Tables returns the table grids of a page.
func (d *SnapshotDocument) Tables(page int) []Table {
	if page < 0 || page >= len(d.pages) {
		return nil
	}
	tables := make([]Table, 0, len(d.pages[page].Tables))
	for _, t := range d.pages[page].Tables {
		rows := make(Table, len(t))
		for i, row := range t {
			rows[i] = row
		}
		tables = append(tables, rows)
	}
	return tables
}
