// Package validate scores a generated material list against reference
// quantities.
package validate

import (
	"math"
	"sort"

	"github.com/takeline-labs/takeline/internal/takeoff"
)

// Status classifies how close one generated quantity landed.
type Status string

const (
	// StatusExact means the quantities match.
	StatusExact Status = "exact"
	// StatusClose means the difference is within two units.
	StatusClose Status = "close"
	// StatusAcceptable means at least 80 percent accuracy.
	StatusAcceptable Status = "acceptable"
	// StatusMiss means everything worse.
	StatusMiss Status = "miss"
)

// closeTolerance is the absolute difference still counted as close.
const closeTolerance = 2

// acceptableAccuracy is the accuracy floor for the acceptable status.
const acceptableAccuracy = 80.0

// Record is the comparison result for one material.
type Record struct {
	Item        string
	Expected    int
	Actual      int
	Difference  int
	AccuracyPct float64
	Status      Status
}

// Summary aggregates records per category and overall.
type Summary struct {
	Total      int
	Exact      int
	Close      int
	Acceptable int
	Miss       int

	// OverallPct is the share of items scored exact or close.
	OverallPct float64

	// ByCategory holds per-category tallies keyed by category name.
	ByCategory map[string]*CategoryScore
}

// CategoryScore tallies one category of materials.
type CategoryScore struct {
	Total      int
	Exact      int
	Close      int
	Acceptable int
	Miss       int
}

// AccuratePct is the share of the category scored exact or close.
func (c *CategoryScore) AccuratePct() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Exact+c.Close) / float64(c.Total) * 100
}

// Compare scores generated quantities against the reference over the
// union of both key sets. Items absent from one side count as zero on
// that side.
func Compare(generated takeoff.MaterialList, reference map[string]int) []Record {
	items := make(map[string]struct{}, len(generated)+len(reference))
	for item := range generated {
		items[item] = struct{}{}
	}
	for item := range reference {
		items[item] = struct{}{}
	}

	names := make([]string, 0, len(items))
	for item := range items {
		names = append(names, item)
	}
	sort.Strings(names)

	records := make([]Record, 0, len(names))
	for _, item := range names {
		expected := reference[item]
		actual := generated[item]
		records = append(records, score(item, expected, actual))
	}
	return records
}

// score builds the record for one item.
//
// Accuracy is 100 when both sides are zero, 0 when only the generated
// side produced something, and otherwise scales down linearly with the
// relative difference, floored at zero.
func score(item string, expected, actual int) Record {
	diff := actual - expected

	var accuracy float64
	switch {
	case expected == 0 && actual == 0:
		accuracy = 100
	case expected == 0:
		accuracy = 0
	default:
		accuracy = math.Max(0, (1-math.Abs(float64(diff))/float64(expected))*100)
	}
	accuracy = math.Round(accuracy*10) / 10

	var status Status
	switch {
	case diff == 0:
		status = StatusExact
	case abs(diff) <= closeTolerance:
		status = StatusClose
	case accuracy >= acceptableAccuracy:
		status = StatusAcceptable
	default:
		status = StatusMiss
	}

	return Record{
		Item:        item,
		Expected:    expected,
		Actual:      actual,
		Difference:  diff,
		AccuracyPct: accuracy,
		Status:      status,
	}
}

// Summarize tallies records into a summary. categoryFn assigns each
// item to a category name; nil lumps everything under "all".
func Summarize(records []Record, categoryFn func(item string) string) Summary {
	if categoryFn == nil {
		categoryFn = func(string) string { return "all" }
	}

	s := Summary{ByCategory: make(map[string]*CategoryScore)}
	for _, r := range records {
		s.Total++
		cat := categoryFn(r.Item)
		cs := s.ByCategory[cat]
		if cs == nil {
			cs = &CategoryScore{}
			s.ByCategory[cat] = cs
		}
		cs.Total++

		switch r.Status {
		case StatusExact:
			s.Exact++
			cs.Exact++
		case StatusClose:
			s.Close++
			cs.Close++
		case StatusAcceptable:
			s.Acceptable++
			cs.Acceptable++
		default:
			s.Miss++
			cs.Miss++
		}
	}

	if s.Total > 0 {
		s.OverallPct = float64(s.Exact+s.Close) / float64(s.Total) * 100
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
