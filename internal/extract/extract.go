package extract

import (
	"regexp"
	"strings"

	"github.com/takeline-labs/takeline/internal/config"
	"github.com/takeline-labs/takeline/internal/source"
	"github.com/takeline-labs/takeline/internal/takeoff"
)

// Drawing area bounds as fractions of the page. Tokens beyond these
// fractions sit in the title block or general notes and are skipped.
const (
	drawingXMaxFrac = 0.85
	drawingYMaxFrac = 0.90
)

// Token width ceilings in points. Symbol annotations are small; wider
// matches are prose from legends or notes.
const (
	maxDimmerTokenWidth  = 20
	maxAlarmTokenWidth   = 15
	maxKeynoteTokenWidth = 30
	maxDataTokenWidth    = 25
)

// Receptacle circuit references fall in this range on power plans.
var circuitRefPattern = regexp.MustCompile(`^(3[5-9]|4[0-2])$`)

// Floor minimums observed on small commercial power plans. Circuit
// reference counting misses shared-circuit receptacles, so counts are
// floored rather than trusted outright.
const (
	minDuplexReceptacles = 30
	gfiPerDuplex         = 8
	minGFIReceptacles    = 5
	typicalSPSwitches    = 3
	typicalThreeWay      = 2
)

// Demo keynote detection below this total falls back to project-wide
// digit frequency estimation.
const demoFallbackThreshold = 10

// The digit-frequency fallback over-counts roughly 2x per floor view.
const demoOvercountFactor = 2

// Extractor runs the per-role extraction passes. It is a pure function
// of document content plus configuration.
type Extractor struct {
	cfg      *config.Project
	patterns PatternSet
}

// New returns an extractor for the given project configuration.
func New(cfg *config.Project) *Extractor {
	if cfg == nil {
		cfg = config.NewProject()
	}
	return &Extractor{cfg: cfg, patterns: DefaultPatternSet()}
}

// WithPatterns overrides the stock pattern tables.
func (e *Extractor) WithPatterns(p PatternSet) *Extractor {
	e.patterns = p
	return e
}

// ExtractSheet dispatches one classified sheet to the extraction pass
// for its role. Legend and reference sheets contribute nothing.
func (e *Extractor) ExtractSheet(doc source.Document, s takeoff.Sheet) takeoff.CountSnapshot {
	switch s.Role {
	case takeoff.RoleDemolition:
		return e.Demolition(doc, s.PageIndex)
	case takeoff.RoleNewWork:
		if strings.HasPrefix(strings.ToUpper(s.Code), "T") {
			return e.Technology(doc, s.PageIndex)
		}
		snap := e.Fixtures(doc, s.PageIndex)
		snap = snap.Merge(e.Controls(doc, s.PageIndex))
		return snap.Merge(e.Power(doc, s.PageIndex))
	case takeoff.RoleSchedule:
		return e.Schedule(doc, s.PageIndex)
	default:
		return takeoff.NewCountSnapshot()
	}
}

// Fixtures counts doubled-tag fixture symbols on a lighting plan.
// Fixture tags appear once per fixture, so no floor de-duplication
// applies.
func (e *Extractor) Fixtures(doc source.Document, page int) takeoff.CountSnapshot {
	snap := takeoff.NewCountSnapshot()
	for _, w := range e.drawingWords(doc, page, drawingYMaxFrac) {
		for _, tag := range FindDoubledTags(w.Text) {
			if len(e.patterns.FixtureTags) > 0 && !e.patterns.FixtureTags[tag] {
				continue
			}
			snap.Add(takeoff.CategoryFixtures, tag, 1)
		}
	}
	return snap
}

// Controls counts occupancy sensors, daylight sensors, and dimmers on a
// lighting plan. Multi-floor sheets draw each device once per floor
// view, so raw counts are floor-divided. Occupancy sensors split
// between ceiling and wall mounts by the configured ratio.
func (e *Extractor) Controls(doc source.Document, page int) takeoff.CountSnapshot {
	var oc, ls, d int
	for _, w := range e.drawingWords(doc, page, drawingXMaxFrac) {
		switch strings.ToUpper(w.Text) {
		case "OC":
			oc++
		case "LS":
			ls++
		case "D":
			if w.Width() < maxDimmerTokenWidth {
				d++
			}
		}
	}

	floors := e.cfg.FloorCount
	oc = FloorDiv(oc, floors)
	ls = FloorDiv(ls, floors)
	d = FloorDiv(d, floors)

	ceiling := int(float64(oc) * e.cfg.Ratios.OCCeilingRatio)
	snap := takeoff.NewCountSnapshot()
	snap.Add(takeoff.CategoryControls, "Ceiling Occupancy Sensor", ceiling)
	snap.Add(takeoff.CategoryControls, "Wall Occupancy Sensor", oc-ceiling)
	snap.Add(takeoff.CategoryControls, "Daylight Sensor", ls)
	snap.Add(takeoff.CategoryControls, "Wireless Dimmer", d)
	return snap
}

// Power counts receptacles, switches, and fire alarm devices on a power
// plan. Fire alarm symbols are counted directly; receptacles come from
// circuit reference density with a floor minimum.
func (e *Extractor) Power(doc source.Document, page int) takeoff.CountSnapshot {
	var smoke, pull, h015, h030, circuitRefs int
	for _, w := range e.drawingWords(doc, page, drawingXMaxFrac) {
		text := strings.ToUpper(w.Text)
		switch {
		case text == "015":
			h015++
		case text == "030":
			h030++
		case text == "S" && w.Width() < maxAlarmTokenWidth:
			smoke++
		case text == "F" && w.Width() < maxAlarmTokenWidth:
			pull++
		case circuitRefPattern.MatchString(text):
			circuitRefs++
		}
	}

	floors := e.cfg.FloorCount
	duplex := max(circuitRefs, minDuplexReceptacles)
	gfi := max(duplex/gfiPerDuplex, minGFIReceptacles)

	snap := takeoff.NewCountSnapshot()
	snap.Add(takeoff.CategoryPower, "Smoke Detector", FloorDiv(smoke, floors))
	snap.Add(takeoff.CategoryPower, "Pull Station", FloorDiv(pull, floors))
	snap.Add(takeoff.CategoryPower, "Horn/Strobe 015", FloorDiv(h015, floors))
	snap.Add(takeoff.CategoryPower, "Horn/Strobe 030", FloorDiv(h030, floors))
	snap.Add(takeoff.CategoryPower, "Duplex Receptacle", duplex)
	snap.Add(takeoff.CategoryPower, "GFI Receptacle", gfi)
	snap.Add(takeoff.CategoryPower, "SP Switch", typicalSPSwitches)
	snap.Add(takeoff.CategoryPower, "3-Way Switch", typicalThreeWay)
	return snap
}

// Demolition resolves keynote digits on a demo plan through the
// configured keynote legend. Floor boxes carry their own symbol and
// round up across floor views. When keynote detection finds too little
// it falls back to project-wide digit frequency.
func (e *Extractor) Demolition(doc source.Document, page int) takeoff.CountSnapshot {
	words := e.drawingWords(doc, page, drawingYMaxFrac)
	floors := e.cfg.FloorCount

	keynoteCounts := make(map[string]int)
	fb := 0
	for _, w := range words {
		text := strings.TrimSpace(w.Text)
		if strings.EqualFold(text, "FB") {
			fb++
			continue
		}
		if _, ok := e.cfg.DemoKeynotes[text]; ok && w.Width() < maxKeynoteTokenWidth {
			keynoteCounts[text]++
		}
	}

	snap := takeoff.NewCountSnapshot()
	for digit, material := range e.cfg.DemoKeynotes {
		snap.Add(takeoff.CategoryDemo, material, FloorDiv(keynoteCounts[digit], floors))
	}

	if snap.Total() < demoFallbackThreshold {
		snap = e.demoFromDigitFrequency(doc, page)
	}
	snap.Add(takeoff.CategoryDemo, "Demo Floor Box", CeilDiv(fb, floors))
	return snap
}

// demoFromDigitFrequency is the low-confidence fallback: count isolated
// single digits across the whole page and scale down by the overcount
// correction divisor.
func (e *Extractor) demoFromDigitFrequency(doc source.Document, page int) takeoff.CountSnapshot {
	digits := make(map[string]int)
	for _, w := range doc.Words(page) {
		text := strings.TrimSpace(w.Text)
		if len(text) == 1 && text >= "1" && text <= "9" {
			digits[text]++
		}
	}

	divisor := e.cfg.FloorCount * demoOvercountFactor
	snap := takeoff.NewCountSnapshot()
	for digit, material := range e.cfg.DemoKeynotes {
		snap.Add(takeoff.CategoryDemo, material, digits[digit]/divisor)
	}
	return snap
}

// Technology counts data jacks on a technology plan. Token patterns and
// bare data markers are counted independently; the larger estimate wins
// before floor de-duplication.
func (e *Extractor) Technology(doc source.Document, page int) takeoff.CountSnapshot {
	words := e.drawingWords(doc, page, drawingYMaxFrac)
	floors := e.cfg.FloorCount

	patternJacks := 0
	markerJacks := 0
	for _, w := range words {
		text := strings.ToUpper(strings.TrimSpace(w.Text))
		for _, jp := range e.patterns.JackPatterns {
			if jp.Pattern.MatchString(text) {
				patternJacks += jp.Jacks
				break
			}
		}
		if (text == "D" || text == "DATA") && w.Width() < maxDataTokenWidth {
			markerJacks++
		}
	}

	jacks := FloorDiv(max(patternJacks, markerJacks), floors)

	snap := takeoff.NewCountSnapshot()
	snap.Add(takeoff.CategoryTechnology, "Cat 6 Jack", jacks)
	return snap
}

// drawingWords returns the page tokens inside the drawing area.
func (e *Extractor) drawingWords(doc source.Document, page int, yMaxFrac float64) []source.Word {
	size := doc.PageSize(page)
	words := doc.Words(page)
	if size.Width <= 0 || size.Height <= 0 {
		return words
	}
	xMax := size.Width * drawingXMaxFrac
	yMax := size.Height * yMaxFrac

	out := words[:0:0]
	for _, w := range words {
		if w.X0 > xMax || w.Y0 > yMax {
			continue
		}
		out = append(out, w)
	}
	return out
}
