package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/takeline-labs/takeline/internal/source"
	"github.com/takeline-labs/takeline/internal/takeoff"
)

// Breaker amp ratings recognized in panel schedule grids.
var breakerCellPattern = regexp.MustCompile(`^(15|20|30|40|50)(?:A)?(?:/([123])P?)?$`)

// Schedule reads panel and luminaire schedule sheets. Breakers come
// from table grids; safety switches from disconnect callouts in the
// sheet text.
func (e *Extractor) Schedule(doc source.Document, page int) takeoff.CountSnapshot {
	snap := takeoff.NewCountSnapshot()

	for _, table := range doc.Tables(page) {
		for item, n := range countBreakers(table) {
			snap.Add(takeoff.CategoryPanel, item, n)
		}
	}

	for item, n := range countSafetySwitches(doc.Words(page)) {
		snap.Add(takeoff.CategoryPanel, item, n)
	}
	return snap
}

// countBreakers scans a table grid for breaker rating cells. Each
// rating cell in a panel schedule is one breaker position.
func countBreakers(table source.Table) map[string]int {
	counts := make(map[string]int)
	for _, row := range table {
		for _, cell := range row {
			m := breakerCellPattern.FindStringSubmatch(strings.TrimSpace(cell))
			if m == nil {
				continue
			}
			amps := m[1]
			poles := m[2]
			if poles == "" {
				// Bare ratings follow the panel convention: 30A
				// and up are 2-pole, smaller are 1-pole.
				if n, _ := strconv.Atoi(amps); n >= 30 {
					poles = "2"
				} else {
					poles = "1"
				}
			}
			counts[amps+"A "+poles+"P Breaker"]++
		}
	}
	return counts
}

// countSafetySwitches finds disconnect callouts near the panel
// schedules. One switch per rating mentioned alongside a disconnect
// keyword.
func countSafetySwitches(words []source.Word) map[string]int {
	var hasDisconnect, has30A, has100A bool
	for _, w := range words {
		text := strings.ToUpper(w.Text)
		switch {
		case strings.Contains(text, "DISCONNECT") || strings.Contains(text, "SAFETY"):
			hasDisconnect = true
		case strings.HasPrefix(text, "30A"):
			has30A = true
		case strings.HasPrefix(text, "100A"):
			has100A = true
		}
	}

	counts := make(map[string]int)
	if hasDisconnect {
		if has30A {
			counts["30A/2P Safety Switch 240V"] = 1
		}
		if has100A {
			counts["100A/3P Safety Switch 600V"] = 1
		}
	}
	return counts
}

// FixtureDefinitions reads the luminaire schedule into a tag to
// description map. Rows are recognized by a tag-shaped first cell.
func FixtureDefinitions(tables []source.Table) map[string]string {
	defs := make(map[string]string)
	for _, table := range tables {
		for _, row := range table {
			if len(row) < 2 {
				continue
			}
			tag := strings.ToUpper(strings.TrimSpace(row[0]))
			if !tagShape.MatchString(tag) {
				continue
			}
			if desc := strings.TrimSpace(row[1]); desc != "" {
				defs[tag] = desc
			}
		}
	}
	return defs
}
