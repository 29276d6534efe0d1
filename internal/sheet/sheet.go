// Package sheet classifies drawing pages into takeoff roles by reading
// sheet codes out of title blocks.
package sheet

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/takeline-labs/takeline/internal/config"
	"github.com/takeline-labs/takeline/internal/source"
	"github.com/takeline-labs/takeline/internal/takeoff"
)

// CodeUnknown is assigned to pages whose title block yields no sheet code.
const CodeUnknown = "unknown"

// Title block search regions as fractions of the page. The narrow region
// is scanned first; the wide one is a single retry before giving up.
const (
	narrowLeftFrac = 0.80
	narrowTopFrac  = 0.85
	wideLeftFrac   = 0.70
	wideTopFrac    = 0.80
)

// codePattern matches discipline sheet codes: one letter and a
// three-digit block, e.g. E100, E201, T200.
var codePattern = regexp.MustCompile(`^([A-Z])(\d{3})$`)

// ClassifyPage determines the sheet identity of one page. Configured
// overrides win over title-block detection. Detection failure is not an
// error; the page comes back with CodeUnknown and the reference role so
// it contributes nothing downstream.
func ClassifyPage(doc source.Document, page int, cfg *config.Project) takeoff.Sheet {
	if code, ok := overrideFor(page, cfg); ok {
		return takeoff.Sheet{
			PageIndex: page,
			Code:      code,
			Title:     detectTitle(doc, page),
			Role:      RoleForCode(code, demoBlock(cfg)),
		}
	}

	code := detectCode(doc, page)
	if code == "" {
		return takeoff.Sheet{PageIndex: page, Code: CodeUnknown, Role: takeoff.RoleReference}
	}
	return takeoff.Sheet{
		PageIndex: page,
		Code:      code,
		Title:     detectTitle(doc, page),
		Role:      RoleForCode(code, demoBlock(cfg)),
	}
}

// ClassifyAll classifies every page of a document in order.
func ClassifyAll(doc source.Document, cfg *config.Project) []takeoff.Sheet {
	sheets := make([]takeoff.Sheet, doc.PageCount())
	for i := range sheets {
		sheets[i] = ClassifyPage(doc, i, cfg)
	}
	return sheets
}

// RoleForCode maps a sheet code to its takeoff role from the numeric
// block of the code:
//
//	block == demoBlock  -> demolition
//	200..599            -> new work floor plans
//	below 100           -> legends and symbol keys
//	600..799            -> schedules
//	anything else       -> reference
func RoleForCode(code string, demoBlockNum int) takeoff.SheetRole {
	m := codePattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(code)))
	if m == nil {
		return takeoff.RoleReference
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return takeoff.RoleReference
	}
	block := (n / 100) * 100

	switch {
	case block == demoBlockNum:
		return takeoff.RoleDemolition
	case n >= 200 && n < 600:
		return takeoff.RoleNewWork
	case n < 100:
		return takeoff.RoleLegend
	case n >= 600 && n < 800:
		return takeoff.RoleSchedule
	default:
		return takeoff.RoleReference
	}
}

// detectCode scans the title block corner for a sheet code, widening the
// search region once before giving up.
func detectCode(doc source.Document, page int) string {
	size := doc.PageSize(page)
	if size.Width <= 0 || size.Height <= 0 {
		return ""
	}
	words := doc.Words(page)
	if len(words) == 0 {
		return ""
	}

	if code := scanRegion(words, size, narrowLeftFrac, narrowTopFrac); code != "" {
		return code
	}
	return scanRegion(words, size, wideLeftFrac, wideTopFrac)
}

// detectTitle joins the title-block text into a sheet title, reading
// order. Sheet-code tokens are left out; the remaining text is the
// drawn title, e.g. "FIRST FLOOR LIGHTING PLAN".
func detectTitle(doc source.Document, page int) string {
	size := doc.PageSize(page)
	if size.Width <= 0 || size.Height <= 0 {
		return ""
	}
	x0 := size.Width * narrowLeftFrac
	y0 := size.Height * narrowTopFrac

	var block []source.Word
	for _, w := range doc.Words(page) {
		if w.X0 < x0 || w.Y0 < y0 {
			continue
		}
		token := strings.TrimSpace(w.Text)
		if token == "" || codePattern.MatchString(strings.ToUpper(token)) {
			continue
		}
		block = append(block, w)
	}
	sort.Slice(block, func(i, j int) bool {
		if block[i].Y0 != block[j].Y0 {
			return block[i].Y0 < block[j].Y0
		}
		return block[i].X0 < block[j].X0
	})

	parts := make([]string, 0, len(block))
	for _, w := range block {
		parts = append(parts, strings.TrimSpace(w.Text))
	}
	return strings.Join(parts, " ")
}

// scanRegion returns the first sheet code found in the lower-right
// region bounded by the given fractions.
func scanRegion(words []source.Word, size source.Size, leftFrac, topFrac float64) string {
	x0 := size.Width * leftFrac
	y0 := size.Height * topFrac
	for _, w := range words {
		if w.X0 < x0 || w.Y0 < y0 {
			continue
		}
		token := strings.ToUpper(strings.TrimSpace(w.Text))
		if codePattern.MatchString(token) {
			return token
		}
	}
	return ""
}

func overrideFor(page int, cfg *config.Project) (string, bool) {
	if cfg == nil {
		return "", false
	}
	for code, idx := range cfg.SheetOverrides {
		if idx == page {
			return strings.ToUpper(code), true
		}
	}
	return "", false
}

func demoBlock(cfg *config.Project) int {
	if cfg == nil || cfg.DemoBlock == 0 {
		return config.DefaultDemoBlock
	}
	return cfg.DemoBlock
}
