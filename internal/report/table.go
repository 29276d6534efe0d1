package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"github.com/takeline-labs/takeline/internal/takeoff"
	"github.com/takeline-labs/takeline/internal/validate"
)

// useColor reports whether stdout is an interactive terminal.
func useColor() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// RenderSheets prints the sheet classification table.
func RenderSheets(w io.Writer, sheets []takeoff.Sheet) {
	if len(sheets) == 0 {
		fmt.Fprintln(w, "(no sheets)")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Page", "Code", "Title", "Role"})
	for _, s := range sheets {
		t.AppendRow(table.Row{s.PageIndex + 1, s.Code, s.Title, s.Role})
	}
	t.Render()
}

// RenderCounts prints device counts grouped by category.
func RenderCounts(w io.Writer, counts takeoff.CountSnapshot) {
	if counts.Total() == 0 {
		fmt.Fprintln(w, "(no devices counted)")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Item", "Count"})
	for _, cat := range takeoff.Categories() {
		for _, item := range counts.Items(cat) {
			t.AppendRow(table.Row{cat, item, counts.Get(cat, item)})
		}
	}
	t.Render()
	fmt.Fprintf(w, "(%d devices)\n", counts.Total())
}

// RenderLengths prints the conduit length estimate per size class.
func RenderLengths(w io.Writer, lengths takeoff.LengthSnapshot) {
	if lengths.Empty() {
		fmt.Fprintln(w, "(no conduit lengths)")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Size", "Feet"})
	for _, size := range lengths.Sizes() {
		t.AppendRow(table.Row{size, fmt.Sprintf("%.0f", lengths[size])})
	}
	t.AppendFooter(table.Row{"Total", fmt.Sprintf("%.0f", lengths.TotalFeet())})
	t.Render()
}

// RenderMaterials prints the material list, grouped when categoryFn is
// given.
func RenderMaterials(w io.Writer, materials takeoff.MaterialList, categoryFn CategoryFn) {
	if len(materials) == 0 {
		fmt.Fprintln(w, "(no materials)")
		return
	}

	t := newTable(w)
	if categoryFn == nil {
		t.AppendHeader(table.Row{"Material", "Qty"})
		for _, name := range materials.Names() {
			t.AppendRow(table.Row{name, materials[name]})
		}
	} else {
		t.AppendHeader(table.Row{"Category", "Material", "Qty"})
		byCat := make(map[string][]string)
		for _, name := range materials.Names() {
			cat := categoryFn(name)
			byCat[cat] = append(byCat[cat], name)
		}
		cats := make([]string, 0, len(byCat))
		for cat := range byCat {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		for _, cat := range cats {
			for _, name := range byCat[cat] {
				t.AppendRow(table.Row{cat, name, materials[name]})
			}
			t.AppendSeparator()
		}
	}
	t.Render()
	fmt.Fprintf(w, "(%d line items)\n", len(materials))
}

// RenderValidation prints the comparison table and summary line.
func RenderValidation(w io.Writer, records []validate.Record, summary validate.Summary) {
	if len(records) == 0 {
		fmt.Fprintln(w, "(nothing to validate)")
		return
	}

	colored := useColor()
	t := newTable(w)
	t.AppendHeader(table.Row{"Item", "Expected", "Actual", "Diff", "Accuracy", "Status"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.Item, r.Expected, r.Actual, fmt.Sprintf("%+d", r.Difference),
			fmt.Sprintf("%.1f%%", r.AccuracyPct), statusCell(r.Status, colored),
		})
	}
	t.Render()

	fmt.Fprintf(w, "%d items: %d exact, %d close, %d acceptable, %d miss (%.1f%% accurate)\n",
		summary.Total, summary.Exact, summary.Close, summary.Acceptable, summary.Miss, summary.OverallPct)
}

func statusCell(status validate.Status, colored bool) string {
	if !colored {
		return string(status)
	}
	switch status {
	case validate.StatusExact:
		return text.FgGreen.Sprint(status)
	case validate.StatusClose:
		return text.FgHiGreen.Sprint(status)
	case validate.StatusAcceptable:
		return text.FgYellow.Sprint(status)
	default:
		return text.FgRed.Sprint(status)
	}
}

// WriteJSON emits the result as indented JSON.
func WriteJSON(w io.Writer, result Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
