package extract

import (
	"testing"

	"github.com/takeline-labs/takeline/internal/config"
	"github.com/takeline-labs/takeline/internal/source"
	"github.com/takeline-labs/takeline/internal/takeoff"
)

func word(text string, x, y float64) source.Word {
	return source.Word{Text: text, X0: x, Y0: y, X1: x + 18, Y1: y + 10}
}

func wideWord(text string, x, y, width float64) source.Word {
	return source.Word{Text: text, X0: x, Y0: y, X1: x + width, Y1: y + 10}
}

func page(words ...source.Word) *source.SnapshotDocument {
	return source.NewSnapshotDocument(source.SnapshotPage{
		Width: 1000, Height: 800, Words: words,
	})
}

func twoFloorConfig() *config.Project {
	cfg := config.NewProject()
	cfg.FloorCount = 2
	return cfg
}

func TestExtractor_Fixtures(t *testing.T) {
	doc := page(
		word("FF22", 100, 100),
		word("FF22", 200, 150),
		word("FFFF5555", 300, 200),
		word("ROOM", 400, 200),
		// Inside the title block; must be ignored.
		word("FF22", 900, 100),
	)
	snap := New(twoFloorConfig()).Fixtures(doc, 0)

	if got := snap.Get(takeoff.CategoryFixtures, "F2"); got != 2 {
		t.Errorf("F2 = %d, want 2", got)
	}
	if got := snap.Get(takeoff.CategoryFixtures, "F5"); got != 1 {
		t.Errorf("F5 = %d, want 1", got)
	}
}

func TestExtractor_FixturesUnknownTagFiltered(t *testing.T) {
	doc := page(word("QQ99", 100, 100))
	snap := New(twoFloorConfig()).Fixtures(doc, 0)
	if got := snap.Total(); got != 0 {
		t.Errorf("unknown tag counted: total = %d, want 0", got)
	}
}

func TestExtractor_Controls(t *testing.T) {
	doc := page(
		word("OC", 100, 100), word("OC", 150, 100),
		word("OC", 100, 300), word("OC", 150, 300),
		word("LS", 200, 100), word("LS", 200, 300),
		word("D", 300, 100), word("D", 300, 300),
		// Too wide for a dimmer marker.
		wideWord("D", 400, 100, 40),
	)
	snap := New(twoFloorConfig()).Controls(doc, 0)

	// 4 OC over 2 floors -> 2; ceiling split int(2*0.84)=1.
	if got := snap.Get(takeoff.CategoryControls, "Ceiling Occupancy Sensor"); got != 1 {
		t.Errorf("ceiling sensors = %d, want 1", got)
	}
	if got := snap.Get(takeoff.CategoryControls, "Wall Occupancy Sensor"); got != 1 {
		t.Errorf("wall sensors = %d, want 1", got)
	}
	if got := snap.Get(takeoff.CategoryControls, "Daylight Sensor"); got != 1 {
		t.Errorf("daylight sensors = %d, want 1", got)
	}
	if got := snap.Get(takeoff.CategoryControls, "Wireless Dimmer"); got != 1 {
		t.Errorf("dimmers = %d, want 1", got)
	}
}

func TestExtractor_Power(t *testing.T) {
	words := []source.Word{
		{Text: "S", X0: 100, Y0: 100, X1: 110, Y1: 110},
		{Text: "S", X0: 100, Y0: 300, X1: 110, Y1: 310},
		{Text: "F", X0: 200, Y0: 100, X1: 210, Y1: 110},
		{Text: "F", X0: 200, Y0: 300, X1: 210, Y1: 310},
		word("015", 300, 100), word("015", 300, 300),
		word("36", 400, 100), word("40", 420, 100),
	}
	snap := New(twoFloorConfig()).Power(page(words...), 0)

	if got := snap.Get(takeoff.CategoryPower, "Smoke Detector"); got != 1 {
		t.Errorf("smoke detectors = %d, want 1", got)
	}
	if got := snap.Get(takeoff.CategoryPower, "Pull Station"); got != 1 {
		t.Errorf("pull stations = %d, want 1", got)
	}
	if got := snap.Get(takeoff.CategoryPower, "Horn/Strobe 015"); got != 1 {
		t.Errorf("horn/strobe 015 = %d, want 1", got)
	}
	// Two circuit refs found, floored to the minimum.
	if got := snap.Get(takeoff.CategoryPower, "Duplex Receptacle"); got != minDuplexReceptacles {
		t.Errorf("duplex receptacles = %d, want %d", got, minDuplexReceptacles)
	}
	if got := snap.Get(takeoff.CategoryPower, "GFI Receptacle"); got != minGFIReceptacles {
		t.Errorf("gfi receptacles = %d, want %d", got, minGFIReceptacles)
	}
}

func TestExtractor_Demolition_Keynotes(t *testing.T) {
	var words []source.Word
	// Twelve keynote 1 markers and ten keynote 2 markers over two
	// floors: enough signal to stay off the fallback path.
	for i := 0; i < 12; i++ {
		words = append(words, word("1", float64(50+i*20), 100))
	}
	for i := 0; i < 10; i++ {
		words = append(words, word("2", float64(50+i*20), 300))
	}
	for i := 0; i < 5; i++ {
		words = append(words, word("FB", float64(50+i*20), 500))
	}
	snap := New(twoFloorConfig()).Demolition(page(words...), 0)

	if got := snap.Get(takeoff.CategoryDemo, "Demo 2'x4' Recessed"); got != 6 {
		t.Errorf("keynote 1 items = %d, want 6", got)
	}
	if got := snap.Get(takeoff.CategoryDemo, "Demo 2'x2' Recessed"); got != 5 {
		t.Errorf("keynote 2 items = %d, want 5", got)
	}
	// Five FB symbols over two floors round up to three boxes.
	if got := snap.Get(takeoff.CategoryDemo, "Demo Floor Box"); got != 3 {
		t.Errorf("floor boxes = %d, want 3", got)
	}
}

func TestExtractor_Demolition_FallbackOnWeakSignal(t *testing.T) {
	// A single keynote marker: totals stay under the threshold and the
	// digit-frequency fallback takes over. 16 isolated "3" digits over
	// floors*2 = 4 gives 4 downlights.
	var words []source.Word
	for i := 0; i < 16; i++ {
		words = append(words, word("3", float64(50+i*20), 100))
	}
	snap := New(twoFloorConfig()).Demolition(page(words...), 0)

	if got := snap.Get(takeoff.CategoryDemo, "Demo Downlight"); got != 4 {
		t.Errorf("fallback downlights = %d, want 4", got)
	}
}

func TestExtractor_Technology(t *testing.T) {
	doc := page(
		word("WP2", 100, 100), word("WP2", 100, 300),
		word("WP2", 200, 100), word("WP2", 200, 300),
		word("D", 300, 100), word("D", 300, 300),
	)
	snap := New(twoFloorConfig()).Technology(doc, 0)

	// Pattern jacks 4*2=8 beat the 2 bare markers; over 2 floors -> 4.
	if got := snap.Get(takeoff.CategoryTechnology, "Cat 6 Jack"); got != 4 {
		t.Errorf("Cat 6 Jack = %d, want 4", got)
	}
}

func TestExtractor_Schedule(t *testing.T) {
	doc := source.NewSnapshotDocument(source.SnapshotPage{
		Width: 1000, Height: 800,
		Words: []source.Word{
			word("DISCONNECT", 100, 100),
			word("30A", 150, 100),
		},
		Tables: [][][]string{{
			{"CKT", "BREAKER", "LOAD"},
			{"1", "20", "LIGHTING"},
			{"3", "20", "RECEPTS"},
			{"5", "30/2", "RTU"},
		}},
	})
	snap := New(twoFloorConfig()).Schedule(doc, 0)

	if got := snap.Get(takeoff.CategoryPanel, "20A 1P Breaker"); got != 2 {
		t.Errorf("20A breakers = %d, want 2", got)
	}
	if got := snap.Get(takeoff.CategoryPanel, "30A 2P Breaker"); got != 1 {
		t.Errorf("30A breakers = %d, want 1", got)
	}
	if got := snap.Get(takeoff.CategoryPanel, "30A/2P Safety Switch 240V"); got != 1 {
		t.Errorf("safety switches = %d, want 1", got)
	}
}

func TestExtractor_ExtractSheetByRole(t *testing.T) {
	doc := page(word("FF22", 100, 100))

	legend := takeoff.Sheet{PageIndex: 0, Code: "E001", Role: takeoff.RoleLegend}
	if snap := New(twoFloorConfig()).ExtractSheet(doc, legend); snap.Total() != 0 {
		t.Errorf("legend sheet contributed counts: %v", snap)
	}

	newWork := takeoff.Sheet{PageIndex: 0, Code: "E200", Role: takeoff.RoleNewWork}
	if snap := New(twoFloorConfig()).ExtractSheet(doc, newWork); snap.Get(takeoff.CategoryFixtures, "F2") != 1 {
		t.Errorf("new work sheet missed fixture: %v", snap)
	}
}

func TestFixtureDefinitions(t *testing.T) {
	tables := []source.Table{{
		{"TAG", "DESCRIPTION", "QTY"},
		{"F2", "2x4 LED Troffer", "48"},
		{"F5", "Downlight", "12"},
		{"", "Notes row", ""},
	}}
	defs := FixtureDefinitions(tables)
	if defs["F2"] != "2x4 LED Troffer" {
		t.Errorf("F2 = %q", defs["F2"])
	}
	if len(defs) != 2 {
		t.Errorf("got %d definitions, want 2: %v", len(defs), defs)
	}
}
