package derive

import (
	"testing"

	"github.com/takeline-labs/takeline/internal/config"
	"github.com/takeline-labs/takeline/internal/takeoff"
)

func defaultRatios() config.Ratios {
	return config.NewProject().Ratios
}

func TestPowerPacks(t *testing.T) {
	// 16 ceiling + 3 wall sensors at the 0.74 ratio truncate to 14.
	if got := PowerPacks(16, 3, defaultRatios()); got != 14 {
		t.Errorf("PowerPacks(16, 3) = %d, want 14", got)
	}
	if got := PowerPacks(0, 0, defaultRatios()); got != 0 {
		t.Errorf("PowerPacks(0, 0) = %d, want 0", got)
	}
}

func TestCableAndJHooks(t *testing.T) {
	cable, jhooks := CableAndJHooks(92, defaultRatios())
	if cable != 920 {
		t.Errorf("cable = %d ft, want 920", cable)
	}
	if jhooks != 230 {
		t.Errorf("jhooks = %d, want 230", jhooks)
	}
}

func TestRulesArePure(t *testing.T) {
	r := defaultRatios()
	for i := 0; i < 3; i++ {
		if got := PowerPacks(16, 3, r); got != 14 {
			t.Fatalf("PowerPacks changed across calls: %d", got)
		}
		if cable, _ := CableAndJHooks(92, r); cable != 920 {
			t.Fatalf("CableAndJHooks changed across calls: %d", cable)
		}
	}
}

func TestBoxes(t *testing.T) {
	boxes := Boxes(30, 5, 5, 2, 3, 16, 2, 92)

	// 45 wall devices, 10% deep.
	if got := boxes[`4" Square Box 2-1/8" deep`]; got != 4 {
		t.Errorf("deep boxes = %d, want 4", got)
	}
	if got := boxes[`4" Square Box w/bracket`]; got != 41 {
		t.Errorf("bracket boxes = %d, want 41", got)
	}
	if got := boxes[`4" Square Box`]; got != 18 {
		t.Errorf("ceiling boxes = %d, want 18", got)
	}
	// 15% of 92 jacks.
	if got := boxes[`4-11/16" Square Box w/bracket`]; got != 13 {
		t.Errorf("data boxes = %d, want 13", got)
	}
}

func TestPlates(t *testing.T) {
	plates := Plates(30, 5, 2, 3, 2)
	if got := plates["Duplex Plate"]; got != 30 {
		t.Errorf("duplex plates = %d, want 30", got)
	}
	if got := plates["Decora Plate"]; got != 7 {
		t.Errorf("decora plates = %d, want 7", got)
	}
	if got := plates["Switch Plate"]; got != 5 {
		t.Errorf("switch plates = %d, want 5", got)
	}
}

func TestFittings(t *testing.T) {
	lengths := takeoff.LengthSnapshot{`3/4"`: 3773, `1"`: 790}
	fittings := Fittings(lengths, defaultRatios())

	// 37.73 * 10.5 truncated.
	if got := fittings[`3/4" Connector`]; got != 396 {
		t.Errorf(`3/4" connectors = %d, want 396`, got)
	}
	// 7.9 * 8.1 truncated.
	if got := fittings[`1" Coupling`]; got != 63 {
		t.Errorf(`1" couplings = %d, want 63`, got)
	}
	// 1/2" has no unistrut straps configured; name must be absent.
	if _, ok := fittings[`1/2" Unistrut Strap`]; ok {
		t.Error(`unexpected 1/2" unistrut strap entry`)
	}
}

func TestFittings_UnknownSizeUsesDefaultRatios(t *testing.T) {
	lengths := takeoff.LengthSnapshot{`2"`: 100}
	fittings := Fittings(lengths, defaultRatios())
	if got := fittings[`2" Connector`]; got != 10 {
		t.Errorf(`2" connectors = %d, want 10 (default ratios)`, got)
	}
}

func TestWire(t *testing.T) {
	lengths := takeoff.LengthSnapshot{
		`1/2"`:   100,
		`3/4"`:   3773,
		`1"`:     790,
		`1-1/4"`: 600,
	}
	wire := Wire(lengths, defaultRatios())

	if got := wire["#14 THHN"]; got != 300 {
		t.Errorf("#14 = %d ft, want 300", got)
	}
	if got := wire["#12 THHN"]; got != 8677 {
		t.Errorf("#12 = %d ft, want 8677", got)
	}
	if got := wire["#10 THHN"]; got != 6636 {
		t.Errorf("#10 = %d ft, want 6636", got)
	}
	if got := wire["#8 THHN"]; got != 48 {
		t.Errorf("#8 = %d ft, want 48", got)
	}
}

func TestConsumables(t *testing.T) {
	c := Consumables(100, 60, 4000)
	if got := c["Red Wirenut"]; got != 400 {
		t.Errorf("red wirenuts = %d, want 400", got)
	}
	if got := c["Ground Screw"]; got != 60 {
		t.Errorf("ground screws = %d, want 60", got)
	}
	if got := c["Poly Pull Line (ft)"]; got != 2000 {
		t.Errorf("pull line = %d ft, want 2000", got)
	}
	if got := c["Black Tape"]; got != 2 {
		t.Errorf("black tape = %d, want 2", got)
	}
	// At least one roll even on tiny jobs.
	small := Consumables(3, 2, 0)
	if got := small["Black Tape"]; got != 1 {
		t.Errorf("black tape on small job = %d, want 1", got)
	}
}

func countSnapshot() takeoff.CountSnapshot {
	counts := takeoff.NewCountSnapshot()
	counts.Add(takeoff.CategoryControls, "Ceiling Occupancy Sensor", 16)
	counts.Add(takeoff.CategoryControls, "Wall Occupancy Sensor", 3)
	counts.Add(takeoff.CategoryTechnology, "Cat 6 Jack", 92)
	counts.Add(takeoff.CategoryPower, "Duplex Receptacle", 30)
	counts.Add(takeoff.CategoryFixtures, "F2", 12)
	return counts
}

func TestMaterials_ValidatedRules(t *testing.T) {
	out := Materials(countSnapshot(), nil, defaultRatios(), Options{})

	if got := out["Power Pack"]; got != 14 {
		t.Errorf("power packs = %d, want 14", got)
	}
	if got := out["Cat 6 Cable (ft)"]; got != 920 {
		t.Errorf("cable = %d, want 920", got)
	}
	if got := out["J-Hook"]; got != 230 {
		t.Errorf("jhooks = %d, want 230", got)
	}
	if got := out["Fixture Whip"]; got != 12 {
		t.Errorf("fixture whips = %d, want 12", got)
	}
}

func TestMaterials_SkipsLengthRulesWithoutGeometry(t *testing.T) {
	out := Materials(countSnapshot(), nil, defaultRatios(), Options{
		Fittings: true,
		Wire:     true,
	})

	// Fittings and wire were requested but no lengths exist: their
	// names must be absent, not zero.
	for name := range out {
		switch name {
		case `3/4" Connector`, "#12 THHN":
			t.Errorf("length-derived material %q present without geometry", name)
		}
	}
}

func TestMaterials_WithGeometry(t *testing.T) {
	lengths := takeoff.LengthSnapshot{`3/4"`: 1000}
	out := Materials(countSnapshot(), lengths, defaultRatios(), Options{
		Fittings: true,
		Wire:     true,
	})

	if got := out[`3/4" Connector`]; got != 105 {
		t.Errorf(`3/4" connectors = %d, want 105`, got)
	}
	if got := out["#12 THHN"]; got != 2300 {
		t.Errorf("#12 = %d ft, want 2300", got)
	}
}

func TestMaterials_ConsumablesToggle(t *testing.T) {
	withOut := Materials(countSnapshot(), nil, defaultRatios(), Options{Consumables: true})
	without := Materials(countSnapshot(), nil, defaultRatios(), Options{})

	if _, ok := withOut["Red Wirenut"]; !ok {
		t.Error("consumables enabled but Red Wirenut missing")
	}
	if _, ok := without["Red Wirenut"]; ok {
		t.Error("consumables disabled but Red Wirenut present")
	}
}
