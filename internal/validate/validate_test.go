package validate

import (
	"testing"

	"github.com/takeline-labs/takeline/internal/takeoff"
)

func findRecord(t *testing.T, records []Record, item string) Record {
	t.Helper()
	for _, r := range records {
		if r.Item == item {
			return r
		}
	}
	t.Fatalf("no record for %q", item)
	return Record{}
}

func TestCompare_Statuses(t *testing.T) {
	generated := takeoff.MaterialList{
		"Cat 6 Cable (ft)": 920,
		"J-Hook":           230,
		"Power Pack":       14,
		"Fixture Whip":     23,
		"Canopy Kit":       0,
	}
	reference := map[string]int{
		"Cat 6 Cable (ft)": 920,
		"J-Hook":           228,
		"Power Pack":       18,
		"Fixture Whip":     0,
		"Canopy Kit":       0,
	}

	records := Compare(generated, reference)

	tests := []struct {
		item         string
		wantDiff     int
		wantAccuracy float64
		wantStatus   Status
	}{
		{"Cat 6 Cable (ft)", 0, 100, StatusExact},
		{"J-Hook", 2, 99.1, StatusClose},
		{"Power Pack", -4, 77.8, StatusMiss},
		{"Fixture Whip", 23, 0, StatusMiss},
		{"Canopy Kit", 0, 100, StatusExact},
	}
	for _, tt := range tests {
		r := findRecord(t, records, tt.item)
		if r.Difference != tt.wantDiff {
			t.Errorf("%s: difference = %d, want %d", tt.item, r.Difference, tt.wantDiff)
		}
		if r.AccuracyPct != tt.wantAccuracy {
			t.Errorf("%s: accuracy = %.1f, want %.1f", tt.item, r.AccuracyPct, tt.wantAccuracy)
		}
		if r.Status != tt.wantStatus {
			t.Errorf("%s: status = %s, want %s", tt.item, r.Status, tt.wantStatus)
		}
	}
}

func TestCompare_AcceptableBand(t *testing.T) {
	// Off by 10 of 100 is 90 percent, past close but over the floor.
	records := Compare(takeoff.MaterialList{"Red Wirenut": 110}, map[string]int{"Red Wirenut": 100})
	r := findRecord(t, records, "Red Wirenut")
	if r.Status != StatusAcceptable {
		t.Errorf("status = %s, want %s", r.Status, StatusAcceptable)
	}
	if r.AccuracyPct != 90 {
		t.Errorf("accuracy = %.1f, want 90", r.AccuracyPct)
	}
}

func TestCompare_UnionOfKeys(t *testing.T) {
	generated := takeoff.MaterialList{"Only Generated": 5}
	reference := map[string]int{"Only Expected": 7}

	records := Compare(generated, reference)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	missing := findRecord(t, records, "Only Expected")
	if missing.Actual != 0 || missing.Status != StatusMiss {
		t.Errorf("missing item scored %+v, want actual 0 and miss", missing)
	}
	extra := findRecord(t, records, "Only Generated")
	if extra.Expected != 0 || extra.AccuracyPct != 0 {
		t.Errorf("extra item scored %+v, want expected 0 and accuracy 0", extra)
	}
}

func TestCompare_SortedByItem(t *testing.T) {
	records := Compare(takeoff.MaterialList{"b": 1, "a": 1, "c": 1}, nil)
	for i := 1; i < len(records); i++ {
		if records[i-1].Item > records[i].Item {
			t.Fatalf("records out of order: %s before %s", records[i-1].Item, records[i].Item)
		}
	}
}

func TestSummarize(t *testing.T) {
	records := []Record{
		{Item: "Power Pack", Status: StatusExact},
		{Item: "J-Hook", Status: StatusClose},
		{Item: "Red Wirenut", Status: StatusAcceptable},
		{Item: "Fixture Whip", Status: StatusMiss},
	}

	s := Summarize(records, func(item string) string {
		if item == "Red Wirenut" {
			return "consumables"
		}
		return "derived"
	})

	if s.Total != 4 || s.Exact != 1 || s.Close != 1 || s.Acceptable != 1 || s.Miss != 1 {
		t.Errorf("summary tallies = %+v", s)
	}
	// Overall counts only exact and close.
	if s.OverallPct != 50 {
		t.Errorf("overall = %.1f, want 50", s.OverallPct)
	}
	derived := s.ByCategory["derived"]
	if derived == nil || derived.Total != 3 || derived.Exact != 1 {
		t.Errorf("derived category = %+v", derived)
	}
	if got := derived.AccuratePct(); got < 66.6 || got > 66.7 {
		t.Errorf("derived accurate pct = %.2f", got)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil)
	if s.Total != 0 || s.OverallPct != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}
