// Package takeoff defines the value types shared across the extraction
// and derivation pipeline: sheets, device count snapshots, conduit length
// snapshots, and derived material lists.
package takeoff

import "sort"

// SheetRole describes what a drawing sheet contributes to the takeoff.
type SheetRole string

const (
	RoleLegend     SheetRole = "legend"
	RoleDemolition SheetRole = "demolition"
	RoleNewWork    SheetRole = "new_work"
	RoleSchedule   SheetRole = "schedule"
	RoleReference  SheetRole = "reference"
)

// Sheet identifies one page of a drawing set.
type Sheet struct {
	PageIndex int
	Code      string
	Title     string
	Role      SheetRole
}

// Category groups counted items by the discipline they came from.
type Category string

const (
	CategoryFixtures   Category = "fixtures"
	CategoryControls   Category = "controls"
	CategoryPower      Category = "power"
	CategoryDemo       Category = "demo"
	CategoryTechnology Category = "technology"
	CategoryPanel      Category = "panel"
)

// Categories lists all count categories in display order.
func Categories() []Category {
	return []Category{
		CategoryFixtures,
		CategoryControls,
		CategoryPower,
		CategoryDemo,
		CategoryTechnology,
		CategoryPanel,
	}
}

// CountSnapshot holds per-category device counts. An absent key means a
// count of zero. Snapshots are not mutated after extraction; combining
// per-sheet results goes through Merge.
type CountSnapshot map[Category]map[string]int

// NewCountSnapshot returns an empty snapshot.
func NewCountSnapshot() CountSnapshot {
	return make(CountSnapshot)
}

// Add increments the count for item within category by n.
func (s CountSnapshot) Add(cat Category, item string, n int) {
	if n == 0 {
		return
	}
	if s[cat] == nil {
		s[cat] = make(map[string]int)
	}
	s[cat][item] += n
}

// Get returns the count for item within category, zero when absent.
func (s CountSnapshot) Get(cat Category, item string) int {
	return s[cat][item]
}

// Merge returns a new snapshot holding the per-key sum of s and other.
// Neither input is modified.
func (s CountSnapshot) Merge(other CountSnapshot) CountSnapshot {
	out := NewCountSnapshot()
	for _, src := range []CountSnapshot{s, other} {
		for cat, items := range src {
			for item, n := range items {
				out.Add(cat, item, n)
			}
		}
	}
	return out
}

// Flatten collapses the snapshot into a single item->count map.
// Counts for the same item name across categories are summed.
func (s CountSnapshot) Flatten() map[string]int {
	out := make(map[string]int)
	for _, items := range s {
		for item, n := range items {
			out[item] += n
		}
	}
	return out
}

// Total returns the sum of all counts in the snapshot.
func (s CountSnapshot) Total() int {
	total := 0
	for _, items := range s {
		for _, n := range items {
			total += n
		}
	}
	return total
}

// Items returns the sorted item names present in a category.
func (s CountSnapshot) Items(cat Category) []string {
	names := make([]string, 0, len(s[cat]))
	for item := range s[cat] {
		names = append(names, item)
	}
	sort.Strings(names)
	return names
}

// LengthSnapshot maps a conduit size class to a run length in feet.
// An empty snapshot means no geometry was available, which is distinct
// from measured lengths of zero.
type LengthSnapshot map[string]float64

// Empty reports whether no lengths were measured at all.
func (l LengthSnapshot) Empty() bool {
	return len(l) == 0
}

// TotalFeet returns the sum across all size classes.
func (l LengthSnapshot) TotalFeet() float64 {
	total := 0.0
	for _, ft := range l {
		total += ft
	}
	return total
}

// Sizes returns the sorted size classes present in the snapshot.
func (l LengthSnapshot) Sizes() []string {
	sizes := make([]string, 0, len(l))
	for size := range l {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	return sizes
}

// MaterialList maps a material name to a quantity. It holds the union of
// extracted counts and rule-derived quantities.
type MaterialList map[string]int

// Names returns the sorted material names.
func (m MaterialList) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
