// Package groundtruth loads reference material quantities used to score
// a run. The file is YAML, grouped by category:
//
//	technology:
//	  Cat 6 Cable (ft): 920
//	  J-Hook: 230
//	controls:
//	  Power Pack: 18
package groundtruth

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// UncategorizedName is the category reported for items the reference
// does not contain.
const UncategorizedName = "other"

// Reference holds expected quantities grouped by category. Item names
// are unique across categories; the last category read wins on
// collision.
type Reference struct {
	categories map[string]map[string]int
	itemToCat  map[string]string
}

// Load reads a reference file from disk.
func Load(path string) (*Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ground truth: %w", err)
	}
	ref, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing ground truth %s: %w", path, err)
	}
	return ref, nil
}

// Parse decodes reference YAML.
func Parse(data []byte) (*Reference, error) {
	var raw map[string]map[string]int
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return New(raw), nil
}

// New builds a reference from already-decoded categories.
func New(categories map[string]map[string]int) *Reference {
	ref := &Reference{
		categories: make(map[string]map[string]int, len(categories)),
		itemToCat:  make(map[string]string),
	}
	catNames := make([]string, 0, len(categories))
	for cat := range categories {
		catNames = append(catNames, cat)
	}
	sort.Strings(catNames)
	for _, cat := range catNames {
		items := categories[cat]
		if len(items) == 0 {
			continue
		}
		ref.categories[cat] = make(map[string]int, len(items))
		for item, n := range items {
			ref.categories[cat][item] = n
			ref.itemToCat[item] = cat
		}
	}
	return ref
}

// Items flattens all categories into one item-to-quantity map.
func (r *Reference) Items() map[string]int {
	out := make(map[string]int, len(r.itemToCat))
	for _, items := range r.categories {
		for item, n := range items {
			out[item] = n
		}
	}
	return out
}

// Category reports the category an item belongs to, or
// UncategorizedName when the reference does not list it.
func (r *Reference) Category(item string) string {
	if cat, ok := r.itemToCat[item]; ok {
		return cat
	}
	return UncategorizedName
}

// Categories lists category names in sorted order.
func (r *Reference) Categories() []string {
	out := make([]string, 0, len(r.categories))
	for cat := range r.categories {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of reference items across all categories.
func (r *Reference) Len() int {
	return len(r.itemToCat)
}
