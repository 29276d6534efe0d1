package takeoff

import (
	"reflect"
	"testing"
)

func TestCountSnapshot_AddAndGet(t *testing.T) {
	s := NewCountSnapshot()
	s.Add(CategoryFixtures, "F2", 3)
	s.Add(CategoryFixtures, "F2", 2)
	s.Add(CategoryControls, "OC", 1)

	if got := s.Get(CategoryFixtures, "F2"); got != 5 {
		t.Errorf("Get(fixtures, F2) = %d, want 5", got)
	}
	if got := s.Get(CategoryFixtures, "F9"); got != 0 {
		t.Errorf("Get(fixtures, F9) = %d, want 0 for absent item", got)
	}
	if got := s.Total(); got != 6 {
		t.Errorf("Total() = %d, want 6", got)
	}
}

func TestCountSnapshot_AddZeroIsNoop(t *testing.T) {
	s := NewCountSnapshot()
	s.Add(CategoryPower, "Duplex Receptacle", 0)
	if len(s) != 0 {
		t.Errorf("Add with n=0 created category entries: %v", s)
	}
}

func TestCountSnapshot_MergeSums(t *testing.T) {
	a := NewCountSnapshot()
	a.Add(CategoryFixtures, "F2", 4)
	a.Add(CategoryTechnology, "Cat 6 Jack", 40)

	b := NewCountSnapshot()
	b.Add(CategoryFixtures, "F2", 6)
	b.Add(CategoryFixtures, "F5", 1)

	m := a.Merge(b)
	if got := m.Get(CategoryFixtures, "F2"); got != 10 {
		t.Errorf("merged F2 = %d, want 10", got)
	}
	if got := m.Get(CategoryFixtures, "F5"); got != 1 {
		t.Errorf("merged F5 = %d, want 1", got)
	}
	if got := m.Get(CategoryTechnology, "Cat 6 Jack"); got != 40 {
		t.Errorf("merged Cat 6 Jack = %d, want 40", got)
	}

	// Inputs must not change.
	if got := a.Get(CategoryFixtures, "F2"); got != 4 {
		t.Errorf("Merge mutated receiver: F2 = %d, want 4", got)
	}
	if got := b.Get(CategoryFixtures, "F2"); got != 6 {
		t.Errorf("Merge mutated argument: F2 = %d, want 6", got)
	}
}

func TestCountSnapshot_MergeCommutative(t *testing.T) {
	a := NewCountSnapshot()
	a.Add(CategoryFixtures, "F2", 4)
	a.Add(CategoryDemo, "Demo Exit", 2)

	b := NewCountSnapshot()
	b.Add(CategoryFixtures, "F2", 1)
	b.Add(CategoryControls, "LS", 7)

	if ab, ba := a.Merge(b), b.Merge(a); !reflect.DeepEqual(ab, ba) {
		t.Errorf("a.Merge(b) != b.Merge(a): %v vs %v", ab, ba)
	}
}

func TestCountSnapshot_MergeAssociative(t *testing.T) {
	a := NewCountSnapshot()
	a.Add(CategoryFixtures, "F2", 1)
	b := NewCountSnapshot()
	b.Add(CategoryFixtures, "F2", 2)
	b.Add(CategoryPower, "SP Switch", 3)
	c := NewCountSnapshot()
	c.Add(CategoryPower, "SP Switch", 4)

	left := a.Merge(b).Merge(c)
	right := a.Merge(b.Merge(c))
	if !reflect.DeepEqual(left, right) {
		t.Errorf("(a+b)+c != a+(b+c): %v vs %v", left, right)
	}
}

func TestCountSnapshot_Flatten(t *testing.T) {
	s := NewCountSnapshot()
	s.Add(CategoryFixtures, "F2", 4)
	s.Add(CategoryControls, "OC", 19)

	flat := s.Flatten()
	want := map[string]int{"F2": 4, "OC": 19}
	if !reflect.DeepEqual(flat, want) {
		t.Errorf("Flatten() = %v, want %v", flat, want)
	}
}

func TestLengthSnapshot_EmptyVsZero(t *testing.T) {
	var empty LengthSnapshot
	if !empty.Empty() {
		t.Error("nil snapshot should report Empty")
	}

	zero := LengthSnapshot{`3/4"`: 0}
	if zero.Empty() {
		t.Error("snapshot with a measured zero length is not Empty")
	}
	if got := zero.TotalFeet(); got != 0 {
		t.Errorf("TotalFeet() = %v, want 0", got)
	}
}

func TestLengthSnapshot_TotalFeet(t *testing.T) {
	l := LengthSnapshot{`3/4"`: 3773, `1"`: 790}
	if got := l.TotalFeet(); got != 4563 {
		t.Errorf("TotalFeet() = %v, want 4563", got)
	}
}
