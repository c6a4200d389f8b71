// Package pkg provides small reusable utilities for the tqec toolkit.
package pkg

import (
	"fmt"
	"sort"
	"strings"
)

// IntSet is an immutable sorted set of integers. The zero value is the empty
// set. All operations return new sets and never mutate the receiver, so sets
// can be shared freely between boundary stabilizers.
type IntSet struct {
	values []int
}

// NewIntSet builds a set from the given values, deduplicating and sorting.
func NewIntSet(values ...int) IntSet {
	if len(values) == 0 {
		return IntSet{}
	}

	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}

	return IntSet{values: out}
}

// Len returns the number of elements.
func (s IntSet) Len() int {
	return len(s.values)
}

// IsEmpty reports whether the set has no elements.
func (s IntSet) IsEmpty() bool {
	return len(s.values) == 0
}

// Contains reports whether v is in the set.
func (s IntSet) Contains(v int) bool {
	i := sort.SearchInts(s.values, v)
	return i < len(s.values) && s.values[i] == v
}

// Add returns a new set with v included.
func (s IntSet) Add(v int) IntSet {
	if s.Contains(v) {
		return s
	}

	out := make([]int, 0, len(s.values)+1)
	i := sort.SearchInts(s.values, v)
	out = append(out, s.values[:i]...)
	out = append(out, v)
	out = append(out, s.values[i:]...)

	return IntSet{values: out}
}

// Union returns the set of elements present in either set.
func (s IntSet) Union(other IntSet) IntSet {
	merged := make([]int, 0, len(s.values)+len(other.values))
	i, j := 0, 0

	for i < len(s.values) && j < len(other.values) {
		switch {
		case s.values[i] < other.values[j]:
			merged = append(merged, s.values[i])
			i++
		case s.values[i] > other.values[j]:
			merged = append(merged, other.values[j])
			j++
		default:
			merged = append(merged, s.values[i])
			i++
			j++
		}
	}

	merged = append(merged, s.values[i:]...)
	merged = append(merged, other.values[j:]...)

	return IntSet{values: merged}
}

// SymmetricDifference returns the elements present in exactly one of the two
// sets. This is XOR on parity sets: an index appearing in both contributes an
// even number of times and cancels.
func (s IntSet) SymmetricDifference(other IntSet) IntSet {
	merged := make([]int, 0, len(s.values)+len(other.values))
	i, j := 0, 0

	for i < len(s.values) && j < len(other.values) {
		switch {
		case s.values[i] < other.values[j]:
			merged = append(merged, s.values[i])
			i++
		case s.values[i] > other.values[j]:
			merged = append(merged, other.values[j])
			j++
		default:
			i++
			j++
		}
	}

	merged = append(merged, s.values[i:]...)
	merged = append(merged, other.values[j:]...)

	return IntSet{values: merged}
}

// Shift returns a new set with delta added to every element.
func (s IntSet) Shift(delta int) IntSet {
	if delta == 0 || len(s.values) == 0 {
		return s
	}

	out := make([]int, len(s.values))
	for i, v := range s.values {
		out[i] = v + delta
	}

	return IntSet{values: out}
}

// Values returns the elements in ascending order. The returned slice must not
// be modified.
func (s IntSet) Values() []int {
	return s.values
}

// Max returns the largest element. The second result is false for the empty
// set.
func (s IntSet) Max() (int, bool) {
	if len(s.values) == 0 {
		return 0, false
	}

	return s.values[len(s.values)-1], true
}

// Equal reports whether both sets hold the same elements.
func (s IntSet) Equal(other IntSet) bool {
	if len(s.values) != len(other.values) {
		return false
	}

	for i, v := range s.values {
		if other.values[i] != v {
			return false
		}
	}

	return true
}

// String renders the set as "{a, b, c}".
func (s IntSet) String() string {
	parts := make([]string, len(s.values))
	for i, v := range s.values {
		parts[i] = fmt.Sprintf("%d", v)
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
