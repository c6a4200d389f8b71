package pauli

import (
	"errors"
	"testing"
)

func TestNewDropsIdentityEntries(t *testing.T) {
	op := New(map[int]Basis{0: X, 1: I, 2: Z})

	if op.Weight() != 2 {
		t.Fatalf("expected weight 2, got %d", op.Weight())
	}

	if op.Get(1) != I {
		t.Errorf("qubit 1 should read as identity")
	}
}

func TestEqualityIgnoresInsertionOrder(t *testing.T) {
	a := New(map[int]Basis{0: X, 5: Z})
	b := New(map[int]Basis{5: Z, 0: X})

	if !a.Equal(b) {
		t.Errorf("expected %s == %s", a, b)
	}

	if a.Key() != b.Key() {
		t.Errorf("keys differ: %q vs %q", a.Key(), b.Key())
	}
}

func TestMul(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Operator
		expected Operator
		phase    uint8
	}{
		{
			name:     "disjoint support merges",
			a:        Single(0, X),
			b:        Single(1, Z),
			expected: New(map[int]Basis{0: X, 1: Z}),
			phase:    0,
		},
		{
			name:     "same basis cancels",
			a:        Single(3, Y),
			b:        Single(3, Y),
			expected: Identity(),
			phase:    0,
		},
		{
			name:     "X times Y is iZ",
			a:        Single(0, X),
			b:        Single(0, Y),
			expected: Single(0, Z),
			phase:    1,
		},
		{
			name:     "Y times X is minus iZ",
			a:        Single(0, Y),
			b:        Single(0, X),
			expected: Single(0, Z),
			phase:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Mul(tt.b)
			if !got.EqualIgnoringPhase(tt.expected) {
				t.Fatalf("expected %s, got %s", tt.expected, got)
			}
			if got.Phase() != tt.phase {
				t.Errorf("expected phase i^%d, got i^%d", tt.phase, got.Phase())
			}
		})
	}
}

func TestCommutationTotality(t *testing.T) {
	ops := []Operator{
		Identity(),
		Single(0, X),
		Single(0, Z),
		New(map[int]Basis{0: X, 1: X}),
		New(map[int]Basis{0: Z, 1: Z}),
		New(map[int]Basis{0: Y, 1: Z, 2: X}),
	}

	for _, a := range ops {
		for _, b := range ops {
			commutes := a.Commutes(b)
			anticommutes := a.Anticommutes(b)

			if commutes == anticommutes {
				t.Errorf("%s vs %s: exactly one of commutes/anticommutes must hold", a, b)
			}

			if commutes != b.Commutes(a) {
				t.Errorf("%s vs %s: commutation must be symmetric", a, b)
			}
		}
	}
}

func TestCommutes(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Operator
		commutes bool
	}{
		{"single anticommuting pair", Single(0, X), Single(0, Z), false},
		{"two anticommuting pairs cancel", New(map[int]Basis{0: X, 1: X}), New(map[int]Basis{0: Z, 1: Z}), true},
		{"disjoint support", Single(0, X), Single(1, Z), true},
		{"same operator", Single(2, Y), Single(2, Y), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Commutes(tt.b); got != tt.commutes {
				t.Errorf("Commutes(%s, %s) = %v, expected %v", tt.a, tt.b, got, tt.commutes)
			}
		})
	}
}

func TestCollapseBy(t *testing.T) {
	op := New(map[int]Basis{0: Z, 1: Z, 2: Z})

	rest, err := op.CollapseBy([]Operator{Single(1, Z)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rest.EqualIgnoringPhase(New(map[int]Basis{0: Z, 2: Z})) {
		t.Errorf("expected Z0*Z2 remainder, got %s", rest)
	}
}

func TestCollapseByDisjointSupportFails(t *testing.T) {
	op := Single(0, Z)

	_, err := op.CollapseBy([]Operator{Single(7, Z)})
	if err == nil {
		t.Fatal("expected an algebra error")
	}

	var algebraErr *AlgebraError
	if !errors.As(err, &algebraErr) {
		t.Fatalf("expected AlgebraError, got %T", err)
	}
}

func TestIntersects(t *testing.T) {
	a := New(map[int]Basis{0: X, 4: Z})

	if !a.Intersects(Single(4, X)) {
		t.Error("shared qubit 4 should intersect")
	}

	if a.Intersects(Single(2, X)) {
		t.Error("disjoint operators should not intersect")
	}
}

func TestRestrict(t *testing.T) {
	op := New(map[int]Basis{0: X, 1: Y, 2: Z})

	got := op.Restrict([]int{1, 2, 9})
	if !got.EqualIgnoringPhase(New(map[int]Basis{1: Y, 2: Z})) {
		t.Errorf("expected Y1*Z2, got %s", got)
	}
}

func TestString(t *testing.T) {
	op := New(map[int]Basis{3: Z, 0: X})

	if got := op.String(); got != "+X0*Z3" {
		t.Errorf("expected +X0*Z3, got %s", got)
	}

	if got := Identity().String(); got != "+I" {
		t.Errorf("expected +I, got %s", got)
	}
}
