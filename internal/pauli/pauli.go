// Package pauli implements sparse multi-qubit Pauli operators and their
// conjugation through Clifford gates. Operators are immutable: every method
// returns a new value, so stabilizers can be threaded through an analysis
// without defensive copies.
package pauli

import (
	"fmt"
	"sort"
	"strings"
)

// Basis is a single-qubit Pauli. Absent entries in an Operator mean I.
type Basis byte

// The four single-qubit Paulis.
const (
	I Basis = iota
	X
	Y
	Z
)

// String returns the one-letter name of the basis.
func (b Basis) String() string {
	switch b {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return "I"
	}
}

// mulTable[a][b] holds the product a*b as (basis, phase) where phase is the
// exponent of i. E.g. X*Y = iZ, Y*X = -iZ.
var mulTable = [4][4]struct {
	basis Basis
	phase uint8
}{
	I: {I: {I, 0}, X: {X, 0}, Y: {Y, 0}, Z: {Z, 0}},
	X: {I: {X, 0}, X: {I, 0}, Y: {Z, 1}, Z: {Y, 3}},
	Y: {I: {Y, 0}, X: {Z, 3}, Y: {I, 0}, Z: {X, 1}},
	Z: {I: {Z, 0}, X: {Y, 1}, Y: {X, 3}, Z: {I, 0}},
}

// Operator is a sparse Pauli operator: a mapping from qubit index to a
// non-identity basis, together with a global phase tracked as a power of i.
// The zero value is the identity with phase +1.
type Operator struct {
	paulis map[int]Basis
	phase  uint8 // exponent of i, modulo 4
}

// New builds an operator from a qubit-to-basis mapping. Identity entries are
// dropped. Negative qubit indices are a contract violation.
func New(paulis map[int]Basis) Operator {
	out := make(map[int]Basis, len(paulis))

	for q, b := range paulis {
		if q < 0 {
			panic(fmt.Sprintf("pauli: negative qubit index %d", q))
		}

		if b != I {
			out[q] = b
		}
	}

	return Operator{paulis: out}
}

// Single builds a weight-one operator.
func Single(qubit int, basis Basis) Operator {
	return New(map[int]Basis{qubit: basis})
}

// Identity returns the empty operator.
func Identity() Operator {
	return Operator{}
}

// Weight is the number of qubits with a non-identity entry.
func (o Operator) Weight() int {
	return len(o.paulis)
}

// IsIdentity reports whether the operator has empty support.
func (o Operator) IsIdentity() bool {
	return len(o.paulis) == 0
}

// Get returns the basis at the given qubit, I when absent.
func (o Operator) Get(qubit int) Basis {
	return o.paulis[qubit]
}

// Qubits returns the support in ascending order.
func (o Operator) Qubits() []int {
	qubits := make([]int, 0, len(o.paulis))
	for q := range o.paulis {
		qubits = append(qubits, q)
	}

	sort.Ints(qubits)

	return qubits
}

// Phase returns the exponent of i in the operator's global phase.
func (o Operator) Phase() uint8 {
	return o.phase % 4
}

// withPhase returns a copy of o with the given extra phase multiplied in.
func (o Operator) withPhase(extra uint8) Operator {
	o.phase = (o.phase + extra) % 4
	return o
}

// Mul returns the entrywise group product of the two operators. Disjoint
// support is fine; shared qubits multiply per the Pauli group with phase
// accumulation.
func (o Operator) Mul(other Operator) Operator {
	out := make(map[int]Basis, len(o.paulis)+len(other.paulis))
	phase := (o.phase + other.phase) % 4

	for q, b := range o.paulis {
		out[q] = b
	}

	for q, b := range other.paulis {
		entry := mulTable[out[q]][b]
		phase = (phase + entry.phase) % 4

		if entry.basis == I {
			delete(out, q)
		} else {
			out[q] = entry.basis
		}
	}

	return Operator{paulis: out, phase: phase}
}

// Intersects reports whether the two operators share a supported qubit.
func (o Operator) Intersects(other Operator) bool {
	small, large := o.paulis, other.paulis
	if len(large) < len(small) {
		small, large = large, small
	}

	for q := range small {
		if _, ok := large[q]; ok {
			return true
		}
	}

	return false
}

// Commutes reports whether the two operators commute: the number of qubits
// carrying anticommuting single-qubit pairs is even.
func (o Operator) Commutes(other Operator) bool {
	anticommuting := 0

	for q, b := range o.paulis {
		ob, ok := other.paulis[q]
		if ok && ob != b {
			anticommuting++
		}
	}

	return anticommuting%2 == 0
}

// Anticommutes is the complement of Commutes.
func (o Operator) Anticommutes(other Operator) bool {
	return !o.Commutes(other)
}

// CollapseBy removes from the operator every qubit supported by any of the
// given collapsing operators, returning the remainder. A collapsing operator
// sharing no qubit with the receiver is a contract violation: the caller
// asked to project along an axis the stabilizer does not touch.
func (o Operator) CollapseBy(collapses []Operator) (Operator, error) {
	out := make(map[int]Basis, len(o.paulis))
	for q, b := range o.paulis {
		out[q] = b
	}

	for _, c := range collapses {
		if !o.Intersects(c) {
			return Operator{}, &AlgebraError{
				Op:     "collapse_by",
				Qubits: c.Qubits(),
				Reason: "collapsing operator has no overlapping support",
			}
		}

		for q := range c.paulis {
			delete(out, q)
		}
	}

	return Operator{paulis: out, phase: o.phase}, nil
}

// Restrict returns the sub-operator supported on the given qubits, with the
// receiver's phase.
func (o Operator) Restrict(qubits []int) Operator {
	out := make(map[int]Basis, len(qubits))

	for _, q := range qubits {
		if b, ok := o.paulis[q]; ok {
			out[q] = b
		}
	}

	return Operator{paulis: out, phase: o.phase}
}

// drop returns the operator with the given qubits removed from its support.
func (o Operator) drop(qubits ...int) Operator {
	out := make(map[int]Basis, len(o.paulis))
	for q, b := range o.paulis {
		out[q] = b
	}

	for _, q := range qubits {
		delete(out, q)
	}

	return Operator{paulis: out, phase: o.phase}
}

// Equal reports whether the two operators have identical support, entries and
// phase.
func (o Operator) Equal(other Operator) bool {
	return o.Phase() == other.Phase() && o.EqualIgnoringPhase(other)
}

// EqualIgnoringPhase compares support and entries only. Two stabilizers that
// differ only in sign still pin the same measurement parity, so boundary
// matching uses this comparison.
func (o Operator) EqualIgnoringPhase(other Operator) bool {
	if len(o.paulis) != len(other.paulis) {
		return false
	}

	for q, b := range o.paulis {
		if other.paulis[q] != b {
			return false
		}
	}

	return true
}

// Key returns a canonical phase-insensitive representation, usable as a map
// key. Insertion order and identity entries do not affect it.
func (o Operator) Key() string {
	if len(o.paulis) == 0 {
		return ""
	}

	parts := make([]string, 0, len(o.paulis))
	for _, q := range o.Qubits() {
		parts = append(parts, fmt.Sprintf("%d:%s", q, o.paulis[q]))
	}

	return strings.Join(parts, ",")
}

// String renders the operator like "+X0*Z3".
func (o Operator) String() string {
	sign := [4]string{"+", "+i*", "-", "-i*"}[o.Phase()]

	if len(o.paulis) == 0 {
		return sign + "I"
	}

	parts := make([]string, 0, len(o.paulis))
	for _, q := range o.Qubits() {
		parts = append(parts, fmt.Sprintf("%s%d", o.paulis[q], q))
	}

	return sign + strings.Join(parts, "*")
}

// AlgebraError reports a violated algebra contract: a collapse with no
// overlapping support or a conjugation with inconsistent targets.
type AlgebraError struct {
	Op     string
	Qubits []int
	Reason string
}

func (e *AlgebraError) Error() string {
	return fmt.Sprintf("pauli %s on qubits %v: %s", e.Op, e.Qubits, e.Reason)
}
