package domain

import (
	"fmt"

	"github.com/QCHackers/tqec-sub002/internal/model"
	"github.com/QCHackers/tqec-sub002/internal/pauli"
	"github.com/QCHackers/tqec-sub002/pkg"
)

// BoundaryStabilizer is one stabilizer flow tracked through a fragment. It
// records the operator as first touched by a collapse (BeforeCollapse), the
// remainder after commuting collapses are absorbed (AfterCollapse), and the
// global measurement indices it interacted with on the way.
type BoundaryStabilizer struct {
	BeforeCollapse pauli.Operator
	AfterCollapse  pauli.Operator
	Coords         model.Coords
	// Commute holds indices of measurements that commuted with the flow and
	// were absorbed into its known-outcome parity.
	Commute pkg.IntSet
	// Anticommute holds indices of measurements the flow anticommuted with;
	// a flow with a non-empty set was resolved by merging or destroyed.
	Anticommute pkg.IntSet
	// Sources is nil for flows seeded by a reset in this fragment. Flows
	// carried over a fragment boundary hold the measurement parity
	// accumulated so far.
	Sources *pkg.IntSet

	touched bool // BeforeCollapse snapshot taken
}

// newResetStabilizer seeds a flow from a single-qubit reset.
func newResetStabilizer(qubit int, basis pauli.Basis, coords model.Coords) *BoundaryStabilizer {
	op := pauli.Single(qubit, basis)

	return &BoundaryStabilizer{
		BeforeCollapse: op,
		AfterCollapse:  op,
		Coords:         coords,
	}
}

// IsBeginStabilizer reports whether the flow entered the fragment from a
// previous one rather than from a local reset.
func (b *BoundaryStabilizer) IsBeginStabilizer() bool {
	return b.Sources != nil
}

// AllCommute reports whether every measurement met so far commuted.
func (b *BoundaryStabilizer) AllCommute() bool {
	return b.Anticommute.IsEmpty()
}

// IsComplete reports a fully resolved flow: every collapse commuted and
// nothing of the operator survives. Complete flows are detector candidates.
func (b *BoundaryStabilizer) IsComplete() bool {
	return b.AllCommute() && b.AfterCollapse.IsIdentity()
}

// MeasurementSet is the parity of measurement outcomes the flow pins: its
// carried-in sources combined with the commuting measurements absorbed in
// this fragment. Indices appearing an even number of times cancel.
func (b *BoundaryStabilizer) MeasurementSet() pkg.IntSet {
	if b.Sources == nil {
		return b.Commute
	}

	return b.Sources.SymmetricDifference(b.Commute)
}

// markCollapse snapshots BeforeCollapse the first time a collapse touches
// the flow in this fragment.
func (b *BoundaryStabilizer) markCollapse() {
	if !b.touched {
		b.BeforeCollapse = b.AfterCollapse
		b.touched = true
	}
}

// asSeed converts a surviving flow into a begin stabilizer for the next
// fragment, folding its measurement history into Sources.
func (b *BoundaryStabilizer) asSeed() *BoundaryStabilizer {
	sources := b.MeasurementSet()

	return &BoundaryStabilizer{
		BeforeCollapse: b.AfterCollapse,
		AfterCollapse:  b.AfterCollapse,
		Coords:         b.Coords,
		Sources:        &sources,
	}
}

// shifted returns a copy with every recorded measurement index moved by
// delta, used to fast-forward flows over repeated-block iterations.
func (b *BoundaryStabilizer) shifted(delta int) *BoundaryStabilizer {
	out := &BoundaryStabilizer{
		BeforeCollapse: b.BeforeCollapse,
		AfterCollapse:  b.AfterCollapse,
		Coords:         b.Coords,
		Commute:        b.Commute.Shift(delta),
		Anticommute:    b.Anticommute.Shift(delta),
		touched:        b.touched,
	}
	if b.Sources != nil {
		sources := b.Sources.Shift(delta)
		out.Sources = &sources
	}

	return out
}

// mergeFlows resolves two flows that anticommute with the same collapse: the
// product commutes with it, and the pinned parities combine by symmetric
// difference.
func mergeFlows(a, b *BoundaryStabilizer) *BoundaryStabilizer {
	product := a.AfterCollapse.Mul(b.AfterCollapse)
	sources := a.MeasurementSet().SymmetricDifference(b.MeasurementSet())

	coords := a.Coords
	if coords == nil {
		coords = b.Coords
	}

	return &BoundaryStabilizer{
		BeforeCollapse: product,
		AfterCollapse:  product,
		Coords:         coords,
		Sources:        &sources,
		touched:        true,
	}
}

// String renders the flow for logs and test failures.
func (b *BoundaryStabilizer) String() string {
	origin := "reset"
	if b.IsBeginStabilizer() {
		origin = fmt.Sprintf("carried%s", b.Sources.String())
	}

	return fmt.Sprintf("{%s -> %s, %s, commute=%s, anticommute=%s}",
		b.BeforeCollapse, b.AfterCollapse, origin, b.Commute, b.Anticommute)
}
