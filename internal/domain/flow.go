package domain

import (
	"log/slog"

	"github.com/QCHackers/tqec-sub002/internal/model"
	"github.com/QCHackers/tqec-sub002/internal/pauli"
	"github.com/QCHackers/tqec-sub002/pkg"
)

// FragmentFlows is the outcome of pushing stabilizer flows through one
// fragment: the per-seed boundary stabilizers, the flows that completed into
// detector candidates, and the independent survivors to forward.
type FragmentFlows struct {
	// Seeds holds one boundary stabilizer per reset-born or carried-in seed,
	// in seeding order. Seeds stay listed even when later merged or
	// destroyed; their Commute/Anticommute sets record what happened.
	// Flows seeded by measurement outcomes join the working set only.
	Seeds []*BoundaryStabilizer
	// Completed holds flows that resolved to identity with every collapse
	// commuting. Each pins a deterministic measurement parity.
	Completed []*BoundaryStabilizer
	// Matched holds parities from pairs of live flows pinning the same
	// operator, the adjacent-round detector mechanism.
	Matched []detectorCandidate
	// Survivors holds the flows still live at the fragment's end boundary,
	// deduplicated by operator.
	Survivors []*BoundaryStabilizer
	// StartCount and EndCount bracket the global measurement indices the
	// fragment consumed.
	StartCount int
	EndCount   int
	// MomentMeasEnd maps each fragment moment to the global measurement
	// count at its end, for record-offset arithmetic.
	MomentMeasEnd []int
}

// propagateFragment walks one fragment moment by moment. Incoming flows and
// local resets seed the live set; gates conjugate every live flow; each
// measurement absorbs commuting flows into their parity sets and resolves
// anticommuting flows by pairwise products. Flows that reduce to identity
// complete; the rest survive to the end boundary.
func propagateFragment(frag *Fragment, incoming []*BoundaryStabilizer, startCount int, coords model.CoordsMap) (*FragmentFlows, error) {
	flows := &FragmentFlows{StartCount: startCount, EndCount: startCount}

	live := make([]*BoundaryStabilizer, 0, len(incoming))
	for _, in := range incoming {
		seed := in.asSeed()
		flows.Seeds = append(flows.Seeds, seed)
		live = append(live, seed)
	}

	for _, moment := range frag.Moments {
		for _, inst := range moment.Instructions {
			var err error

			switch inst.Kind {
			case model.KindReset:
				live = applyReset(flows, live, inst, coords)
			case model.KindGate:
				live, err = applyGate(live, inst)
			case model.KindMeasurement:
				live = applyMeasurement(flows, live, inst, coords)
			default:
				// Annotations do not touch flows.
			}

			if err != nil {
				return nil, err
			}
		}

		// Completed flows leave first so identity remainders never pair up.
		live = harvestCompleted(flows, live)
		live = dedupeFlows(flows, live)
		flows.MomentMeasEnd = append(flows.MomentMeasEnd, flows.EndCount)
	}

	flows.Survivors = live

	return flows, nil
}

// applyReset seeds a fresh flow per reset target. A live flow still holding
// any support on a reset qubit is destroyed: the reset discards the qubit's
// state, so the rest of the flow no longer pins a deterministic parity, and
// letting its measurement history survive would complete into a detector
// over a random outcome.
func applyReset(flows *FragmentFlows, live []*BoundaryStabilizer, inst model.Instruction, coords model.CoordsMap) []*BoundaryStabilizer {
	for _, qubit := range inst.Targets {
		kept := live[:0]

		for _, flow := range live {
			if flow.AfterCollapse.Get(qubit) == pauli.I {
				kept = append(kept, flow)
				continue
			}

			slog.Debug("Flow destroyed by reset", "qubit", qubit, "flow", flow.String())
		}

		live = kept
		seed := newResetStabilizer(qubit, inst.Basis, coords[qubit])
		flows.Seeds = append(flows.Seeds, seed)
		live = append(live, seed)
	}

	return live
}

// applyGate conjugates every overlapping live flow through the gate. Gates
// acting on more than their arity list consecutive target groups.
func applyGate(live []*BoundaryStabilizer, inst model.Instruction) ([]*BoundaryStabilizer, error) {
	gate := pauli.Gate(inst.Name)

	arity, err := pauli.Arity(gate)
	if err != nil {
		return nil, err
	}

	for offset := 0; offset+arity <= len(inst.Targets); offset += arity {
		targets := inst.Targets[offset : offset+arity]

		for _, flow := range live {
			next, err := flow.AfterCollapse.After(gate, targets)
			if err != nil {
				return nil, err
			}

			flow.AfterCollapse = next
		}
	}

	return live, nil
}

// applyMeasurement processes each measured target in order, assigning global
// record indices. Commuting flows absorb the index; anticommuting flows are
// merged pairwise, and an unpaired leftover is randomized and dropped. Each
// measurement also seeds a fresh flow pinned to its own outcome, since the
// post-measurement state is an eigenstate of the measured operator.
func applyMeasurement(flows *FragmentFlows, live []*BoundaryStabilizer, inst model.Instruction, coords model.CoordsMap) []*BoundaryStabilizer {
	for _, qubit := range inst.Targets {
		index := flows.EndCount
		flows.EndCount++

		collapse := pauli.Single(qubit, inst.Basis)

		var anti []*BoundaryStabilizer

		kept := live[:0]

		for _, flow := range live {
			component := flow.AfterCollapse.Get(qubit)

			switch component {
			case pauli.I:
				kept = append(kept, flow)
			case inst.Basis:
				flow.markCollapse()
				flow.Commute = flow.Commute.Add(index)
				flow.AfterCollapse = flow.AfterCollapse.Mul(collapse)
				kept = append(kept, flow)
			default:
				flow.markCollapse()
				flow.Anticommute = flow.Anticommute.Add(index)
				anti = append(anti, flow)
			}
		}

		live = kept

		for len(anti) >= 2 {
			merged := mergeFlows(anti[0], anti[1])
			anti = anti[2:]

			// The product either cleared the measured qubit or now commutes
			// with the collapse and absorbs the outcome.
			switch merged.AfterCollapse.Get(qubit) {
			case pauli.I:
				live = append(live, merged)
			case inst.Basis:
				merged.Commute = merged.Commute.Add(index)
				merged.AfterCollapse = merged.AfterCollapse.Mul(collapse)
				live = append(live, merged)
			default:
				anti = append([]*BoundaryStabilizer{merged}, anti...)
			}
		}

		if len(anti) == 1 {
			slog.Debug("Flow randomized by measurement", "index", index, "flow", anti[0].String())
		}

		sources := pkg.NewIntSet(index)
		live = append(live, &BoundaryStabilizer{
			BeforeCollapse: collapse,
			AfterCollapse:  collapse,
			Coords:         coords[qubit],
			Sources:        &sources,
			touched:        true,
		})
	}

	return live
}

// harvestCompleted moves fully resolved flows out of the live set.
func harvestCompleted(flows *FragmentFlows, live []*BoundaryStabilizer) []*BoundaryStabilizer {
	kept := live[:0]

	for _, flow := range live {
		switch {
		case !flow.IsComplete():
			kept = append(kept, flow)
		case flow.MeasurementSet().IsEmpty():
			// Identity flow pinning nothing, typically from degenerate
			// duplicate seeds.
		default:
			flows.Completed = append(flows.Completed, flow)
		}
	}

	return kept
}
