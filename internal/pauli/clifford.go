package pauli

import "fmt"

// Gate identifies a Clifford unitary by its circuit-level name.
type Gate string

// Supported Clifford gates. Two-qubit gates act on (first, second) target
// pairs; for CX/CY the first target is the control.
const (
	GateI        Gate = "I"
	GateX        Gate = "X"
	GateY        Gate = "Y"
	GateZ        Gate = "Z"
	GateH        Gate = "H"
	GateS        Gate = "S"
	GateSDag     Gate = "S_DAG"
	GateSqrtX    Gate = "SQRT_X"
	GateSqrtXDag Gate = "SQRT_X_DAG"
	GateCX       Gate = "CX"
	GateCY       Gate = "CY"
	GateCZ       Gate = "CZ"
	GateSwap     Gate = "SWAP"
)

// localOp is a Pauli over a gate's local qubit slots 0..arity-1.
type localOp struct {
	bases []Basis
	phase uint8
}

// tableau describes a gate by the conjugation images of its X and Z
// generators, one pair per local slot.
type tableau struct {
	arity  int
	xImage []localOp
	zImage []localOp
}

func lp(phase uint8, bases ...Basis) localOp {
	return localOp{bases: bases, phase: phase}
}

// tableaux holds the generator images of every supported gate. Images follow
// the stim gate conventions (e.g. SQRT_X maps Z to -Y).
var tableaux = map[Gate]tableau{
	GateI: {1, []localOp{lp(0, X)}, []localOp{lp(0, Z)}},
	GateX: {1, []localOp{lp(0, X)}, []localOp{lp(2, Z)}},
	GateY: {1, []localOp{lp(2, X)}, []localOp{lp(2, Z)}},
	GateZ: {1, []localOp{lp(2, X)}, []localOp{lp(0, Z)}},
	GateH: {1, []localOp{lp(0, Z)}, []localOp{lp(0, X)}},
	GateS: {1, []localOp{lp(0, Y)}, []localOp{lp(0, Z)}},
	GateSDag: {1,
		[]localOp{lp(2, Y)},
		[]localOp{lp(0, Z)},
	},
	GateSqrtX: {1,
		[]localOp{lp(0, X)},
		[]localOp{lp(2, Y)},
	},
	GateSqrtXDag: {1,
		[]localOp{lp(0, X)},
		[]localOp{lp(0, Y)},
	},
	GateCX: {2,
		[]localOp{lp(0, X, X), lp(0, I, X)},
		[]localOp{lp(0, Z, I), lp(0, Z, Z)},
	},
	GateCY: {2,
		[]localOp{lp(0, X, Y), lp(0, Z, X)},
		[]localOp{lp(0, Z, I), lp(0, Z, Z)},
	},
	GateCZ: {2,
		[]localOp{lp(0, X, Z), lp(0, Z, X)},
		[]localOp{lp(0, Z, I), lp(0, Z, Z)},
	},
	GateSwap: {2,
		[]localOp{lp(0, I, X), lp(0, X, I)},
		[]localOp{lp(0, I, Z), lp(0, Z, I)},
	},
}

// IsClifford reports whether the named gate has a registered tableau.
func IsClifford(g Gate) bool {
	_, ok := tableaux[g]
	return ok
}

// Arity returns the number of qubits the gate acts on, or an error for an
// unknown gate.
func Arity(g Gate) (int, error) {
	t, ok := tableaux[g]
	if !ok {
		return 0, &AlgebraError{Op: "arity", Reason: fmt.Sprintf("unknown gate %q", g)}
	}

	return t.arity, nil
}

// globalize maps a local image onto circuit qubit indices.
func (l localOp) globalize(targets []int) Operator {
	paulis := make(map[int]Basis, len(l.bases))

	for i, b := range l.bases {
		if b != I {
			paulis[targets[i]] = b
		}
	}

	return Operator{paulis: paulis, phase: l.phase % 4}
}

// After returns the operator after the given gate has acted on the given
// circuit qubits: the conjugation U P U^dagger restricted to the sparse
// representation. Support outside the targets passes through untouched.
func (o Operator) After(g Gate, targets []int) (Operator, error) {
	t, ok := tableaux[g]
	if !ok {
		return Operator{}, &AlgebraError{
			Op:     "after",
			Qubits: targets,
			Reason: fmt.Sprintf("unknown gate %q", g),
		}
	}

	if len(targets) != t.arity {
		return Operator{}, &AlgebraError{
			Op:     "after",
			Qubits: targets,
			Reason: fmt.Sprintf("gate %s expects %d targets, got %d", g, t.arity, len(targets)),
		}
	}

	seen := make(map[int]struct{}, len(targets))
	for _, q := range targets {
		if q < 0 {
			return Operator{}, &AlgebraError{Op: "after", Qubits: targets, Reason: "negative qubit target"}
		}

		if _, dup := seen[q]; dup {
			return Operator{}, &AlgebraError{Op: "after", Qubits: targets, Reason: "duplicate qubit target"}
		}

		seen[q] = struct{}{}
	}

	touched := false

	for _, q := range targets {
		if o.Get(q) != I {
			touched = true
			break
		}
	}

	if !touched {
		return o, nil
	}

	// Start from the untouched remainder, then multiply in the image of each
	// on-target component. Y decomposes as i*X*Z, so its image is
	// i*image(X)*image(Z).
	result := o.drop(targets...)

	for slot, q := range targets {
		switch o.Get(q) {
		case I:
		case X:
			result = result.Mul(t.xImage[slot].globalize(targets))
		case Z:
			result = result.Mul(t.zImage[slot].globalize(targets))
		case Y:
			img := t.xImage[slot].globalize(targets).Mul(t.zImage[slot].globalize(targets))
			result = result.Mul(img.withPhase(1))
		}
	}

	return result, nil
}
