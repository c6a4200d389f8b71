// Package model defines the structural circuit IR consumed by the detector
// inference pipeline: typed instructions grouped into moments, with a single
// level of repeated-block nesting.
package model

import (
	"fmt"

	"github.com/QCHackers/tqec-sub002/internal/pauli"
)

// InstructionKind is the class of a circuit instruction. Within one moment
// only a single collapse/gate class may appear; annotations are exempt.
type InstructionKind int

// Instruction classes.
const (
	KindReset InstructionKind = iota
	KindGate
	KindMeasurement
	KindAnnotation
	// KindCombined marks fused reset-measure primitives (stim MR*). They are
	// representable so the validator can reject them by name instead of the
	// parser silently repairing the circuit.
	KindCombined
)

// String returns a short class name.
func (k InstructionKind) String() string {
	switch k {
	case KindReset:
		return "reset"
	case KindGate:
		return "gate"
	case KindMeasurement:
		return "measurement"
	case KindAnnotation:
		return "annotation"
	case KindCombined:
		return "combined-collapse"
	default:
		return "unknown"
	}
}

// Annotation instruction names.
const (
	AnnotationDetector    = "DETECTOR"
	AnnotationObservable  = "OBSERVABLE_INCLUDE"
	AnnotationQubitCoords = "QUBIT_COORDS"
	AnnotationShiftCoords = "SHIFT_COORDS"
)

// Instruction is a tagged variant over reset, gate, measurement and
// annotation content. Consumers switch exhaustively on Kind.
type Instruction struct {
	Kind    InstructionKind
	Name    string
	Targets []int
	// Basis is the collapse axis for resets and measurements; I otherwise.
	Basis pauli.Basis
	// Args carries annotation arguments (detector coordinates, the
	// observable index, qubit coordinates).
	Args []float64
	// Recs holds negative measurement-record offsets for DETECTOR and
	// OBSERVABLE_INCLUDE annotations, most recent measurement being -1.
	Recs []int
}

// NewReset builds a reset instruction collapsing the targets along basis.
func NewReset(basis pauli.Basis, targets ...int) Instruction {
	return Instruction{Kind: KindReset, Name: ResetName(basis), Basis: basis, Targets: targets}
}

// NewMeasurement builds a measurement instruction along basis.
func NewMeasurement(basis pauli.Basis, targets ...int) Instruction {
	return Instruction{Kind: KindMeasurement, Name: MeasurementName(basis), Basis: basis, Targets: targets}
}

// NewGate builds a unitary gate instruction. For two-qubit gates the targets
// are consecutive (control, target) pairs.
func NewGate(name string, targets ...int) Instruction {
	return Instruction{Kind: KindGate, Name: name, Targets: targets}
}

// NewDetector builds a DETECTOR annotation from coordinates and negative
// record offsets.
func NewDetector(coords []float64, recs []int) Instruction {
	return Instruction{Kind: KindAnnotation, Name: AnnotationDetector, Args: coords, Recs: recs}
}

// NewObservableInclude builds an OBSERVABLE_INCLUDE annotation for the given
// logical observable index.
func NewObservableInclude(index int, recs []int) Instruction {
	return Instruction{Kind: KindAnnotation, Name: AnnotationObservable, Args: []float64{float64(index)}, Recs: recs}
}

// NewQubitCoords builds a QUBIT_COORDS annotation for one qubit.
func NewQubitCoords(qubit int, coords []float64) Instruction {
	return Instruction{Kind: KindAnnotation, Name: AnnotationQubitCoords, Args: coords, Targets: []int{qubit}}
}

// NewShiftCoords builds a SHIFT_COORDS annotation.
func NewShiftCoords(deltas []float64) Instruction {
	return Instruction{Kind: KindAnnotation, Name: AnnotationShiftCoords, Args: deltas}
}

// ResetName maps a collapse basis to the circuit-level reset name.
func ResetName(basis pauli.Basis) string {
	switch basis {
	case pauli.X:
		return "RX"
	case pauli.Y:
		return "RY"
	default:
		return "R"
	}
}

// MeasurementName maps a collapse basis to the circuit-level measurement name.
func MeasurementName(basis pauli.Basis) string {
	switch basis {
	case pauli.X:
		return "MX"
	case pauli.Y:
		return "MY"
	default:
		return "M"
	}
}

// IsCollapse reports whether the instruction resets or measures qubits.
func (i Instruction) IsCollapse() bool {
	return i.Kind == KindReset || i.Kind == KindMeasurement || i.Kind == KindCombined
}

// Copy returns a deep copy of the instruction.
func (i Instruction) Copy() Instruction {
	out := i
	out.Targets = append([]int(nil), i.Targets...)
	out.Args = append([]float64(nil), i.Args...)
	out.Recs = append([]int(nil), i.Recs...)

	return out
}

// String renders the instruction roughly in circuit-text form, for
// diagnostics.
func (i Instruction) String() string {
	switch i.Kind {
	case KindAnnotation:
		return fmt.Sprintf("%s%v %v", i.Name, i.Args, i.Recs)
	default:
		return fmt.Sprintf("%s %v", i.Name, i.Targets)
	}
}
