package model

import (
	"testing"

	"github.com/QCHackers/tqec-sub002/internal/pauli"
)

func TestMomentClasses(t *testing.T) {
	tests := []struct {
		name     string
		moment   Moment
		expected []InstructionKind
	}{
		{
			name:     "reset moment with annotation",
			moment:   NewMoment(NewReset(pauli.Z, 0, 1), NewQubitCoords(0, []float64{1, 2})),
			expected: []InstructionKind{KindReset},
		},
		{
			name:     "pure gate moment",
			moment:   NewMoment(NewGate("H", 0), NewGate("CX", 1, 2)),
			expected: []InstructionKind{KindGate},
		},
		{
			name:     "mixed moment",
			moment:   NewMoment(NewReset(pauli.Z, 0), NewMeasurement(pauli.Z, 1)),
			expected: []InstructionKind{KindReset, KindMeasurement},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classes := tt.moment.Classes()
			if len(classes) != len(tt.expected) {
				t.Fatalf("expected %d classes, got %d", len(tt.expected), len(classes))
			}
			for _, kind := range tt.expected {
				if !classes[kind] {
					t.Errorf("expected class %s", kind)
				}
			}
		})
	}
}

func TestCircuitNumMeasurements(t *testing.T) {
	c := &Circuit{}
	c.AppendMoment(NewMoment(NewReset(pauli.Z, 0, 1)))
	c.AppendMoment(NewMoment(NewMeasurement(pauli.Z, 0)))
	c.AppendLoop(Loop{
		Body:        []Moment{NewMoment(NewMeasurement(pauli.Z, 0, 1))},
		Repetitions: 3,
	})

	if got := c.NumMeasurements(); got != 7 {
		t.Errorf("expected 7 measurements, got %d", got)
	}
}

func TestCircuitCopyIsDeep(t *testing.T) {
	c := &Circuit{}
	c.AppendMoment(NewMoment(NewMeasurement(pauli.Z, 0)))

	clone := c.Copy()
	clone.Elements[0].Moment.Instructions[0].Targets[0] = 9

	if c.Elements[0].Moment.Instructions[0].Targets[0] != 0 {
		t.Error("copy shares target slice with original")
	}
}

func TestStripInferred(t *testing.T) {
	c := &Circuit{}
	c.AppendMoment(NewMoment(
		NewMeasurement(pauli.Z, 0),
		NewDetector([]float64{0, 0}, []int{-1}),
		NewShiftCoords([]float64{0, 1}),
		NewObservableInclude(0, []int{-1}),
	))

	stripped := c.StripInferred()

	if stripped.ContainsAnnotation(AnnotationDetector) {
		t.Error("detector should be stripped")
	}

	if stripped.ContainsAnnotation(AnnotationShiftCoords) {
		t.Error("shift_coords should be stripped")
	}

	if !stripped.ContainsAnnotation(AnnotationObservable) {
		t.Error("observable includes must survive stripping")
	}

	if c.ContainsAnnotation(AnnotationDetector) == false {
		t.Error("original circuit must not be mutated")
	}
}

func TestCoordsFromCircuit(t *testing.T) {
	c := &Circuit{}
	c.AppendMoment(NewMoment(
		NewQubitCoords(0, []float64{0, 0}),
		NewQubitCoords(3, []float64{1, 2.5}),
		NewReset(pauli.Z, 0, 3),
	))

	coords := CoordsFromCircuit(c)

	if len(coords) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(coords))
	}

	if !coords[3].Equal(Coords{1, 2.5}) {
		t.Errorf("expected (1, 2.5), got %s", coords[3])
	}
}

func TestCoordsString(t *testing.T) {
	if got := (Coords{1, 2.5}).String(); got != "(1, 2.5)" {
		t.Errorf("expected (1, 2.5), got %s", got)
	}
}

func TestResetAndMeasurementNames(t *testing.T) {
	tests := []struct {
		basis   pauli.Basis
		reset   string
		measure string
	}{
		{pauli.Z, "R", "M"},
		{pauli.X, "RX", "MX"},
		{pauli.Y, "RY", "MY"},
	}

	for _, tt := range tests {
		t.Run(tt.reset, func(t *testing.T) {
			if got := ResetName(tt.basis); got != tt.reset {
				t.Errorf("expected %s, got %s", tt.reset, got)
			}
			if got := MeasurementName(tt.basis); got != tt.measure {
				t.Errorf("expected %s, got %s", tt.measure, got)
			}
		})
	}
}
