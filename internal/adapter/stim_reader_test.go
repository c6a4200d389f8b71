package adapter

import (
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/QCHackers/tqec-sub002/internal/model"
	"github.com/QCHackers/tqec-sub002/internal/pauli"
)

const repetitionText = `QUBIT_COORDS(0, 0) 0
QUBIT_COORDS(1, 0) 1
R 0 1 2
TICK
CX 0 1
TICK
M 1  # syndrome readout
TICK
REPEAT 3 {
    R 1
    TICK
    CX 0 1
    TICK
    M 1
}
TICK
M 0 2
`

func TestParseCircuit(t *testing.T) {
	c, err := ParseCircuit(repetitionText)
	require.NoError(t, err)
	require.Len(t, c.Elements, 5)

	first := c.Elements[0].Moment
	require.NotNil(t, first)
	require.Len(t, first.Instructions, 3)
	require.Equal(t, m.AnnotationQubitCoords, first.Instructions[0].Name)
	require.Equal(t, []float64{0, 0}, first.Instructions[0].Args)
	require.Equal(t, m.KindReset, first.Instructions[2].Kind)
	require.Equal(t, []int{0, 1, 2}, first.Instructions[2].Targets)

	loop := c.Elements[3].Loop
	require.NotNil(t, loop)
	require.Equal(t, 3, loop.Repetitions)
	require.Len(t, loop.Body, 3)

	require.Equal(t, 1+3*1+2, c.NumMeasurements())
}

func TestParseCircuitCollapseBases(t *testing.T) {
	c, err := ParseCircuit("RX 0\nTICK\nMY 0")
	require.NoError(t, err)

	require.Equal(t, pauli.X, c.Elements[0].Moment.Instructions[0].Basis)
	require.Equal(t, pauli.Y, c.Elements[1].Moment.Instructions[0].Basis)
}

func TestParseCircuitCombinedCollapse(t *testing.T) {
	c, err := ParseCircuit("MR 0")
	require.NoError(t, err)
	require.Equal(t, m.KindCombined, c.Elements[0].Moment.Instructions[0].Kind)
}

func TestParseCircuitGateAliases(t *testing.T) {
	c, err := ParseCircuit("R 0 1\nTICK\nCNOT 0 1\nTICK\nM 1")
	require.NoError(t, err)
	require.Equal(t, "CX", c.Elements[1].Moment.Instructions[0].Name)
}

func TestParseCircuitDetectorRecords(t *testing.T) {
	c, err := ParseCircuit("M 0 1\nDETECTOR(0, 0) rec[-2] rec[-1]")
	require.NoError(t, err)

	inst := c.Elements[0].Moment.Instructions[1]
	require.Equal(t, m.AnnotationDetector, inst.Name)
	require.Equal(t, []int{-2, -1}, inst.Recs)
}

func TestParseCircuitErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "unknown instruction", text: "FROB 0 1"},
		{name: "nested repeat", text: "REPEAT 2 {\nREPEAT 2 {\nM 0\n}\n}"},
		{name: "unclosed repeat", text: "REPEAT 2 {\nM 0"},
		{name: "unmatched brace", text: "M 0\n}"},
		{name: "bad repetition count", text: "REPEAT 0 {\nM 0\n}"},
		{name: "arity mismatch", text: "CX 0 1 2"},
		{name: "positive record offset", text: "DETECTOR rec[1]"},
		{name: "gate with arguments", text: "H(0.5) 0"},
		{name: "no targets", text: "M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCircuit(tt.text)
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
		})
	}
}

func TestWriteCircuitRoundTrip(t *testing.T) {
	c, err := ParseCircuit(repetitionText)
	require.NoError(t, err)

	text := WriteCircuit(c)

	again, err := ParseCircuit(text)
	require.NoError(t, err)
	require.Equal(t, text, WriteCircuit(again))
	require.Equal(t, c.NumMeasurements(), again.NumMeasurements())
}

func TestFormatInstruction(t *testing.T) {
	require.Equal(t, "DETECTOR(1, 0.5) rec[-2] rec[-1]",
		formatInstruction(m.NewDetector([]float64{1, 0.5}, []int{-2, -1})))
	require.Equal(t, "OBSERVABLE_INCLUDE(2) rec[-1]",
		formatInstruction(m.NewObservableInclude(2, []int{-1})))
	require.Equal(t, "CX 0 1", formatInstruction(m.NewGate("CX", 0, 1)))
}
