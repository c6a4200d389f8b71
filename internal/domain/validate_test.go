package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/QCHackers/tqec-sub002/internal/model"
	"github.com/QCHackers/tqec-sub002/internal/pauli"
)

func circuitOf(moments ...m.Moment) *m.Circuit {
	c := &m.Circuit{}
	for _, moment := range moments {
		c.AppendMoment(moment)
	}

	return c
}

func TestCheckNoCombinedCollapse(t *testing.T) {
	ok := circuitOf(
		m.NewMoment(m.NewReset(pauli.Z, 0)),
		m.NewMoment(m.NewMeasurement(pauli.Z, 0)),
	)
	require.NoError(t, CheckNoCombinedCollapse(ok))

	bad := circuitOf(
		m.NewMoment(m.NewReset(pauli.Z, 0)),
		m.NewMoment(m.Instruction{Kind: m.KindCombined, Name: "MR", Targets: []int{0}, Basis: pauli.Z}),
	)

	err := CheckNoCombinedCollapse(bad)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, 1, verr.MomentIndex)
}

func TestCheckNoCombinedCollapseInLoopBody(t *testing.T) {
	c := circuitOf(m.NewMoment(m.NewReset(pauli.Z, 0)))
	c.AppendLoop(m.Loop{
		Body: []m.Moment{
			m.NewMoment(m.Instruction{Kind: m.KindCombined, Name: "MRX", Targets: []int{0}, Basis: pauli.X}),
		},
		Repetitions: 3,
	})

	require.Error(t, CheckNoCombinedCollapse(c))
}

func TestCheckWellFormedMoments(t *testing.T) {
	tests := []struct {
		name    string
		moment  m.Moment
		wantErr bool
	}{
		{
			name:   "single class",
			moment: m.NewMoment(m.NewGate("H", 0), m.NewGate("CX", 1, 2)),
		},
		{
			name:   "annotations are exempt",
			moment: m.NewMoment(m.NewMeasurement(pauli.Z, 0), m.NewQubitCoords(0, []float64{1, 2})),
		},
		{
			name:    "reset mixed with gate",
			moment:  m.NewMoment(m.NewReset(pauli.Z, 0), m.NewGate("H", 1)),
			wantErr: true,
		},
		{
			name:    "gate mixed with measurement",
			moment:  m.NewMoment(m.NewGate("H", 0), m.NewMeasurement(pauli.Z, 1)),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckWellFormedMoments(circuitOf(tt.moment))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
