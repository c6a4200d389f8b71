package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/QCHackers/tqec-sub002/internal/model"
	"github.com/QCHackers/tqec-sub002/internal/pauli"
)

// memoryExperiment builds a distance-scaled memory: d*d data qubits in a
// chain checked by d*d-1 ancillas, one noiseless syndrome round, d-1
// repeated rounds, and a transversal readout.
func memoryExperiment(d int) *m.Circuit {
	data := d * d
	ancillas := data - 1

	all := make([]int, 0, data+ancillas)
	for q := 0; q < data+ancillas; q++ {
		all = append(all, q)
	}

	ancillaTargets := make([]int, 0, ancillas)
	firstHalf := make([]int, 0, 2*ancillas)
	secondHalf := make([]int, 0, 2*ancillas)
	dataTargets := make([]int, 0, data)

	for i := 0; i < ancillas; i++ {
		anc := data + i
		ancillaTargets = append(ancillaTargets, anc)
		firstHalf = append(firstHalf, i, anc)
		secondHalf = append(secondHalf, i+1, anc)
	}

	for q := 0; q < data; q++ {
		dataTargets = append(dataTargets, q)
	}

	round := func(withDataReset bool) []m.Moment {
		resets := ancillaTargets
		if withDataReset {
			resets = all
		}

		return []m.Moment{
			m.NewMoment(m.NewReset(pauli.Z, resets...)),
			m.NewMoment(m.NewGate("CX", firstHalf...)),
			m.NewMoment(m.NewGate("CX", secondHalf...)),
			m.NewMoment(m.NewMeasurement(pauli.Z, ancillaTargets...)),
		}
	}

	c := &m.Circuit{}
	for _, moment := range round(true) {
		c.AppendMoment(moment)
	}

	c.AppendLoop(m.Loop{Body: round(false), Repetitions: d - 1})
	c.AppendMoment(m.NewMoment(m.NewMeasurement(pauli.Z, dataTargets...)))

	return c
}

func TestMemoryExperimentStructure(t *testing.T) {
	const d = 5

	c := memoryExperiment(d)

	segments, err := Fragmentize(c)
	require.NoError(t, err)
	require.Len(t, segments, 3)

	first := segments[0].Fragment
	require.NotNil(t, first)
	require.Equal(t, d*d-1, first.NumMeasurements())
	require.Equal(t, 2*d*d-1, first.NumResets())

	loop := segments[1].Loop
	require.NotNil(t, loop)
	require.Equal(t, d-1, loop.Repetitions)
	require.Len(t, loop.Fragments, 1)
	require.Equal(t, d*d-1, loop.MeasurementsPerIteration())

	final := segments[2].Fragment
	require.NotNil(t, final)
	require.Equal(t, d*d, final.NumMeasurements())

	flows, err := propagateFragment(first, nil, 0, nil)
	require.NoError(t, err)
	require.Len(t, flows.Seeds, 2*d*d-1)
	require.Equal(t, d*d-1, flows.EndCount)
}

func TestMemoryExperimentDetectors(t *testing.T) {
	const d = 5

	result, err := InferDetectors(memoryExperiment(d), Options{})
	require.NoError(t, err)

	// Each ancilla compares against its previous round inside the repeated
	// block; the readout closes every check against the data measurements.
	var inLoop, final int

	for _, det := range result.Detectors {
		if det.InLoop {
			inLoop++
			require.Len(t, det.Offsets, 2)
		} else {
			final++
			require.Len(t, det.Offsets, 3)
		}
	}

	require.Equal(t, d*d-1, inLoop)
	require.Equal(t, d*d-1, final)
}
