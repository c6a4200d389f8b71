package domain

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/QCHackers/tqec-sub002/internal/model"
	"github.com/QCHackers/tqec-sub002/pkg"
)

// Detector is one inferred detector, reported alongside the annotated
// circuit.
type Detector struct {
	// Measurements holds absolute measurement indices. For detectors inside
	// a repeated block these are the indices of the first emitted iteration.
	Measurements pkg.IntSet
	// Offsets holds the negative record offsets written into the annotation.
	Offsets []int
	Coords  model.Coords
	// InLoop marks detectors emitted inside a repeated block, firing once
	// per iteration.
	InLoop bool
}

// Options tune a detector-inference run.
type Options struct {
	// Coords overlays external qubit coordinates on top of any QUBIT_COORDS
	// annotations in the circuit.
	Coords model.CoordsMap
	// Force strips previously inferred DETECTOR and SHIFT_COORDS
	// annotations instead of failing on them.
	Force bool
}

// Result is the outcome of detector inference.
type Result struct {
	Circuit   *model.Circuit
	Detectors []Detector
	Segments  []Segment
}

// InferDetectors validates and segments the circuit, propagates stabilizer
// flows through every fragment, and returns a copy of the circuit annotated
// with each deterministic measurement parity it finds.
func InferDetectors(circuit *model.Circuit, opts Options) (*Result, error) {
	if circuit.ContainsAnnotation(model.AnnotationDetector) {
		if !opts.Force {
			return nil, ErrAlreadyAnnotated
		}

		circuit = circuit.StripInferred()
	}

	if err := CheckNoCombinedCollapse(circuit); err != nil {
		return nil, err
	}

	if err := CheckWellFormedMoments(circuit); err != nil {
		return nil, err
	}

	segments, err := Fragmentize(circuit)
	if err != nil {
		return nil, err
	}

	state := &emitState{
		coords: model.CoordsFromCircuit(circuit).Merge(opts.Coords),
		out:    &model.Circuit{},
		seen:   make(map[string]bool),
	}

	var live []*BoundaryStabilizer

	for _, seg := range segments {
		switch {
		case seg.Fragment != nil:
			live, err = state.emitFragment(seg.Fragment, live)
		case seg.Loop != nil:
			live, err = state.emitLoop(seg.Loop, live)
		}

		if err != nil {
			return nil, err
		}
	}

	slog.Debug("Detector inference finished",
		"segments", len(segments), "detectors", len(state.detectors), "measurements", state.counter)

	return &Result{Circuit: state.out, Detectors: state.detectors, Segments: segments}, nil
}

// emitState accumulates the annotated output circuit while flows advance.
type emitState struct {
	coords    model.CoordsMap
	out       *model.Circuit
	detectors []Detector
	seen      map[string]bool
	counter   int
}

// emittedBlock is a run of output moments with the measurement count at the
// end of each, the frame detector offsets are computed against.
type emittedBlock struct {
	moments   []model.Moment
	momentEnd []int
	start     int
}

// emitFragment propagates one plain fragment, reduces its end boundary, and
// appends its annotated moments to the output.
func (s *emitState) emitFragment(frag *Fragment, live []*BoundaryStabilizer) ([]*BoundaryStabilizer, error) {
	flows, err := propagateFragment(frag, live, s.counter, s.coords)
	if err != nil {
		return nil, err
	}

	block := buildBlock([]*Fragment{frag}, []*FragmentFlows{flows})
	s.insertDetectors(block, fragmentCandidates(flows), false)

	for _, moment := range block.moments {
		s.out.AppendMoment(moment)
	}

	s.counter = flows.EndCount

	return flows.Survivors, nil
}

// bodyRun is one trial pass over a repeated block's fragments.
type bodyRun struct {
	flows      []*FragmentFlows
	candidates []detectorCandidate
	live       []*BoundaryStabilizer
	end        int
}

// emitLoop handles a repeated block by trial propagation: if the boundary
// pattern is already periodic at entry, one pass yields a detector template
// valid for every iteration. Otherwise the first iteration is peeled off and
// the second pass must reach the fixed point, or the block is rejected.
func (s *emitState) emitLoop(loop *FragmentLoop, live []*BoundaryStabilizer) ([]*BoundaryStabilizer, error) {
	stride := loop.MeasurementsPerIteration()
	reps := loop.Repetitions

	runA, err := s.runBody(loop, live, s.counter)
	if err != nil {
		return nil, err
	}

	if reps == 1 {
		return s.inlineBody(loop, runA)
	}

	entryKey := boundaryKey(live, s.counter)
	exitAKey := boundaryKey(runA.live, runA.end)

	if entryKey == exitAKey {
		s.emitLoopBlock(loop, runA, reps)

		return shiftFlows(runA.live, (reps-1)*stride), nil
	}

	runB, err := s.runBody(loop, runA.live, runA.end)
	if err != nil {
		return nil, err
	}

	if exitAKey != boundaryKey(runB.live, runB.end) {
		return nil, fmt.Errorf("%w after 2 iterations", ErrLoopNotPeriodic)
	}

	// Peel the settling first iteration into plain moments, then repeat the
	// periodic remainder.
	if _, err := s.inlineBody(loop, runA); err != nil {
		return nil, err
	}

	s.emitLoopBlock(loop, runB, reps-1)

	return shiftFlows(runB.live, (reps-2)*stride), nil
}

// runBody propagates once through the block's fragments without emitting.
func (s *emitState) runBody(loop *FragmentLoop, live []*BoundaryStabilizer, start int) (*bodyRun, error) {
	run := &bodyRun{live: live, end: start}

	for _, frag := range loop.Fragments {
		flows, err := propagateFragment(frag, run.live, run.end, s.coords)
		if err != nil {
			return nil, err
		}

		run.flows = append(run.flows, flows)
		run.candidates = append(run.candidates, fragmentCandidates(flows)...)
		run.live = flows.Survivors
		run.end = flows.EndCount
	}

	return run, nil
}

// inlineBody appends one pass of the block as plain moments.
func (s *emitState) inlineBody(loop *FragmentLoop, run *bodyRun) ([]*BoundaryStabilizer, error) {
	block := buildBlock(loop.Fragments, run.flows)
	s.insertDetectors(block, run.candidates, false)

	for _, moment := range block.moments {
		s.out.AppendMoment(moment)
	}

	s.counter = run.end

	return run.live, nil
}

// emitLoopBlock appends the block as a REPEAT element carrying the trial
// pass's detector template.
func (s *emitState) emitLoopBlock(loop *FragmentLoop, run *bodyRun, reps int) {
	block := buildBlock(loop.Fragments, run.flows)
	s.insertDetectors(block, run.candidates, true)

	s.out.AppendLoop(model.Loop{Body: block.moments, Repetitions: reps})
	s.counter = run.end + (reps-1)*(run.end-block.start)
}

// buildBlock copies the fragments' moments and lines them up with the global
// measurement counts the propagation recorded.
func buildBlock(frags []*Fragment, flows []*FragmentFlows) *emittedBlock {
	block := &emittedBlock{start: flows[0].StartCount}

	for i, frag := range frags {
		for j, moment := range frag.Moments {
			block.moments = append(block.moments, moment.Copy())
			block.momentEnd = append(block.momentEnd, flows[i].MomentMeasEnd[j])
		}
	}

	return block
}

// insertDetectors places each candidate after the moment holding its newest
// measurement, suppressing parities pinning fewer than two outcomes and
// duplicates of already emitted detectors.
func (s *emitState) insertDetectors(block *emittedBlock, candidates []detectorCandidate, inLoop bool) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidateOrder(candidates[i]) < candidateOrder(candidates[j])
	})

	for _, cand := range candidates {
		if cand.Measurements.Len() < 2 {
			slog.Debug("Suppressing underdetermined parity", "measurements", cand.Measurements.String())

			continue
		}

		key := cand.Measurements.String()
		if s.seen[key] {
			continue
		}

		s.seen[key] = true

		newest, _ := cand.Measurements.Max()
		index := block.momentFor(newest)
		frame := block.momentEnd[index]

		offsets := make([]int, 0, cand.Measurements.Len())
		for _, v := range cand.Measurements.Values() {
			offsets = append(offsets, v-frame)
		}

		block.moments[index].Append(model.NewDetector(cand.Coords, offsets))
		s.detectors = append(s.detectors, Detector{
			Measurements: cand.Measurements,
			Offsets:      offsets,
			Coords:       cand.Coords,
			InLoop:       inLoop,
		})
	}
}

// momentFor returns the block moment containing the given measurement index,
// or the block's last measuring moment when the index predates the block.
func (b *emittedBlock) momentFor(index int) int {
	if index >= b.start {
		for i, end := range b.momentEnd {
			if end > index {
				return i
			}
		}
	}

	last := 0

	for i, end := range b.momentEnd {
		prev := b.start
		if i > 0 {
			prev = b.momentEnd[i-1]
		}

		if end > prev {
			last = i
		}
	}

	return last
}

// fragmentCandidates gathers a fragment's detector candidates: fully
// resolved flows plus matched same-operator pairs.
func fragmentCandidates(flows *FragmentFlows) []detectorCandidate {
	out := make([]detectorCandidate, 0, len(flows.Completed)+len(flows.Matched))
	for _, flow := range flows.Completed {
		out = append(out, detectorCandidate{Measurements: flow.MeasurementSet(), Coords: flow.Coords})
	}

	return append(out, flows.Matched...)
}

// candidateOrder sorts candidates by newest measurement for stable emission.
func candidateOrder(cand detectorCandidate) int {
	if last, ok := cand.Measurements.Max(); ok {
		return last
	}

	return -1
}

// shiftFlows fast-forwards trial-iteration flows to the block's final
// iteration.
func shiftFlows(flows []*BoundaryStabilizer, delta int) []*BoundaryStabilizer {
	if delta == 0 {
		return flows
	}

	out := make([]*BoundaryStabilizer, 0, len(flows))
	for _, flow := range flows {
		out = append(out, flow.shifted(delta))
	}

	return out
}

// boundaryKey fingerprints a flow set relative to a boundary's measurement
// count. Two boundaries with equal keys continue identically, which is the
// loop fixed-point test.
func boundaryKey(flows []*BoundaryStabilizer, count int) string {
	parts := make([]string, 0, len(flows))

	for _, flow := range flows {
		rel := make([]string, 0, flow.MeasurementSet().Len())
		for _, v := range flow.MeasurementSet().Values() {
			rel = append(rel, fmt.Sprintf("%d", v-count))
		}

		parts = append(parts, flow.AfterCollapse.Key()+"|"+strings.Join(rel, ","))
	}

	sort.Strings(parts)

	return strings.Join(parts, ";")
}

// AttachObservable appends an OBSERVABLE_INCLUDE annotation referencing the
// most recent measurement of each listed qubit.
func AttachObservable(circuit *model.Circuit, index int, qubits []int) error {
	lastIdx := make(map[int]int)
	counter := 0

	record := func(moment *model.Moment, base, shift int) int {
		local := 0

		for _, inst := range moment.Instructions {
			if inst.Kind != model.KindMeasurement {
				continue
			}

			for _, q := range inst.Targets {
				lastIdx[q] = base + local + shift
				local++
			}
		}

		return local
	}

	for i := range circuit.Elements {
		el := &circuit.Elements[i]

		switch {
		case el.Moment != nil:
			counter += record(el.Moment, counter, 0)
		case el.Loop != nil:
			stride := el.Loop.MeasurementsPerIteration()
			shift := (el.Loop.Repetitions - 1) * stride
			local := 0

			for j := range el.Loop.Body {
				local += record(&el.Loop.Body[j], counter+local, shift)
			}

			counter += el.Loop.Repetitions * stride
		}
	}

	offsets := make([]int, 0, len(qubits))

	for _, q := range qubits {
		idx, ok := lastIdx[q]
		if !ok {
			return fmt.Errorf("qubit %d is never measured", q)
		}

		offsets = append(offsets, idx-counter)
	}

	sort.Ints(offsets)

	annotation := model.NewObservableInclude(index, offsets)

	if n := len(circuit.Elements); n > 0 && circuit.Elements[n-1].Moment != nil {
		circuit.Elements[n-1].Moment.Append(annotation)
	} else {
		circuit.AppendMoment(model.NewMoment(annotation))
	}

	return nil
}
