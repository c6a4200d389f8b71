package domain

import (
	"github.com/QCHackers/tqec-sub002/internal/model"
)

// Fragment is a maximal run of moments between two collapse boundaries: it
// opens with a reset moment (or with measurements, for the terminal readout
// block) and ends just before the next reset or the end of the scope.
type Fragment struct {
	Moments []model.Moment
}

// NumMeasurements is the number of measured qubit targets in the fragment.
func (f *Fragment) NumMeasurements() int {
	count := 0
	for _, moment := range f.Moments {
		count += moment.MeasurementCount()
	}

	return count
}

// NumResets is the number of reset qubit targets in the fragment.
func (f *Fragment) NumResets() int {
	count := 0

	for _, moment := range f.Moments {
		for _, inst := range moment.Instructions {
			if inst.Kind == model.KindReset {
				count += len(inst.Targets)
			}
		}
	}

	return count
}

// hasMeasurement reports whether any moment measures at least one qubit.
func (f *Fragment) hasMeasurement() bool {
	return f.NumMeasurements() > 0
}

// FragmentLoop is a repeated block segmented into fragments. One pass of the
// body runs the fragments in order; the whole body repeats Repetitions times.
type FragmentLoop struct {
	Fragments   []*Fragment
	Repetitions int
}

// MeasurementsPerIteration is the number of measured targets in one pass.
func (l *FragmentLoop) MeasurementsPerIteration() int {
	count := 0
	for _, frag := range l.Fragments {
		count += frag.NumMeasurements()
	}

	return count
}

// Segment is a tagged variant over a plain fragment and a fragment loop;
// exactly one field is set.
type Segment struct {
	Fragment *Fragment
	Loop     *FragmentLoop
}

// Fragmentize splits a validated circuit into an ordered segment list. Every
// fragment must contain at least one measurement moment; a repeated block
// closes any open fragment and is segmented recursively.
func Fragmentize(circuit *model.Circuit) ([]Segment, error) {
	walker := &fragmentWalker{}

	for i := range circuit.Elements {
		el := &circuit.Elements[i]

		switch {
		case el.Moment != nil:
			if err := walker.addMoment(*el.Moment); err != nil {
				return nil, err
			}
		case el.Loop != nil:
			if err := walker.addLoop(el.Loop); err != nil {
				return nil, err
			}
		}
	}

	if err := walker.finish(); err != nil {
		return nil, err
	}

	return walker.segments, nil
}

// fragmentWalker accumulates moments into the currently open fragment and
// closes it at collapse boundaries.
type fragmentWalker struct {
	segments    Segments
	current     []model.Moment
	pending     []model.Moment // annotation-only moments seen before any fragment opened
	momentIndex int
}

// Segments is an ordered list of circuit segments.
type Segments []Segment

func (w *fragmentWalker) addMoment(moment model.Moment) error {
	defer func() { w.momentIndex++ }()

	classes := moment.Classes()

	switch {
	case classes[model.KindReset]:
		if err := w.closeCurrent(); err != nil {
			return err
		}

		w.openWith(moment)
	case classes[model.KindGate]:
		if len(w.current) == 0 {
			return &FragmentError{
				MomentIndex: w.momentIndex,
				Reason:      "gate moment before any reset opened a fragment",
			}
		}

		w.current = append(w.current, moment)
	case classes[model.KindMeasurement]:
		if len(w.current) == 0 {
			// Terminal readout blocks may open on measurements alone.
			w.openWith(moment)
		} else {
			w.current = append(w.current, moment)
		}
	default:
		// Annotation-only or empty moment. Attach it to the open fragment,
		// or hold it for the next one (coordinate prologues).
		if len(w.current) > 0 {
			w.current = append(w.current, moment)
		} else {
			w.pending = append(w.pending, moment)
		}
	}

	return nil
}

func (w *fragmentWalker) addLoop(loop *model.Loop) error {
	if err := w.closeCurrent(); err != nil {
		return err
	}

	if loop.Repetitions < 1 {
		return &FragmentError{
			MomentIndex: w.momentIndex,
			Reason:      "repeated block with non-positive repetition count",
		}
	}

	bodyWalker := &fragmentWalker{momentIndex: w.momentIndex}
	for _, moment := range loop.Body {
		if err := bodyWalker.addMoment(moment); err != nil {
			return err
		}
	}

	if err := bodyWalker.finish(); err != nil {
		return err
	}

	// The body holds plain moments only, so every body segment is a fragment.
	fragments := make([]*Fragment, 0, len(bodyWalker.segments))
	for _, seg := range bodyWalker.segments {
		fragments = append(fragments, seg.Fragment)
	}

	w.segments = append(w.segments, Segment{Loop: &FragmentLoop{
		Fragments:   fragments,
		Repetitions: loop.Repetitions,
	}})
	w.momentIndex += len(loop.Body)

	return nil
}

func (w *fragmentWalker) openWith(moment model.Moment) {
	w.current = append(w.current, w.pending...)
	w.pending = nil
	w.current = append(w.current, moment)
}

func (w *fragmentWalker) closeCurrent() error {
	if len(w.current) == 0 {
		return nil
	}

	frag := &Fragment{Moments: w.current}
	if !frag.hasMeasurement() {
		return &FragmentError{
			MomentIndex: w.momentIndex,
			Reason:      "fragment closed without a measurement moment",
		}
	}

	w.segments = append(w.segments, Segment{Fragment: frag})
	w.current = nil

	return nil
}

func (w *fragmentWalker) finish() error {
	if err := w.closeCurrent(); err != nil {
		return err
	}

	if len(w.pending) > 0 && len(w.segments) > 0 {
		// Trailing annotation moments join the last plain fragment.
		if last := w.segments[len(w.segments)-1].Fragment; last != nil {
			last.Moments = append(last.Moments, w.pending...)
			w.pending = nil
		}
	}

	return nil
}
