package model

// Moment is one discrete time step: the instructions between two TICK
// markers.
type Moment struct {
	Instructions []Instruction
}

// NewMoment builds a moment from the given instructions.
func NewMoment(instructions ...Instruction) Moment {
	return Moment{Instructions: instructions}
}

// Append adds an instruction to the moment in place.
func (m *Moment) Append(instruction Instruction) {
	m.Instructions = append(m.Instructions, instruction)
}

// Classes returns the set of non-annotation instruction kinds present.
func (m Moment) Classes() map[InstructionKind]bool {
	classes := make(map[InstructionKind]bool)

	for _, inst := range m.Instructions {
		if inst.Kind != KindAnnotation {
			classes[inst.Kind] = true
		}
	}

	return classes
}

// MeasurementCount is the number of measured qubit targets in the moment.
func (m Moment) MeasurementCount() int {
	count := 0

	for _, inst := range m.Instructions {
		if inst.Kind == KindMeasurement {
			count += len(inst.Targets)
		}
	}

	return count
}

// IsEmpty reports whether the moment holds no instructions at all.
func (m Moment) IsEmpty() bool {
	return len(m.Instructions) == 0
}

// Copy returns a deep copy of the moment.
func (m Moment) Copy() Moment {
	out := Moment{Instructions: make([]Instruction, 0, len(m.Instructions))}
	for _, inst := range m.Instructions {
		out.Instructions = append(out.Instructions, inst.Copy())
	}

	return out
}

// Loop is a repeated block: an ordered moment sequence executed Repetitions
// times. Loops never nest.
type Loop struct {
	Body        []Moment
	Repetitions int
}

// Copy returns a deep copy of the loop.
func (l Loop) Copy() Loop {
	out := Loop{Body: make([]Moment, 0, len(l.Body)), Repetitions: l.Repetitions}
	for _, moment := range l.Body {
		out.Body = append(out.Body, moment.Copy())
	}

	return out
}

// MeasurementsPerIteration is the number of measured targets in one pass of
// the body.
func (l Loop) MeasurementsPerIteration() int {
	count := 0
	for _, moment := range l.Body {
		count += moment.MeasurementCount()
	}

	return count
}

// Element is a tagged variant: exactly one of Moment or Loop is set.
type Element struct {
	Moment *Moment
	Loop   *Loop
}

// Circuit is an ordered sequence of moments and repeated blocks.
type Circuit struct {
	Elements []Element
}

// AppendMoment adds a moment element to the circuit.
func (c *Circuit) AppendMoment(m Moment) {
	c.Elements = append(c.Elements, Element{Moment: &m})
}

// AppendLoop adds a repeated-block element to the circuit.
func (c *Circuit) AppendLoop(l Loop) {
	c.Elements = append(c.Elements, Element{Loop: &l})
}

// Copy returns a deep copy of the circuit.
func (c *Circuit) Copy() *Circuit {
	out := &Circuit{Elements: make([]Element, 0, len(c.Elements))}

	for _, el := range c.Elements {
		switch {
		case el.Moment != nil:
			m := el.Moment.Copy()
			out.Elements = append(out.Elements, Element{Moment: &m})
		case el.Loop != nil:
			l := el.Loop.Copy()
			out.Elements = append(out.Elements, Element{Loop: &l})
		}
	}

	return out
}

// NumMeasurements counts measured targets over the whole circuit, with loop
// bodies multiplied by their repetition count.
func (c *Circuit) NumMeasurements() int {
	count := 0

	for _, el := range c.Elements {
		switch {
		case el.Moment != nil:
			count += el.Moment.MeasurementCount()
		case el.Loop != nil:
			count += el.Loop.MeasurementsPerIteration() * el.Loop.Repetitions
		}
	}

	return count
}

// ContainsAnnotation reports whether any instruction carries the given
// annotation name, looking into loop bodies.
func (c *Circuit) ContainsAnnotation(name string) bool {
	found := false

	c.ForEachMoment(func(_ int, m *Moment) {
		for _, inst := range m.Instructions {
			if inst.Kind == KindAnnotation && inst.Name == name {
				found = true
			}
		}
	})

	return found
}

// StripInferred returns a copy with DETECTOR and SHIFT_COORDS annotations
// removed, the form the pipeline expects as input when re-annotating.
func (c *Circuit) StripInferred() *Circuit {
	out := c.Copy()

	out.ForEachMoment(func(_ int, m *Moment) {
		kept := m.Instructions[:0]

		for _, inst := range m.Instructions {
			if inst.Kind == KindAnnotation &&
				(inst.Name == AnnotationDetector || inst.Name == AnnotationShiftCoords) {
				continue
			}

			kept = append(kept, inst)
		}

		m.Instructions = kept
	})

	return out
}

// ForEachMoment visits every moment in order, descending into loop bodies.
// The index counts moments as visited, with each loop body counted once.
func (c *Circuit) ForEachMoment(fn func(index int, m *Moment)) {
	index := 0

	for i := range c.Elements {
		el := &c.Elements[i]

		switch {
		case el.Moment != nil:
			fn(index, el.Moment)
			index++
		case el.Loop != nil:
			for j := range el.Loop.Body {
				fn(index, &el.Loop.Body[j])
				index++
			}
		}
	}
}
