// Package domain contains the detector-inference core: circuit validation,
// fragmentation, boundary-stabilizer propagation and detector emission.
package domain

import (
	"errors"
	"fmt"
)

// ErrLoopNotPeriodic reports a repeated block whose boundary-stabilizer
// pattern never stabilizes within the bounded trial iterations. The repeated
// block is not actually periodic; this is always a caller error.
var ErrLoopNotPeriodic = errors.New("repeated block boundary pattern does not stabilize")

// ErrAlreadyAnnotated reports an input circuit that already carries DETECTOR
// annotations. Callers strip inferred annotations before re-running the
// pipeline.
var ErrAlreadyAnnotated = errors.New("circuit already carries detector annotations")

// ValidationError reports a structural defect found by the input predicates,
// naming the offending moment.
type ValidationError struct {
	MomentIndex int
	Instruction string
	Reason      string
}

func (e *ValidationError) Error() string {
	if e.Instruction != "" {
		return fmt.Sprintf("moment %d: %s: %s", e.MomentIndex, e.Reason, e.Instruction)
	}

	return fmt.Sprintf("moment %d: %s", e.MomentIndex, e.Reason)
}

// FragmentError reports a malformed fragment boundary discovered while
// segmenting the circuit.
type FragmentError struct {
	MomentIndex int
	Reason      string
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("fragmentation at moment %d: %s", e.MomentIndex, e.Reason)
}
