package domain

import (
	"fmt"

	"github.com/QCHackers/tqec-sub002/internal/model"
)

// CheckNoCombinedCollapse rejects instructions that measure and reset in one
// step (MR, MRX, MRY). They fold two collapse boundaries into a single
// instruction, which defeats fragmentation; callers should split them into an
// M followed by an R in the next moment.
func CheckNoCombinedCollapse(circuit *model.Circuit) error {
	var verr error

	circuit.ForEachMoment(func(index int, moment *model.Moment) {
		if verr != nil {
			return
		}

		for _, inst := range moment.Instructions {
			if inst.Kind == model.KindCombined {
				verr = &ValidationError{
					MomentIndex: index,
					Instruction: inst.String(),
					Reason:      "combined measure-reset instructions are not supported",
				}

				return
			}
		}
	})

	return verr
}

// CheckWellFormedMoments rejects moments that mix resets, unitary gates and
// measurements. Every moment must carry at most one of the three classes so
// that collapse boundaries are unambiguous; annotations may sit anywhere.
func CheckWellFormedMoments(circuit *model.Circuit) error {
	var verr error

	circuit.ForEachMoment(func(index int, moment *model.Moment) {
		if verr != nil {
			return
		}

		classes := moment.Classes()
		if len(classes) > 1 {
			verr = &ValidationError{
				MomentIndex: index,
				Reason:      fmt.Sprintf("moment mixes %d operation classes, expected at most one", len(classes)),
			}
		}
	})

	return verr
}
