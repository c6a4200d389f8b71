package adapter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/QCHackers/tqec-sub002/internal/model"
)

// WriteCircuit renders a circuit in stim's text format, TICK-separated with
// repeat blocks indented.
func WriteCircuit(circuit *model.Circuit) string {
	var b strings.Builder

	for i := range circuit.Elements {
		if i > 0 {
			b.WriteString("TICK\n")
		}

		el := &circuit.Elements[i]

		switch {
		case el.Moment != nil:
			writeMoment(&b, *el.Moment, "")
		case el.Loop != nil:
			fmt.Fprintf(&b, "REPEAT %d {\n", el.Loop.Repetitions)

			for j, moment := range el.Loop.Body {
				if j > 0 {
					b.WriteString("    TICK\n")
				}

				writeMoment(&b, moment, "    ")
			}

			b.WriteString("}\n")
		}
	}

	return b.String()
}

func writeMoment(b *strings.Builder, moment model.Moment, indent string) {
	for _, inst := range moment.Instructions {
		b.WriteString(indent)
		b.WriteString(formatInstruction(inst))
		b.WriteByte('\n')
	}
}

func formatInstruction(inst model.Instruction) string {
	var b strings.Builder

	b.WriteString(inst.Name)

	if len(inst.Args) > 0 {
		parts := make([]string, 0, len(inst.Args))
		for _, arg := range inst.Args {
			parts = append(parts, strconv.FormatFloat(arg, 'f', -1, 64))
		}

		b.WriteString("(" + strings.Join(parts, ", ") + ")")
	}

	for _, target := range inst.Targets {
		fmt.Fprintf(&b, " %d", target)
	}

	for _, rec := range inst.Recs {
		fmt.Fprintf(&b, " rec[%d]", rec)
	}

	return b.String()
}
