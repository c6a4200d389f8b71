// Package adapter contains circuit I/O and infrastructure adapters for the
// tqec CLI: the stim text codec, coordinate loading and filesystem access.
package adapter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/QCHackers/tqec-sub002/internal/model"
	"github.com/QCHackers/tqec-sub002/internal/pauli"
)

// Pre-compiled regexps for stim text parsing.
var (
	instructionRegex = regexp.MustCompile(`^([A-Z][A-Z0-9_]*)\s*(?:\(([^)]*)\))?\s*(.*)$`)
	repeatRegex      = regexp.MustCompile(`^REPEAT\s+(\d+)\s*\{$`)
	recRegex         = regexp.MustCompile(`^rec\[(-\d+)\]$`)
)

// ParseError reports unparseable or unsupported circuit text.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// collapseBases maps reset and measurement names to their collapse axis.
var collapseBases = map[string]pauli.Basis{
	"R": pauli.Z, "RX": pauli.X, "RY": pauli.Y,
	"M": pauli.Z, "MX": pauli.X, "MY": pauli.Y,
	"MR": pauli.Z, "MRX": pauli.X, "MRY": pauli.Y,
}

// gateAliases maps accepted alternate spellings to canonical gate names.
var gateAliases = map[string]string{
	"CNOT": "CX",
	"ZCX":  "CX",
	"ZCY":  "CY",
	"ZCZ":  "CZ",
}

// ParseCircuit reads a circuit in stim's text format. TICK lines separate
// moments; one level of REPEAT blocks is supported. Fused measure-reset
// instructions parse into the combined kind so validation can name them.
func ParseCircuit(text string) (*model.Circuit, error) {
	p := &parser{circuit: &model.Circuit{}}

	for i, raw := range strings.Split(text, "\n") {
		line := raw
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := p.parseLine(i+1, line); err != nil {
			return nil, err
		}
	}

	if p.loop != nil {
		return nil, &ParseError{Line: p.loopLine, Text: "REPEAT", Reason: "unclosed repeat block"}
	}

	p.flushMoment()

	return p.circuit, nil
}

type parser struct {
	circuit  *model.Circuit
	moment   model.Moment
	loop     *model.Loop
	loopLine int
}

func (p *parser) parseLine(line int, text string) error {
	switch {
	case text == "TICK":
		p.flushMoment()

		return nil
	case text == "}":
		if p.loop == nil {
			return &ParseError{Line: line, Text: text, Reason: "unmatched closing brace"}
		}

		p.flushMoment()
		p.circuit.AppendLoop(*p.loop)
		p.loop = nil

		return nil
	}

	if match := repeatRegex.FindStringSubmatch(text); match != nil {
		if p.loop != nil {
			return &ParseError{Line: line, Text: text, Reason: "repeat blocks cannot nest"}
		}

		p.flushMoment()

		reps, err := strconv.Atoi(match[1])
		if err != nil || reps < 1 {
			return &ParseError{Line: line, Text: text, Reason: "invalid repetition count"}
		}

		p.loop = &model.Loop{Repetitions: reps}
		p.loopLine = line

		return nil
	}

	match := instructionRegex.FindStringSubmatch(text)
	if match == nil {
		return &ParseError{Line: line, Text: text, Reason: "unrecognized instruction"}
	}

	inst, err := buildInstruction(line, text, match[1], match[2], strings.Fields(match[3]))
	if err != nil {
		return err
	}

	p.moment.Append(inst)

	return nil
}

func (p *parser) flushMoment() {
	if p.moment.IsEmpty() {
		return
	}

	if p.loop != nil {
		p.loop.Body = append(p.loop.Body, p.moment)
	} else {
		p.circuit.AppendMoment(p.moment)
	}

	p.moment = model.Moment{}
}

func buildInstruction(line int, text, name, argText string, fields []string) (model.Instruction, error) {
	args, err := parseArgs(argText)
	if err != nil {
		return model.Instruction{}, &ParseError{Line: line, Text: text, Reason: "invalid arguments"}
	}

	switch name {
	case model.AnnotationDetector, model.AnnotationObservable:
		recs, err := parseRecs(fields)
		if err != nil {
			return model.Instruction{}, &ParseError{Line: line, Text: text, Reason: err.Error()}
		}

		return model.Instruction{Kind: model.KindAnnotation, Name: name, Args: args, Recs: recs}, nil
	case model.AnnotationQubitCoords, model.AnnotationShiftCoords:
		targets, err := parseTargets(fields)
		if err != nil {
			return model.Instruction{}, &ParseError{Line: line, Text: text, Reason: err.Error()}
		}

		return model.Instruction{Kind: model.KindAnnotation, Name: name, Args: args, Targets: targets}, nil
	}

	if len(args) > 0 {
		return model.Instruction{}, &ParseError{Line: line, Text: text, Reason: "arguments are not supported here"}
	}

	targets, err := parseTargets(fields)
	if err != nil {
		return model.Instruction{}, &ParseError{Line: line, Text: text, Reason: err.Error()}
	}

	if len(targets) == 0 {
		return model.Instruction{}, &ParseError{Line: line, Text: text, Reason: "instruction without targets"}
	}

	if basis, ok := collapseBases[name]; ok {
		kind := model.KindMeasurement

		switch {
		case strings.HasPrefix(name, "MR"):
			kind = model.KindCombined
		case strings.HasPrefix(name, "R"):
			kind = model.KindReset
		}

		return model.Instruction{Kind: kind, Name: name, Basis: basis, Targets: targets}, nil
	}

	canonical := name
	if alias, ok := gateAliases[name]; ok {
		canonical = alias
	}

	gate := pauli.Gate(canonical)
	if !pauli.IsClifford(gate) {
		return model.Instruction{}, &ParseError{Line: line, Text: text, Reason: "unsupported instruction"}
	}

	arity, _ := pauli.Arity(gate)
	if len(targets)%arity != 0 {
		return model.Instruction{}, &ParseError{Line: line, Text: text, Reason: "target count does not match gate arity"}
	}

	return model.NewGate(canonical, targets...), nil
}

func parseArgs(argText string) ([]float64, error) {
	argText = strings.TrimSpace(argText)
	if argText == "" {
		return nil, nil
	}

	parts := strings.Split(argText, ",")
	args := make([]float64, 0, len(parts))

	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}

		args = append(args, v)
	}

	return args, nil
}

func parseTargets(fields []string) ([]int, error) {
	targets := make([]int, 0, len(fields))

	for _, field := range fields {
		q, err := strconv.Atoi(field)
		if err != nil || q < 0 {
			return nil, fmt.Errorf("invalid qubit target %q", field)
		}

		targets = append(targets, q)
	}

	return targets, nil
}

func parseRecs(fields []string) ([]int, error) {
	recs := make([]int, 0, len(fields))

	for _, field := range fields {
		match := recRegex.FindStringSubmatch(field)
		if match == nil {
			return nil, fmt.Errorf("invalid record target %q", field)
		}

		offset, err := strconv.Atoi(match[1])
		if err != nil || offset >= 0 {
			return nil, fmt.Errorf("invalid record offset %q", field)
		}

		recs = append(recs, offset)
	}

	return recs, nil
}
