package model

import (
	"fmt"
	"strings"
)

// Coords is an opaque spatial annotation attached to a qubit. The algebra
// never interprets it; it rides along stabilizers and ends up on detectors.
type Coords []float64

// String renders the coordinates as "(x, y, ...)".
func (c Coords) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = trimFloat(v)
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

// Equal compares coordinates elementwise.
func (c Coords) Equal(other Coords) bool {
	if len(c) != len(other) {
		return false
	}

	for i, v := range c {
		if other[i] != v {
			return false
		}
	}

	return true
}

// CoordsMap associates qubit indices with spatial coordinates.
type CoordsMap map[int]Coords

// CoordsFromCircuit collects QUBIT_COORDS annotations from the circuit,
// including loop bodies. Later annotations win.
func CoordsFromCircuit(c *Circuit) CoordsMap {
	out := make(CoordsMap)

	c.ForEachMoment(func(_ int, m *Moment) {
		for _, inst := range m.Instructions {
			if inst.Kind != KindAnnotation || inst.Name != AnnotationQubitCoords {
				continue
			}

			for _, q := range inst.Targets {
				out[q] = append(Coords(nil), inst.Args...)
			}
		}
	})

	return out
}

// Merge overlays other on top of the receiver, returning a new map. Entries
// in other win.
func (cm CoordsMap) Merge(other CoordsMap) CoordsMap {
	out := make(CoordsMap, len(cm)+len(other))

	for q, c := range cm {
		out[q] = c
	}

	for q, c := range other {
		out[q] = c
	}

	return out
}

// trimFloat formats a float without a trailing ".0" noise for integral
// values.
func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}

	return fmt.Sprintf("%g", v)
}
