package adapter

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/QCHackers/tqec-sub002/internal/model"
)

// LoadCoords reads a qubit coordinate map from a YAML file of the form
//
//	0: [1, 1]
//	1: [2, 0.5]
//
// Entries loaded here overlay any QUBIT_COORDS annotations in the circuit.
func LoadCoords(fs CircuitFSAdapter, path string) (model.CoordsMap, error) {
	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading coordinates: %w", err)
	}

	raw := make(map[int][]float64)
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parsing coordinates: %w", err)
	}

	coords := make(model.CoordsMap, len(raw))

	for qubit, values := range raw {
		if qubit < 0 {
			return nil, fmt.Errorf("parsing coordinates: negative qubit index %d", qubit)
		}

		coords[qubit] = model.Coords(values)
	}

	return coords, nil
}
