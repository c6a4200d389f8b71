package domain

import (
	"github.com/QCHackers/tqec-sub002/internal/model"
	"github.com/QCHackers/tqec-sub002/pkg"
)

// detectorCandidate is a deterministic measurement parity found during
// propagation, before suppression and deduplication.
type detectorCandidate struct {
	Measurements pkg.IntSet
	Coords       model.Coords
}

// dedupeFlows matches live flows pinning the same operator. Two such flows
// differ only by a deterministic measurement parity, so each match becomes a
// detector candidate; the flow with the newest measurement stays live in
// their place. This is how stabilizers re-measured across rounds pair up
// into adjacent-round detectors.
func dedupeFlows(flows *FragmentFlows, live []*BoundaryStabilizer) []*BoundaryStabilizer {
	byKey := make(map[string]int, len(live))
	kept := live[:0]

	for _, flow := range live {
		key := flow.AfterCollapse.Key()

		at, seen := byKey[key]
		if !seen {
			byKey[key] = len(kept)
			kept = append(kept, flow)

			continue
		}

		newest, older := flow, kept[at]
		if flowRecency(older) > flowRecency(newest) {
			newest, older = older, newest
		}

		flows.Matched = append(flows.Matched, detectorCandidate{
			Measurements: newest.MeasurementSet().SymmetricDifference(older.MeasurementSet()),
			Coords:       matchCoords(older, newest),
		})
		kept[at] = newest
	}

	return kept
}

// flowRecency orders flows by their newest measurement; flows pinning no
// measurement sort last.
func flowRecency(flow *BoundaryStabilizer) int {
	if last, ok := flow.MeasurementSet().Max(); ok {
		return last
	}

	return -1
}

func matchCoords(older, newest *BoundaryStabilizer) model.Coords {
	if older.Coords != nil {
		return older.Coords
	}

	return newest.Coords
}
