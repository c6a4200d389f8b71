// Package controller provides output adapters for presenting inference
// results: plain tables for scripting and an interactive circuit viewer.
package controller

import (
	"context"

	"github.com/QCHackers/tqec-sub002/internal/domain"
)

// BatchResult summarizes one circuit processed in a batch run.
type BatchResult struct {
	Path      string
	Detectors int
	Err       error
}

// UI defines the interface for displaying inference results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// DisplaySegments prints the segment structure of a circuit.
	DisplaySegments(ctx context.Context, segments []domain.Segment) error
	// DisplayDetectors prints the inferred detector list.
	DisplayDetectors(ctx context.Context, detectors []domain.Detector) error
	// DisplayCircuit shows an annotated circuit, paginating when interactive.
	DisplayCircuit(ctx context.Context, title, text string) error
	// DisplayBatchSummary prints per-file outcomes of a batch run.
	DisplayBatchSummary(ctx context.Context, results []BatchResult) error
}
