package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/QCHackers/tqec-sub002/internal/domain"
)

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplaySegments prints one row per top-level segment.
func (s *SimpleUI) DisplaySegments(ctx context.Context, segments []domain.Segment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"#", "Kind", "Moments", "Measurements", "Repetitions"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	totalMeasurements := 0

	for i, seg := range segments {
		switch {
		case seg.Fragment != nil:
			count := seg.Fragment.NumMeasurements()
			totalMeasurements += count
			table.Append([]string{
				fmt.Sprintf("%d", i),
				"fragment",
				fmt.Sprintf("%d", len(seg.Fragment.Moments)),
				fmt.Sprintf("%d", count),
				"-",
			})
		case seg.Loop != nil:
			moments := 0
			for _, frag := range seg.Loop.Fragments {
				moments += len(frag.Moments)
			}

			count := seg.Loop.MeasurementsPerIteration()
			totalMeasurements += count * seg.Loop.Repetitions
			table.Append([]string{
				fmt.Sprintf("%d", i),
				"loop",
				fmt.Sprintf("%d", moments),
				fmt.Sprintf("%d", count),
				fmt.Sprintf("%d", seg.Loop.Repetitions),
			})
		}
	}

	table.SetFooter([]string{"", "", "", fmt.Sprintf("%d", totalMeasurements), ""})
	table.Render()

	s.cmd.Printf("\n%s", buf.String())

	return nil
}

// DisplayDetectors prints one row per inferred detector.
func (s *SimpleUI) DisplayDetectors(ctx context.Context, detectors []domain.Detector) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(detectors) == 0 {
		s.cmd.Println("No detectors inferred.")

		return nil
	}

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"#", "Record Offsets", "Coords", "Repeated"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for i, det := range detectors {
		repeated := ""
		if det.InLoop {
			repeated = "per iteration"
		}

		table.Append([]string{
			fmt.Sprintf("%d", i),
			formatOffsets(det.Offsets),
			det.Coords.String(),
			repeated,
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total %d", len(detectors)), "", "", ""})
	table.Render()

	s.cmd.Printf("\n%s", buf.String())

	return nil
}

// DisplayCircuit prints the annotated circuit text as-is.
func (s *SimpleUI) DisplayCircuit(ctx context.Context, title, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.cmd.Printf("# %s\n%s", title, text)

	return nil
}

// DisplayBatchSummary prints per-file outcomes of a batch run.
func (s *SimpleUI) DisplayBatchSummary(ctx context.Context, results []BatchResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Path", "Detectors", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	failed := 0

	for _, res := range results {
		status := "ok"
		if res.Err != nil {
			status = res.Err.Error()
			failed++
		}

		table.Append([]string{res.Path, fmt.Sprintf("%d", res.Detectors), status})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(results)),
		"",
		fmt.Sprintf("%d failed", failed),
	})
	table.Render()

	s.cmd.Printf("\n%s", buf.String())

	return nil
}

func formatOffsets(offsets []int) string {
	parts := make([]string, 0, len(offsets))
	for _, offset := range offsets {
		parts = append(parts, fmt.Sprintf("rec[%d]", offset))
	}

	return strings.Join(parts, " ")
}
