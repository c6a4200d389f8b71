package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/QCHackers/tqec-sub002/internal/adapter"
	"github.com/QCHackers/tqec-sub002/internal/domain"
)

// segmentsCmd represents the segments command.
var segmentsCmd = newSegmentsCmd()

func newSegmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "segments FILE",
		Short: "Show the fragment structure of a circuit",
		Long: `Split a circuit into fragments at reset boundaries and loops and show
the resulting segments without annotating anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := fsAdapter.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			circuit, err := adapter.ParseCircuit(string(data))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			segments, err := domain.Fragmentize(circuit)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			return selectUI(cmd).DisplaySegments(cmd.Context(), segments)
		},
	}
}

func init() {
	rootCmd.AddCommand(segmentsCmd)
}
