package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/QCHackers/tqec-sub002/internal/adapter"
)

// showCmd represents the show command.
var showCmd = newShowCmd()

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Pretty-print a circuit file",
		Long: `Parse a circuit and print it back in canonical form, paging through it
when --tui is set.`,
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

			return selectUI(cmd).DisplayCircuit(cmd.Context(), args[0], adapter.WriteCircuit(circuit))
		},
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
