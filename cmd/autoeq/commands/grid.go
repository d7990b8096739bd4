package commands

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RMahshie/autoeq/pkg/curve"
)

func gridCmd() *cobra.Command {
	var lower, upper float64

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the equal-loudness analysis grid, one frequency per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			grid, err := curve.Grid(lower, upper)
			if err != nil {
				return err
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			for _, f := range grid {
				fmt.Fprintf(w, "%.3f\n", f)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Float64Var(&lower, "lower", curve.LowerBoundHz, "lower bound in Hz")
	cmd.Flags().Float64Var(&upper, "upper", curve.UpperBoundHz, "upper bound in Hz")
	return cmd
}
