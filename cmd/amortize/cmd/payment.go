package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/amortization-engine/amortization"
)

func newPaymentCmd(root *rootOptions) *cobra.Command {
	loan := &loanFlags{}

	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Baseline periodic payment of a loan",
		Long: `Prints the level payment that repays the loan in the given number of
periods.

Examples:
  amortize payment --principal 10000 --rate 0.1 --periods 12
  amortize payment --principal 100000 --rate 0.05 --periods 30 --frequency annually`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := root.defaults()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg, err := loan.config(cmd, defaults)
			if err != nil {
				return err
			}
			// Generate validates the loan; no rows are produced.
			sched, err := amortization.Generate(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s per period (%s, %d periods)\n",
				amortization.FormatMoney(sched.Baseline()),
				sched.Config().Frequency,
				sched.Config().Periods,
			)
			return nil
		},
	}

	loan.register(cmd)
	return cmd
}
