package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/amortization-engine/amortization"
)

func newPeriodsCmd(root *rootOptions) *cobra.Command {
	var (
		principal float64
		rate      float64
		payment   float64
		frequency string
	)

	cmd := &cobra.Command{
		Use:   "periods",
		Short: "Periods needed to repay a loan with a fixed payment",
		Long: `Prints how many periods a fixed payment takes to repay the loan. The
last period may be a partial payment.

Examples:
  amortize periods --principal 10000 --rate 0.1 --payment 1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := root.defaults()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			freq := defaults.Frequency
			if frequency != "" {
				if freq, err = amortization.ParseFrequency(frequency); err != nil {
					return err
				}
			}
			n, err := amortization.CalculatePeriods(principal, rate, payment, freq)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s periods\n", n, freq)
			return nil
		},
	}

	cmd.Flags().Float64Var(&principal, "principal", 0, "Loan principal")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Annual interest rate as a fraction")
	cmd.Flags().Float64Var(&payment, "payment", 0, "Payment per period")
	cmd.Flags().StringVar(&frequency, "frequency", "", "Payment frequency (default from config: monthly)")
	cmd.MarkFlagRequired("principal")
	cmd.MarkFlagRequired("rate")
	cmd.MarkFlagRequired("payment")
	return cmd
}
