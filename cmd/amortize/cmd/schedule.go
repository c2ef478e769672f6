package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/amortization-engine/amortization"
	"github.com/warp/amortization-engine/config"
	"github.com/warp/amortization-engine/export"
)

const formatTable = "table"

// loanFlags are the loan parameters shared by schedule and payment.
type loanFlags struct {
	principal    float64
	rate         float64
	periods      int
	frequency    string
	payment      float64
	interestMode string
}

func (f *loanFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.principal, "principal", 0, "Loan principal")
	cmd.Flags().Float64Var(&f.rate, "rate", 0, "Annual interest rate as a fraction (0.05 = 5%)")
	cmd.Flags().IntVar(&f.periods, "periods", 0, "Number of payment periods")
	cmd.Flags().StringVar(&f.frequency, "frequency", "", "Payment frequency (default from config: monthly)")
	cmd.MarkFlagRequired("principal")
	cmd.MarkFlagRequired("rate")
	cmd.MarkFlagRequired("periods")
}

// config builds the loan from flags, falling back to defaults for omitted
// frequency and interest mode.
func (f *loanFlags) config(cmd *cobra.Command, d config.DefaultsConfig) (amortization.Config, error) {
	freq := d.Frequency
	if f.frequency != "" {
		parsed, err := amortization.ParseFrequency(f.frequency)
		if err != nil {
			return amortization.Config{}, err
		}
		freq = parsed
	}
	mode := d.InterestMode
	if f.interestMode != "" {
		parsed, err := amortization.ParseInterestMode(f.interestMode)
		if err != nil {
			return amortization.Config{}, err
		}
		mode = parsed
	}

	cfg := amortization.NewConfig(f.principal, f.rate, f.periods).
		WithFrequency(freq).
		WithInterestMode(mode)
	if cmd.Flags().Changed("payment") {
		cfg = cfg.WithActualPayment(f.payment)
	}
	return cfg, nil
}

type scheduleOptions struct {
	loan    loanFlags
	summary bool
	format  string
	out     string
}

func newScheduleCmd(root *rootOptions) *cobra.Command {
	opts := &scheduleOptions{}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print or export an amortization schedule",
		Long: `Generates the period-by-period schedule of a loan.

Examples:
  amortize schedule --principal 10000 --rate 0.1 --periods 12
  amortize schedule --principal 10000 --rate 0.1 --periods 12 --payment 1000 --summary
  amortize schedule --principal 250000 --rate 0.045 --periods 360 --format xlsx --out loan.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd, root, opts)
		},
	}

	opts.loan.register(cmd)
	cmd.Flags().Float64Var(&opts.loan.payment, "payment", 0, "Actual payment per period (default: baseline)")
	cmd.Flags().StringVar(&opts.loan.interestMode, "interest-mode", "", "Interest model: closed_form or simple")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print totals after the table")
	cmd.Flags().StringVar(&opts.format, "format", formatTable, "Output format: table, csv, xlsx, pdf")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default: stdout)")
	return cmd
}

func runSchedule(cmd *cobra.Command, root *rootOptions, opts *scheduleOptions) error {
	defaults, err := root.defaults()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg, err := opts.loan.config(cmd, defaults)
	if err != nil {
		return err
	}

	gen := amortization.NewGenerator(amortization.WithLogger(root.logger(cmd)))
	sched, err := gen.Generate(cfg)
	if err != nil {
		return err
	}

	if opts.format == formatTable {
		w := cmd.OutOrStdout()
		if opts.out != "" {
			f, err := os.Create(opts.out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return printSchedule(w, sched, opts.summary)
	}

	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	rec := amortization.NewRecord("", "", sched)
	data, err := export.Render(format, rec)
	if err != nil {
		return err
	}
	if opts.out == "" {
		if format != export.FormatCSV {
			return fmt.Errorf("--out is required for %s output", format)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return err
	}
	root.logger(cmd).Printf("wrote %d rows to %s", len(rec.Rows), opts.out)
	return nil
}

// printSchedule streams rows into an aligned table.
func printSchedule(w io.Writer, sched *amortization.Schedule, withSummary bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Period\tPayment\tInterest\tPrincipal\tBalance\t")

	var rows []amortization.Row
	for row := range sched.Rows() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			row.Period,
			amortization.FormatMoney(row.Payment),
			amortization.FormatMoney(row.Interest),
			amortization.FormatMoney(row.Principal),
			amortization.FormatMoney(row.Balance),
		)
		if withSummary {
			rows = append(rows, row)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !withSummary {
		return nil
	}

	sum := amortization.Summarize(amortization.SliceRows(rows))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Payment:         %s\n", amortization.FormatMoney(sched.Payment()))
	fmt.Fprintf(w, "Periods:         %d\n", sum.Periods)
	fmt.Fprintf(w, "Paid off in:     %d\n", sum.PayoffPeriod)
	fmt.Fprintf(w, "Total payment:   %s\n", amortization.FormatMoney(sum.TotalPayment.InexactFloat64()))
	fmt.Fprintf(w, "Total interest:  %s\n", amortization.FormatMoney(sum.TotalInterest.InexactFloat64()))
	fmt.Fprintf(w, "Total principal: %s\n", amortization.FormatMoney(sum.TotalPrincipal.InexactFloat64()))
	return nil
}
