// Package cmd implements the amortize command line.
package cmd

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/warp/amortization-engine/config"
)

// rootOptions are the persistent flags shared by all subcommands.
type rootOptions struct {
	cfgFile string
	verbose bool
}

// defaults loads the optional config file for frequency and interest mode
// fallbacks.
func (o *rootOptions) defaults() (config.DefaultsConfig, error) {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return config.DefaultsConfig{}, err
	}
	return cfg.Defaults, nil
}

// logger writes to stderr with -v and discards otherwise.
func (o *rootOptions) logger(cmd *cobra.Command) *log.Logger {
	if !o.verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "amortize: ", 0)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "amortize",
		Short: "Loan amortization schedules",
		Long: `amortize computes loan payments and period-by-period amortization
schedules.

Commands:
  schedule  - Print or export the full schedule
  payment   - Baseline periodic payment
  periods   - Periods needed to repay with a given payment`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "Config file (YAML) for defaults")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(
		newScheduleCmd(opts),
		newPaymentCmd(opts),
		newPeriodsCmd(opts),
	)
	return root
}

// Execute runs the root command against os.Args.
func Execute() error {
	return newRootCmd().Execute()
}
