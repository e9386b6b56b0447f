package cli

import (
	"os"

	"github.com/spf13/cobra"

	"findash/internal/config"
	"findash/internal/filter"
	applog "findash/internal/log"
)

// app carries the state shared by subcommands once the root command has
// loaded the environment.
type app struct {
	envFile string
	cfg     *config.Config
	logger  *applog.Logger
}

// NewRootCommand builds the findash command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "findash",
		Short:         "Financial report dashboard",
		Long:          "Load financial line items, pivot them by fiscal year and month, and serve or print the result.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.envFile != "" {
				if err := loadEnvFrom(a.envFile); err != nil {
					return err
				}
			} else {
				LoadEnvFile()
			}
			cfg, err := LoadAndValidateConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = SetupLogger(cfg.LogLevel, cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Load environment variables from this file instead of .env")

	root.AddCommand(
		newServeCommand(a),
		newImportCommand(a),
		newPivotCommand(a),
		newExportCommand(a),
		newEventsCommand(a),
	)
	return root
}

// Execute is the main entry point called from main.go.
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

// filterFlags binds the repeatable --site, --detail and --fy flags.
type filterFlags struct {
	sites       []string
	itemDetails []string
	fiscalYears []string
}

func (ff *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&ff.sites, "site", nil, "Restrict to these sites (repeatable)")
	cmd.Flags().StringArrayVar(&ff.itemDetails, "detail", nil, "Restrict to these item details (repeatable)")
	cmd.Flags().StringArrayVar(&ff.fiscalYears, "fy", nil, `Restrict to these fiscal years (repeatable, "none" for all)`)
}

// Filters converts the flags into dashboard filters. Omitted flags restrict
// nothing.
func (ff *filterFlags) Filters() filter.Filters {
	return filter.Filters{
		Sites:       filter.NewSelection(ff.sites...),
		ItemDetails: filter.NewSelection(ff.itemDetails...),
		FiscalYears: filter.NewFiscalYearSelection(ff.fiscalYears...),
	}
}
