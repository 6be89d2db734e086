// Package cli wires configuration, logging, fetching and storage into the
// laborfetcher command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"laborfetcher/internal/config"
	"laborfetcher/internal/logger"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// globalOptions are persistent flags that override file and environment values.
type globalOptions struct {
	configFile string
	logLevel   string
	logFormat  string
	dataFile   string
	noColor    bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "laborfetcher",
		Short: "Collect BLS labor statistics into a CSV file",
		Long: `Fetches labor-statistics time series from the Bureau of Labor Statistics
public API and merges them into a local CSV file without duplicating rows.

The API key is read from BLS_API_KEY. Other settings come from config.yaml
(working directory or $HOME/.laborfetcher), BLS_* environment variables
or flags.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.Disable()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Path to configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Override log format (json, text)")
	flags.StringVarP(&opts.dataFile, "data-file", "f", "", "Override the CSV data file path")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newFetchCommand(opts),
		newSummaryCommand(opts),
		newSeriesCommand(opts),
		newVersionCommand(),
	)

	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprint("Error: ")+err.Error())
		os.Exit(1)
	}
}

// loadConfig reads configuration and applies flag overrides.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	if o.dataFile != "" {
		cfg.DataFile = o.dataFile
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})
}
