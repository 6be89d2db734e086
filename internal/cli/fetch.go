package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"laborfetcher/internal/bls"
	"laborfetcher/internal/coordinator"
	"laborfetcher/internal/fetcher"
	"laborfetcher/internal/ratelimit"
	"laborfetcher/internal/store"
)

type fetchOptions struct {
	seriesIDs   []string
	startYear   int
	endYear     int
	mergePolicy string
	atomicWrite bool
}

func newFetchCommand(global *globalOptions) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch series from the BLS API and merge them into the data file",
		Long: `Fetches every configured series from the start year through the current
year and merges the observations into the CSV data file.

A missing or unreadable data file is replaced by the fetched data. Otherwise
existing rows are kept, new rows are appended and exact duplicates dropped.
Nothing is written when the fetch fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, global, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&opts.seriesIDs, "series", "s", nil, "Series IDs to fetch (overrides config)")
	flags.IntVar(&opts.startYear, "start-year", 0, "First year to fetch (overrides config)")
	flags.IntVar(&opts.endYear, "end-year", 0, "Last year to fetch (default current year)")
	flags.StringVar(&opts.mergePolicy, "merge-policy", "", "Duplicate policy: exact or latest (overrides config)")
	flags.BoolVar(&opts.atomicWrite, "atomic", false, "Write through a temp file and rename")

	return cmd
}

func runFetch(cmd *cobra.Command, global *globalOptions, opts *fetchOptions) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}

	if len(opts.seriesIDs) > 0 {
		cfg.SeriesIDs = opts.seriesIDs
	}
	if opts.startYear != 0 {
		cfg.StartYear = opts.startYear
	}
	if opts.endYear != 0 {
		cfg.EndYear = opts.endYear
	}
	if opts.mergePolicy != "" {
		cfg.MergePolicy = opts.mergePolicy
	}
	if opts.atomicWrite {
		cfg.AtomicWrite = true
	}

	// Configuration problems stop the run before any network or file access.
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	client := fetcher.NewHTTPClient(cfg.BaseURL, fetcher.ClientOptions{
		Timeout:    cfg.HTTPTimeout,
		RetryCount: cfg.HTTPRetryCount,
		Logger:     log,
	})

	source := bls.NewTimeseriesFetcher(cfg.APIKey, cfg.SeriesIDs, cfg.BaseURL,
		bls.WithClient(client),
		bls.WithYears(cfg.StartYear, cfg.EndYear),
		bls.WithLimiter(ratelimit.New(cfg.RequestsPerSecond, 1)),
		bls.WithLogger(log),
	)

	dest := store.New(cfg.DataFile,
		store.WithPolicy(cfg.Policy()),
		store.WithAtomicWrite(cfg.AtomicWrite),
		store.WithLogger(log),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := coordinator.New(source, dest, log).Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Fetched %s observations from %s\n", color.Cyan.Sprint(report.Fetched), report.Source)
	if report.Merge.Bootstrapped {
		fmt.Fprintf(out, "Created %s with %s rows\n", dest.Path(), color.Green.Sprint(report.Merge.Written))
	} else {
		fmt.Fprintf(out, "Merged into %s: %s rows (%d existing, %d duplicates dropped)\n",
			dest.Path(), color.Green.Sprint(report.Merge.Written), report.Merge.Existing, report.Merge.Dropped)
	}

	return nil
}
