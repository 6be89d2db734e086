package cli

import (
	"fmt"
	"strconv"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"laborfetcher/internal/analysis"
	"laborfetcher/internal/bls"
	"laborfetcher/internal/store"
)

const defaultSummarySeries = "LNS14000000"

type summaryOptions struct {
	seriesID string
	fromYear int
	toYear   int
}

func newSummaryCommand(global *globalOptions) *cobra.Command {
	opts := &summaryOptions{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show statistics for one series from the data file",
		Long: `Reads the CSV data file and prints summary statistics and yearly totals
for one series over an inclusive year range. The data file is never modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, global, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.seriesID, "series", "s", defaultSummarySeries, "Series ID to summarize")
	flags.IntVar(&opts.fromYear, "from", 0, "First year (default earliest in file)")
	flags.IntVar(&opts.toYear, "to", 0, "Last year (default latest in file)")

	return cmd
}

func runSummary(cmd *cobra.Command, global *globalOptions, opts *summaryOptions) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}

	set, err := store.New(cfg.DataFile).Load()
	if err != nil {
		return fmt.Errorf("cannot read data file: %w", err)
	}

	series := analysis.Filter(set, analysis.Query{SeriesID: opts.seriesID})
	minYear, maxYear, ok := analysis.YearRange(series)
	if !ok {
		return fmt.Errorf("no observations for series %s in %s", opts.seriesID, cfg.DataFile)
	}

	query := analysis.Query{SeriesID: opts.seriesID, FromYear: minYear, ToYear: maxYear}
	if opts.fromYear != 0 {
		query.FromYear = opts.fromYear
	}
	if opts.toYear != 0 {
		query.ToYear = opts.toYear
	}
	if query.ToYear < query.FromYear {
		return fmt.Errorf("--to %d is before --from %d", query.ToYear, query.FromYear)
	}

	selected := analysis.Filter(series, query)
	summary := analysis.Summarize(selected)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s), %d to %d\n\n",
		color.Bold.Sprint(bls.SeriesName(opts.seriesID)), opts.seriesID, query.FromYear, query.ToYear)

	stats := &table{headers: []string{"Statistic", "Value"}}
	stats.add("Observations", strconv.Itoa(summary.Count))
	if summary.Skipped > 0 {
		stats.add("Non-numeric", strconv.Itoa(summary.Skipped))
	}
	stats.add("Minimum", formatNumber(summary.Min))
	stats.add("Maximum", formatNumber(summary.Max))
	stats.add("Mean", formatNumber(summary.Mean))
	stats.add("Median", formatNumber(summary.Median))
	stats.add("Standard Deviation", formatNumber(summary.StdDev))
	stats.add("Total Sum", formatNumber(summary.Sum))
	stats.render(out)

	fmt.Fprintln(out)

	yearly := &table{headers: []string{"Year", "Total", "Observations"}}
	for _, yt := range analysis.YearlyTotals(selected) {
		yearly.add(strconv.Itoa(yt.Year), formatNumber(yt.Total), strconv.Itoa(yt.Count))
	}
	yearly.render(out)

	return nil
}
