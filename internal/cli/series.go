package cli

import (
	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"laborfetcher/internal/bls"
)

func newSeriesCommand(global *globalOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "series",
		Short: "List the series that fetch collects",
		Long: `List the configured series with their names. With --all, or when no
series are configured, list every series with a known name instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}

			series := bls.Describe(cfg.SeriesIDs)
			if all || len(series) == 0 {
				series = bls.Catalog()
			}

			t := &table{headers: []string{"Series ID", "Name"}}
			for _, s := range series {
				name := s.Name
				if name == s.ID {
					name = color.Gray.Sprint("(not in catalog)")
				}
				t.add(s.ID, name)
			}
			t.render(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every known series instead of the configured ones")
	return cmd
}
