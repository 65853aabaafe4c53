package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/annscreen/internal/common"
	"github.com/bobmcallan/annscreen/internal/loader"
	"github.com/bobmcallan/annscreen/internal/models"
)

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <facts.tsv>",
		Short: "Load a tab-separated annual facts export",
		Long:  "Parses a flattened SEC numeric-fact export (cik, tag, ddate, fy, fp, form, filed, uom, value), reconciles conflicting filings, and stores one canonical series per company.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			factLoader := loader.NewFactLoader(a.Logger)
			observations, skipped, err := factLoader.LoadFile(args[0])
			if err != nil {
				return err
			}

			summary, err := a.ScreenService.LoadFacts(cmd.Context(), observations)
			if err != nil {
				return err
			}

			fmt.Printf("Loaded %d entities (%d periods) from %d observations; %d rows skipped, %d observations discarded\n",
				summary.Entities, summary.Periods, summary.Observations, skipped, summary.Discarded)
			return nil
		},
	}
}

func newMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map <mappings.csv>",
		Short: "Load company ticker and name mappings",
		Long:  "Parses a cik, ticker, name file. Mappings decorate screen output; companies without one still screen and display the '-' sentinel.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			mappingLoader := loader.NewMappingLoader(a.Logger)
			infos, err := mappingLoader.LoadFile(args[0])
			if err != nil {
				return err
			}

			count, err := a.MappingService.LoadMappings(cmd.Context(), infos)
			if err != nil {
				return err
			}

			fmt.Printf("Loaded %d mappings\n", count)
			return nil
		},
	}
}

func newScreenCmd() *cobra.Command {
	var (
		csvPath      string
		showRejected bool
		horizon      int
		anchor       string
		anchorYear   int
	)

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Screen all stored companies against the configured rule set",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			common.PrintBanner(a.Config, a.Logger)

			rules, err := a.Config.Screen.RuleSet()
			if err != nil {
				return err
			}
			if horizon > 0 {
				rules.Horizon = horizon
			}
			if anchor != "" {
				rules.Anchor = models.AnchorPolicy(anchor)
			}
			if anchorYear > 0 {
				rules.AnchorYear = anchorYear
			}

			run, err := a.ScreenService.Run(cmd.Context(), rules)
			if err != nil {
				return err
			}

			renderRun(cmd.OutOrStdout(), run, showRejected)

			if csvPath != "" {
				if err := exportRunCSV(csvPath, run); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", csvPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "export candidates to a CSV file")
	cmd.Flags().BoolVar(&showRejected, "rejected", false, "also list companies that failed the screen")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "override the configured window length")
	cmd.Flags().StringVar(&anchor, "anchor", "", "override the anchor policy (global|per_entity)")
	cmd.Flags().IntVar(&anchorYear, "anchor-year", 0, "pin the global anchor to a fiscal year")
	return cmd
}

func newPeriodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "periods <entity-id>",
		Short: "Show the canonical annual series for one company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid entity id %q", args[0])
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			series, err := a.ScreenService.GetSeries(cmd.Context(), entityID)
			if err != nil {
				return err
			}

			info := a.MappingService.Resolve(cmd.Context(), entityID)
			renderSeries(cmd.OutOrStdout(), series, info)
			return nil
		},
	}
}

func newRunsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List stored screen runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			runs, err := a.Storage.ScreenRunStore().ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			renderRunList(cmd.OutOrStdout(), runs)
			return nil
		},
	}
}
