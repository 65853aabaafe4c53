// Command annscreen loads SEC annual-fact exports, reconciles them into
// canonical per-entity series, and screens them against configurable
// multi-year criteria.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/annscreen/internal/app"
	"github.com/bobmcallan/annscreen/internal/common"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "annscreen",
		Short:         "Annual filing reconciliation and screening",
		Long:          "annscreen reconciles conflicting SEC annual filings into canonical per-company series and screens them against multi-year financial-health criteria.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to annscreen.toml")

	rootCmd.AddCommand(
		newLoadCmd(),
		newMapCmd(),
		newScreenCmd(),
		newPeriodsCmd(),
		newRunsCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp initializes the application core for one command invocation.
func newApp() (*app.App, error) {
	return app.NewApp(configPath)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("annscreen %s (build %s, commit %s)\n",
				common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		},
	}
}
