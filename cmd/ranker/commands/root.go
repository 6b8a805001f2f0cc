package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	universeFile string
	providerName string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ranker",
	Short: "Momentum ranker - relative strength ratings for equity universes",
	Long: `Momentum Ranker CLI

Scores every instrument by weighted 63/126/189/252-day returns,
converts the scores to 0-100 percentile ratings and ranks the universe.

Usage:
  go run ./cmd/ranker [command]

Examples:
  go run ./cmd/ranker rank PETR4 VALE3 ITUB4
  go run ./cmd/ranker rank --universe ibov_core --top 10 --links
  go run ./cmd/ranker serve
  go run ./cmd/ranker fetch --universe ibov_core
  go run ./cmd/ranker scheduler start`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&universeFile, "universe-file", "", "universe YAML file (default: UNIVERSE_FILE or built-in list)")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "", "price provider: yahoo|naver|database (default: PROVIDER)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
