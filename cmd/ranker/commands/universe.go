package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/momentum-ranker/internal/ticker"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Inspect named ticker lists",
	Long: `Shows the ticker lists from UNIVERSE_FILE (or the built-in B3 list).

Example:
  go run ./cmd/ranker universe list
  go run ./cmd/ranker universe show ibov_core`,
}

var (
	universeListCmd = &cobra.Command{
		Use:   "list",
		Short: "List universes",
		Args:  cobra.NoArgs,
		RunE:  listUniverses,
	}

	universeShowCmd = &cobra.Command{
		Use:   "show [name]",
		Short: "Show a universe's tickers",
		Args:  cobra.ExactArgs(1),
		RunE:  showUniverse,
	}
)

func init() {
	rootCmd.AddCommand(universeCmd)
	universeCmd.AddCommand(universeListCmd)
	universeCmd.AddCommand(universeShowCmd)
}

func listUniverses(cmd *cobra.Command, args []string) error {
	a, err := newApp(dbIfConfigured)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	widths := []int{16, 8, 7, 30}
	PrintTableHeader(out, []string{"Name", "Suffix", "Tickers", "Description"}, widths)
	for _, name := range a.universes.Names() {
		l, _ := a.universes.List(name)
		suffix := l.ExchangeSuffix
		if suffix == "" {
			suffix = "-"
		}
		PrintTableRow(out, []string{
			l.Name,
			suffix,
			fmt.Sprintf("%d", len(ticker.Normalize(l.Tickers))),
			l.Description,
		}, widths)
	}
	return nil
}

func showUniverse(cmd *cobra.Command, args []string) error {
	a, err := newApp(dbIfConfigured)
	if err != nil {
		return err
	}
	defer a.Close()

	tickers, list, err := a.resolveTickers(nil, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	PrintHeader(out, list.Name, [][2]string{
		{"Suffix", list.ExchangeSuffix},
		{"Exchange", list.ChartExchange},
		{"Tickers", fmt.Sprintf("%d", len(tickers))},
	})
	PrintList(out, wrapTickers(tickers, 10))
	return nil
}
