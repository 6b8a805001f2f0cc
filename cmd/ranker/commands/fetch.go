package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/momentum-ranker/internal/pricedata"
	"github.com/wonny/momentum-ranker/pkg/config"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [tickers...]",
	Short: "Store daily closes in Postgres",
	Long: `Fetches daily closes from a remote provider and upserts them into
market.daily_closes, so later runs can use PROVIDER=database.

Requires DATABASE_URL. The schema is created on first use.

Example:
  go run ./cmd/ranker fetch PETR4 VALE3
  go run ./cmd/ranker fetch --universe ibov_core --source yahoo
  go run ./cmd/ranker fetch --universe krx_large --source naver`,
	RunE: runFetch,
}

var (
	fetchUniverse string
	fetchSource   string
	fetchWorkers  int
	fetchStats    bool
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	// Flags
	fetchCmd.Flags().StringVarP(&fetchUniverse, "universe", "u", "", "named universe to fetch")
	fetchCmd.Flags().StringVar(&fetchSource, "source", "", "remote provider: yahoo|naver (default: PROVIDER, yahoo for database)")
	fetchCmd.Flags().IntVar(&fetchWorkers, "workers", 4, "concurrent save workers")
	fetchCmd.Flags().BoolVar(&fetchStats, "stats", false, "print stored coverage per ticker afterwards")
}

func runFetch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, err := newApp(dbRequired)
	if err != nil {
		return err
	}
	defer a.Close()

	source := fetchSource
	if source == "" {
		source = a.upstreamName()
	}
	if source == config.ProviderDatabase {
		return fmt.Errorf("--source must be a remote provider, not %s", source)
	}

	tickers, list, err := a.resolveTickers(args, fetchUniverse)
	if err != nil {
		return err
	}

	upstream, err := a.buildProvider(source, list, false)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo := pricedata.NewRepository(a.db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	PrintHeader(out, "Price Collection", [][2]string{
		{"Source", upstream.Name()},
		{"Tickers", fmt.Sprintf("%d", len(tickers))},
		{"Workers", fmt.Sprintf("%d", fetchWorkers)},
	})

	startTime := time.Now()
	col := pricedata.NewCollector(upstream, repo, a.log)
	summary, err := col.Collect(ctx, tickers, pricedata.Config{Workers: fetchWorkers})
	if err != nil {
		return err
	}

	PrintKeyValue(out, "Requested", fmt.Sprintf("%d", summary.Requested), 9)
	PrintKeyValue(out, "Saved", fmt.Sprintf("%d", summary.Saved), 9)
	PrintKeyValue(out, "Failed", fmt.Sprintf("%d", summary.Failed), 9)
	PrintKeyValue(out, "Missing", fmt.Sprintf("%d", len(summary.Missing)), 9)
	PrintList(out, wrapTickers(summary.Missing, 10))

	for _, r := range summary.Results {
		if r.Error != nil {
			PrintList(out, []string{fmt.Sprintf("%s: %v", r.Ticker, r.Error)})
		}
	}

	if fetchStats {
		if err := printStoreStats(cmd, repo); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d tickers failed to save", summary.Failed, summary.Saved+summary.Failed)
	}
	PrintSuccess(out, fmt.Sprintf("Collection completed in %.2fs", time.Since(startTime).Seconds()))
	return nil
}

func printStoreStats(cmd *cobra.Command, repo *pricedata.Repository) error {
	out := cmd.OutOrStdout()

	stats, err := repo.Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	widths := []int{8, 6, 10, 10}
	PrintTableHeader(out, []string{"Ticker", "Points", "First", "Last"}, widths)
	for _, s := range stats {
		PrintTableRow(out, []string{
			s.Ticker,
			fmt.Sprintf("%d", s.Points),
			s.First.Format("2006-01-02"),
			s.Last.Format("2006-01-02"),
		}, widths)
	}
	return nil
}
