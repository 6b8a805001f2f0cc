package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/momentum-ranker/internal/contracts"
	"github.com/wonny/momentum-ranker/internal/export"
	"github.com/wonny/momentum-ranker/internal/momentum"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank [tickers...]",
	Short: "Rank tickers or a universe by momentum",
	Long: `Fetches daily closes, scores each instrument and prints the ranking.

Tickers may be given as arguments (space, comma or semicolon separated).
Without arguments the --universe list (default: UNIVERSE_NAME) is ranked.
Instruments with fewer than 253 closes are skipped and listed with --details.

Example:
  go run ./cmd/ranker rank PETR4 VALE3 ITUB4
  go run ./cmd/ranker rank --universe ibov_core --top 10 --links
  go run ./cmd/ranker rank --csv momentum.csv`,
	RunE: runRank,
}

var (
	rankUniverse string
	rankTop      int
	rankCSV      string
	rankLinks    bool
	rankDetails  bool
	rankTimeout  time.Duration
	rankWorkers  int
)

func init() {
	rootCmd.AddCommand(rankCmd)

	// Flags
	rankCmd.Flags().StringVarP(&rankUniverse, "universe", "u", "", "named universe to rank")
	rankCmd.Flags().IntVarP(&rankTop, "top", "n", 0, "show only the first N rows (0 = all)")
	rankCmd.Flags().StringVar(&rankCSV, "csv", "", "also write the full ranking to this CSV file")
	rankCmd.Flags().BoolVar(&rankLinks, "links", false, "print chart and fundamentals links")
	rankCmd.Flags().BoolVar(&rankDetails, "details", false, "list skipped and missing tickers")
	rankCmd.Flags().DurationVar(&rankTimeout, "timeout", 0, "price fetch timeout (default: PROVIDER_TIMEOUT)")
	rankCmd.Flags().IntVar(&rankWorkers, "workers", 0, "parallel scoring workers (default: GOMAXPROCS)")
}

func runRank(cmd *cobra.Command, args []string) error {
	if rankTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}

	a, err := newApp(dbIfConfigured)
	if err != nil {
		return err
	}
	defer a.Close()

	tickers, list, err := a.resolveTickers(args, rankUniverse)
	if err != nil {
		return err
	}

	provider, err := a.buildProvider("", list, true)
	if err != nil {
		return err
	}

	timeout := a.cfg.Provider.Timeout
	if rankTimeout > 0 {
		timeout = rankTimeout
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	source := "arguments"
	exchange := export.DefaultChartExchange
	if list != nil {
		source = list.Name
		if list.ChartExchange != "" {
			exchange = list.ChartExchange
		}
	}
	PrintHeader(out, "Momentum Ranking", [][2]string{
		{"Universe", source},
		{"Tickers", fmt.Sprintf("%d", len(tickers))},
		{"Provider", provider.Name()},
		{"As of", time.Now().Format("2006-01-02 15:04")},
	})

	engine := momentum.NewEngine(a.log, momentum.WithWorkers(rankWorkers))
	rs, err := engine.Run(ctx, provider, tickers, timeout)
	if err != nil {
		return fmt.Errorf("rank: %w", err)
	}

	return printRanking(out, rs, rankOutput{
		table: export.TableOptions{
			Top:      rankTop,
			Links:    rankLinks,
			Exchange: exchange,
			Details:  rankDetails,
		},
		csvPath: rankCSV,
	})
}

// rankOutput selects where a result set is written
type rankOutput struct {
	table   export.TableOptions
	csvPath string
}

func printRanking(out io.Writer, rs *contracts.RankingResultSet, opts rankOutput) error {
	if rs.IsEmpty() {
		PrintWarning(out, "No instrument had enough price history to rank")
	}

	if err := export.WriteTable(out, rs, opts.table); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	if opts.csvPath == "" {
		return nil
	}

	f, err := os.Create(opts.csvPath)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := export.WriteCSV(f, rs); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}

	fmt.Fprintln(out)
	PrintSuccess(out, fmt.Sprintf("Wrote %d rows to %s", rs.Len(), opts.csvPath))
	return nil
}
