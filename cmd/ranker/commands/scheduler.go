package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/momentum-ranker/internal/momentum"
	"github.com/wonny/momentum-ranker/internal/pricedata"
	"github.com/wonny/momentum-ranker/internal/scheduler"
	"github.com/wonny/momentum-ranker/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Scheduled price refresh and ranking",
	Long: `Runs cron jobs over the UNIVERSE_NAME list.

Jobs:
  price_refresh     - SCHEDULE_PRICE_REFRESH, stores closes (needs DATABASE_URL)
  momentum_ranking  - SCHEDULE_RANKING, ranks and logs the top SCHEDULE_TOP_N
  cache_cleanup     - every 30 minutes, when caching in memory (REDIS_ENABLED=false)

Subcommands:
  start   - start the scheduler daemon
  list    - registered jobs and their next run
  run     - run one job now and wait for it

Example:
  go run ./cmd/ranker scheduler start
  go run ./cmd/ranker scheduler start --run-now
  go run ./cmd/ranker scheduler run momentum_ranking`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

var (
	schedulerRunNow bool
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerStartCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "run every job once at startup")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, err := newApp(dbIfConfigured)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := initScheduler(ctx, a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	if schedulerRunNow {
		for _, name := range sched.GetAllJobs() {
			result, err := sched.RunJob(ctx, name)
			if err != nil {
				return err
			}
			printJobResult(out, result)
		}
	}

	sched.Start()

	PrintSuccess(out, "Scheduler started")
	printJobs(out, sched)
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	<-ctx.Done()

	fmt.Fprintln(out, "\nShutting down scheduler...")
	sched.Stop()
	fmt.Fprintln(out, "Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp(dbIfConfigured)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := initScheduler(cmd.Context(), a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	printJobs(cmd.OutOrStdout(), sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]
	out := cmd.OutOrStdout()

	a, err := newApp(dbIfConfigured)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := initScheduler(ctx, a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Fprintf(out, "Running job: %s\n", jobName)
	result, err := sched.RunJob(ctx, jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	printJobResult(out, result)
	if !result.Success {
		return fmt.Errorf("job %s failed: %s", jobName, result.Error)
	}
	return nil
}

// initScheduler registers the ranking job, and the price refresh job when Postgres is configured
func initScheduler(ctx context.Context, a *app) (*scheduler.Scheduler, error) {
	tickers, list, err := a.resolveTickers(nil, "")
	if err != nil {
		return nil, err
	}

	sched := scheduler.New(a.log)

	if memCache := a.enableMemoryCache(); memCache != nil {
		if err := sched.AddJob(jobs.NewCacheCleanupJob(memCache, a.log)); err != nil {
			return nil, err
		}
	}

	provider, err := a.buildProvider("", list, true)
	if err != nil {
		return nil, err
	}
	engine := momentum.NewEngine(a.log)
	rankingJob := jobs.NewRankingJob(engine, provider, tickers, a.cfg.Schedule.Ranking, a.cfg.Schedule.TopN, a.cfg.Provider.Timeout, a.log)
	if err := sched.AddJob(rankingJob); err != nil {
		return nil, err
	}

	if a.db == nil {
		a.log.Info("DATABASE_URL not set, price_refresh job disabled")
		return sched, nil
	}

	upstream, err := a.buildProvider(a.upstreamName(), list, false)
	if err != nil {
		return nil, err
	}
	repo := pricedata.NewRepository(a.db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	col := pricedata.NewCollector(upstream, repo, a.log)
	refreshJob := jobs.NewPriceRefreshJob(col, tickers, a.cfg.Schedule.PriceRefresh, a.cfg.Provider.Concurrency, a.log)
	if err := sched.AddJob(refreshJob); err != nil {
		return nil, err
	}

	return sched, nil
}

func printJobs(out io.Writer, sched *scheduler.Scheduler) {
	fmt.Fprintln(out, "\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		next := "-"
		if t, ok := sched.NextRun(jobName); ok && !t.IsZero() {
			next = t.Format("2006-01-02 15:04:05")
		}
		PrintKeyValue(out, jobName, "next run "+next, 16)
	}
}

func printJobResult(out io.Writer, result scheduler.JobResult) {
	status := "ok"
	if !result.Success {
		status = "failed: " + result.Error
	}
	PrintKeyValue(out, result.JobName, fmt.Sprintf("%s (%.2fs)", status, result.Duration.Seconds()), 16)
}
