package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/momentum-ranker/internal/api"
	"github.com/wonny/momentum-ranker/internal/api/handlers"
	"github.com/wonny/momentum-ranker/internal/momentum"
	"github.com/wonny/momentum-ranker/internal/scheduler"
	"github.com/wonny/momentum-ranker/internal/scheduler/jobs"
	"github.com/wonny/momentum-ranker/internal/universe"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ranking API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                       - Health check
  GET  /api/ranking                  - Rank ?tickers=A,B or ?universe=NAME (&top=N&format=csv)
  GET  /api/ranking/{ticker}         - One ticker's row within its universe
  GET  /api/universes                - Universe names
  GET  /api/universes/{name}         - Universe tickers

Example:
  go run ./cmd/ranker serve
  go run ./cmd/ranker serve --port 8080`,
	RunE: runServe,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (default: PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, err := newApp(dbIfConfigured)
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if servePort != "" {
		a.cfg.Port = servePort
	}

	a.log.WithFields(map[string]interface{}{
		"port":     a.cfg.Port,
		"env":      a.cfg.Env,
		"provider": a.cfg.Provider.Name,
		"universe": a.cfg.Universe.Name,
	}).Info("Initializing API server")

	// Lookup suffix follows the default universe when it exists
	var defaultList *universe.List
	if l, err := a.universes.List(a.cfg.Universe.Name); err == nil {
		defaultList = l
	}

	memCache := a.enableMemoryCache()
	provider, err := a.buildProvider("", defaultList, true)
	if err != nil {
		return err
	}

	// Expired series are swept in the background when caching in memory
	if memCache != nil {
		sweeper := scheduler.New(a.log)
		if err := sweeper.AddJob(jobs.NewCacheCleanupJob(memCache, a.log)); err != nil {
			return err
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	engine := momentum.NewEngine(a.log)
	rankingHandler := handlers.NewRankingHandler(engine, provider, a.universes, a.cfg.Universe.Name, a.cfg.Provider.Timeout, a.log)
	universeHandler := handlers.NewUniverseHandler(a.universes)

	router := api.NewRouter(rankingHandler, universeHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	// Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	PrintSuccess(out, fmt.Sprintf("Server running on http://localhost:%s", a.cfg.Port))
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	a.log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
