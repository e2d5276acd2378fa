package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/meli-pricer/internal/api/handlers"
	mw "github.com/donaldgifford/meli-pricer/internal/api/middleware"
	"github.com/donaldgifford/meli-pricer/internal/config"
	"github.com/donaldgifford/meli-pricer/internal/engine"
	"github.com/donaldgifford/meli-pricer/internal/shipping"
	"github.com/donaldgifford/meli-pricer/internal/store"
	"github.com/donaldgifford/meli-pricer/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(logLevel(cfg.Logging.Level), cfg.Logging.Format)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	ev := shipping.NewEvaluator(cfg.Pricing.EligibleShipping...)
	eng := engine.NewEngine(st,
		engine.WithLogger(log),
		engine.WithShippingEvaluator(ev),
	)

	sched, err := engine.NewScheduler(st, cfg.Jobs.PruneInterval, cfg.Jobs.Retention, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(mw.Recovery(log))
	e.Use(mw.RequestLog(log))
	e.Use(mw.Metrics())

	healthH := handlers.NewHealthHandler(st)
	e.GET("/healthz", healthH.Healthz)
	e.GET("/readyz", healthH.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("meli-pricer", Version))
	handlers.RegisterPriceRoutes(api, handlers.NewPriceHandler())
	handlers.RegisterRunRoutes(api, handlers.NewRunsHandler(
		eng,
		cfg.Pricing.Options(),
		cfg.Server.RunsPerMinute,
		cfg.Server.RunsBurst,
	))
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(st))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "database", cfg.Database.Enabled())

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	<-sched.Stop().Done()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// openStore selects the Postgres store when a database is configured and
// the in-memory noop store otherwise. Migrations run on startup; they
// are forward-only and idempotent.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (store.Store, error) {
	if !cfg.Database.Enabled() {
		log.Info("no database configured, using in-memory job-run store")
		return store.NewNoop(log), nil
	}

	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN(), cfg.Database.PoolSize, log)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return pg, nil
}
