package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/huyng1801/restobot/internal/api"
	"github.com/huyng1801/restobot/internal/bot"
	"github.com/huyng1801/restobot/internal/config"
	"github.com/huyng1801/restobot/internal/database"
	"github.com/huyng1801/restobot/internal/hours"
	"github.com/huyng1801/restobot/internal/monitoring"
	"github.com/huyng1801/restobot/internal/seating"
	"github.com/huyng1801/restobot/internal/store"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *metricsPort != 0 {
		cfg.MetricsPort = *metricsPort
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	database.Seed(db)

	policy := cfg.SeatingPolicy()
	st := store.New(db)
	reconciler := seating.NewReconciler(st, policy)
	checker := seating.NewConflictChecker(st, policy)
	tracker := seating.NewArrivalTracker(st, reconciler, policy)
	schedule := hours.DefaultSchedule()

	metrics := monitoring.NewMetricsCollector()
	reconciler.Subscribe(metrics.ObserveTransition)

	assistant, err := initializeAssistant(cfg, checker, st, schedule)
	if err != nil {
		log.Fatalf("Failed to initialize assistant: %v", err)
	}

	server := api.NewServer(st, checker, reconciler, tracker, policy, schedule, metrics, assistant)

	go startMetricsServer(cfg.MetricsPort, metrics)
	go runSweeps(ctx, cfg, reconciler, tracker, metrics)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: server.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
		cancel()
	}()

	log.Printf("Starting API server on port %d", cfg.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

// initializeAssistant builds the conversational assistant when enabled
func initializeAssistant(cfg *config.Config, checker *seating.ConflictChecker, st *store.Store, schedule *hours.Schedule) (*bot.Assistant, error) {
	if !cfg.Bot.Enabled {
		return nil, nil
	}
	llm, err := openai.New(
		openai.WithModel(cfg.Bot.Model),
		openai.WithToken(cfg.Bot.OpenAIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}
	return bot.NewAssistant(llm, checker, st, schedule), nil
}

// runSweeps drives the periodic resync and no-show scans. The core does not
// schedule itself; these tickers are the external trigger.
func runSweeps(ctx context.Context, cfg *config.Config, reconciler *seating.Reconciler, tracker *seating.ArrivalTracker, metrics *monitoring.MetricsCollector) {
	var resync, noShow <-chan time.Time
	if cfg.Sweep.ResyncIntervalMinutes > 0 {
		t := time.NewTicker(time.Duration(cfg.Sweep.ResyncIntervalMinutes) * time.Minute)
		defer t.Stop()
		resync = t.C
	}
	if cfg.Sweep.NoShowIntervalMinutes > 0 {
		t := time.NewTicker(time.Duration(cfg.Sweep.NoShowIntervalMinutes) * time.Minute)
		defer t.Stop()
		noShow = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-resync:
			updated, err := reconciler.ResyncAll(ctx)
			if err != nil {
				log.Printf("Periodic resync failed: %v", err)
				continue
			}
			metrics.ObserveResync(len(updated))
			if summary, err := reconciler.StatusSummary(ctx); err == nil {
				metrics.SetStatusSummary(summary)
			}
		case <-noShow:
			marked, err := tracker.ScanNoShows(ctx, 0)
			if err != nil {
				log.Printf("No-show scan failed: %v", err)
				continue
			}
			metrics.ObserveNoShows(len(marked))
		}
	}
}

// startMetricsServer serves the Prometheus endpoint
func startMetricsServer(port int, metrics *monitoring.MetricsCollector) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
