package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/deusflow/cyberdigest/internal/ai"
	"github.com/deusflow/cyberdigest/internal/app"
	"github.com/deusflow/cyberdigest/internal/config"
	"github.com/deusflow/cyberdigest/internal/logger"
	"github.com/deusflow/cyberdigest/internal/metrics"
	"github.com/deusflow/cyberdigest/internal/monitor"
	"github.com/deusflow/cyberdigest/internal/scheduler"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger.Init(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// A run in progress finishes before shutdown; a second signal kills the process.
		<-ctx.Done()
		stop()
	}()

	completer, closeAI, err := ai.NewCompleter(ctx, cfg)
	if err != nil {
		logger.Error("AI client unavailable, summaries will use placeholders", "err", err)
	}
	defer closeAI()

	a := app.New(cfg, completer)

	s, err := scheduler.New(cfg.ScheduleTime, a.RunOnce)
	if err != nil {
		log.Fatalf("scheduler error: %v", err)
	}

	if cfg.EnableMonitoring {
		go startMonitoringServer(cfg.MonitoringPort, s)
	}

	logger.Info("starting agent", "schedule", cfg.ScheduleTime, "feeds", len(cfg.Feeds), "ai_provider", cfg.AIProvider)
	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler stopped", "err", err)
	}
	logger.Info("shutting down")
}

func startMonitoringServer(port string, s *scheduler.Scheduler) {
	r := monitor.NewRouter(metrics.Global, func() string { return s.State().String() })

	logger.Info("starting monitoring server", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Error("monitoring server error", "err", err)
	}
}
