package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pricehawk/config"
	"pricehawk/internal/api"
	"pricehawk/internal/database"
	"pricehawk/internal/monitor"
	"pricehawk/internal/notifier"
	"pricehawk/internal/scraper"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("can't load configuration")
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("can't open database")
	}
	defer db.Close()

	sc := scraper.New(cfg.HTTPTimeout)
	not := notifier.New(db, cfg.ExpoPushURL, logger)
	mon := monitor.New(db, sc, not, cfg.RequestDelay, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.CheckSchedule, func() { mon.RunCycle(ctx) }); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.CheckSchedule).Msg("can't register price check schedule")
	}
	sched.Start()
	logger.Info().Str("schedule", cfg.CheckSchedule).Msg("scheduler started")

	handler := api.NewHandler(db, sc, mon, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler.Routes(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Int("port", cfg.Port).Msg("pricehawk backend up and running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		termChan := make(chan os.Signal, 1)
		signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-termChan:
		case <-gctx.Done():
		}

		logger.Info().Msg("graceful shutdown start")
		// wait for an in-flight sweep to finish before closing the server
		<-sched.Stop().Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped with error")
	}
	logger.Info().Msg("graceful shutdown successful")
}
