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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/labwatch/internal/adapters/http"
	"github.com/dkeye/labwatch/internal/app"
	"github.com/dkeye/labwatch/internal/app/orch"
	"github.com/dkeye/labwatch/internal/app/store"
	"github.com/dkeye/labwatch/internal/config"
	"github.com/dkeye/labwatch/internal/metrics"
	"github.com/dkeye/labwatch/internal/monitoring"
)

func setupLogger(format, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	setLogLevel(level)
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// config.Load logs, so the logger needs a sane default first.
	setupLogger("console", "info")

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg.LogFormat, cfg.LogLevel)
	cfg.Watch(func(next *config.Config) {
		if next.LogLevel != zerolog.GlobalLevel().String() {
			log.Info().Str("level", next.LogLevel).Msg("log level changed")
			setLogLevel(next.LogLevel)
		}
	})

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(promReg)

	reg := app.NewRegistry()
	sessions := store.NewMemory(store.WithRetention(cfg.SessionRetention))
	o := orch.New(reg, app.NewRouter(reg, app.SimplePolicy{}, m), sessions, store.NewLabs(), m)

	r := router.SetupRouter(ctx, cfg, o)
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var mon *monitoring.Monitoring
	if cfg.Monitoring.Enabled() {
		mon = monitoring.New(cfg.Monitoring, promReg)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("labwatch server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if mon != nil {
		g.Go(mon.Run)
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if mon != nil {
			if err := mon.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		os.Exit(1)
	}
	log.Info().Msg("Server exited gracefully")
}
