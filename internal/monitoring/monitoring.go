// Package monitoring serves Prometheus metrics and pprof on a port of its own.
package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/config"
)

type Monitoring struct {
	conf   config.Monitoring
	server *http.Server
}

func New(conf config.Monitoring, gatherer prometheus.Gatherer) *Monitoring {
	return &Monitoring{
		conf: conf,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", conf.Port),
			Handler:           Handler(conf, gatherer),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func Handler(conf config.Monitoring, gatherer prometheus.Gatherer) http.Handler {
	h := http.NewServeMux()

	if conf.ProfilingEnabled {
		prefix := conf.URLPrefix + "/debug/pprof"
		log.Info().Str("module", "monitoring").Str("path", prefix).Msg("profiling enabled")
		h.HandleFunc(prefix+"/", pprof.Index)
		h.HandleFunc(prefix+"/cmdline", pprof.Cmdline)
		h.HandleFunc(prefix+"/profile", pprof.Profile)
		h.HandleFunc(prefix+"/symbol", pprof.Symbol)
		h.HandleFunc(prefix+"/trace", pprof.Trace)
		// named profiles are not reachable through Index under a custom prefix
		for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
			h.Handle(prefix+"/"+name, pprof.Handler(name))
		}
	}

	if conf.MetricEnabled {
		path := conf.URLPrefix + "/metrics"
		log.Info().Str("module", "monitoring").Str("path", path).Msg("metrics enabled")
		h.Handle(path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return h
}

func (m *Monitoring) Run() error {
	log.Info().Str("module", "monitoring").Str("addr", m.server.Addr).Msg("starting monitoring server")
	if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("monitoring server: %w", err)
	}
	return nil
}

func (m *Monitoring) Shutdown(ctx context.Context) error {
	log.Info().Str("module", "monitoring").Msg("shutting down monitoring server")
	return m.server.Shutdown(ctx)
}

func (m *Monitoring) String() string {
	return fmt.Sprintf("monitoring::%s:%d", m.conf.URLPrefix, m.conf.Port)
}
