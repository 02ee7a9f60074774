package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dzoniops/villa-pricing-service/config"
	"github.com/dzoniops/villa-pricing-service/db"
	"github.com/dzoniops/villa-pricing-service/services"
	"github.com/dzoniops/villa-pricing-service/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront API and the metrics server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := utils.NewLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = kitlog.With(logger, "service", "villa-pricing")

	utils.InitValidator()

	shutdownTracer, err := utils.InitTracer(cfg.TraceStdout)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	conn, err := db.Connect(cfg.Postgres)
	if err != nil {
		return err
	}
	if err := db.Migrate(conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	store := db.NewStore(conn)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	srv := services.NewServer(store, logger, services.NewMetrics(reg), cfg.Policy, cfg.MaxNights)

	level.Info(logger).Log("msg", "pricing configured", "negative_price_policy", cfg.Policy)

	g := &run.Group{}

	apiSrv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          log.New(kitlog.NewStdlibAdapter(level.Error(logger)), "", 0),
	}
	g.Add(func() error {
		level.Info(logger).Log("msg", "starting API server", "addr", apiSrv.Addr)
		return apiSrv.ListenAndServe()
	}, func(error) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := apiSrv.Shutdown(ctx); err != nil {
			level.Error(logger).Log("msg", "failed to stop API server", "err", err)
		}
	})

	metricsSrv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.MetricsPort),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Add(func() error {
		m := http.NewServeMux()
		m.Handle("/metrics", promhttp.HandlerFor(
			reg,
			promhttp.HandlerOpts{
				// Exemplars carrying trace ids are only exposed in OpenMetrics.
				EnableOpenMetrics: true,
			},
		))
		m.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
			if err := store.Ping(r.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
		metricsSrv.Handler = m
		level.Info(logger).Log("msg", "starting metrics server", "addr", metricsSrv.Addr)
		return metricsSrv.ListenAndServe()
	}, func(error) {
		if err := metricsSrv.Close(); err != nil {
			level.Error(logger).Log("msg", "failed to stop metrics server", "err", err)
		}
	})

	g.Add(run.SignalHandler(cmd.Context(), syscall.SIGINT, syscall.SIGTERM))

	err = g.Run()

	var sig run.SignalError
	if errors.As(err, &sig) {
		level.Info(logger).Log("msg", "shutting down", "signal", sig.Signal)
		return nil
	}
	if err != nil {
		level.Error(logger).Log("err", err)
	}
	return err
}
