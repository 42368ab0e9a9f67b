package main

//go:generate swag init -d ../.. -g cmd/server/main.go -o ../../internal/app/docs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	historyc "slurmview/client/history"
	ldapc "slurmview/client/ldap"
	"slurmview/client/slurmrest"
	"slurmview/config"
	docs "slurmview/internal/app/docs"
	"slurmview/internal/app/router"
	"slurmview/internal/module/features"
	"slurmview/internal/module/health"
	nodesmod "slurmview/internal/module/nodes"
	"slurmview/internal/module/rewind"
	"slurmview/internal/module/slurm"
	"slurmview/internal/pkg/log"
	"slurmview/internal/pkg/poller"

	kingpin "github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/common/version"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	appName = "slurmview"
	// slurmrestd responses for the pass-through routes are reused this long.
	proxyRevalidate = 30 * time.Second
)

// @title           slurmview
// @version         0.1.0
// @description     Slurm cluster dashboard backend: slurmrestd proxy, node views and rewind
// @schemes         http
// @BasePath        /api/v1
func main() {
	var (
		addrFlag        = kingpin.Flag("addr", "Server listen address (e.g. :8080 or 127.0.0.1:8080)").Default(":8080").Envar("SLURMVIEW_ADDR").String()
		shutdownTimeout = kingpin.Flag("shutdown-timeout", "Graceful shutdown timeout (e.g. 10s)").Default("10s").Envar("SLURMVIEW_SHUTDOWN_TIMEOUT").Duration()
		logFormat       = kingpin.Flag("log-format", "Log format").Default("text").Envar("SLURMVIEW_LOG_FORMAT").Enum("text", "json")
		logOutput       = kingpin.Flag("log-output", "Log output destination").Default("stdout").Envar("SLURMVIEW_LOG_OUTPUT").Enum("stdout", "stderr", "file")
		logFile         = kingpin.Flag("log-file", "Log file path (used when --log-output=file)").Envar("SLURMVIEW_LOG_FILE").String()
		logLevel        = kingpin.Flag("log-level", "Minimum log level").Default("info").Envar("SLURMVIEW_LOG_LEVEL").Enum("debug", "info", "warn", "error")
		configFile      = kingpin.Flag("config", "Path to YAML config file").Short('c').Default("config.yaml").Envar("SLURMVIEW_CONFIG").String()
	)
	kingpin.Version(version.Print(appName))
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	logger, cleanup, err := log.NewLogger(*logOutput, *logFormat, *logFile, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := run(logger, *configFile, *addrFlag, *shutdownTimeout); err != nil {
		logger.Error("server failed", slog.Any("err", err))
		cleanup()
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configFile, addr string, shutdownTimeout time.Duration) error {
	logger.Info("starting "+appName, slog.String("version", version.Info()), slog.String("build", version.BuildContext()))

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", configFile, err)
	}
	loc, err := time.LoadLocation(cfg.Server.Location)
	if err != nil {
		return err
	}

	// slurmrestd
	sc := slurmrest.New(cfg.Server.Slurm, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		versioncollector.NewCollector(appName),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	p := poller.New(sc.Nodes, config.ParseDuration(cfg.Server.Poller.Interval), poller.NewMetrics(reg), logger)
	go p.Run(ctx)
	shared := poller.NewShared(proxyRevalidate)

	// History store and recorder. A store that cannot be reached disables
	// rewind instead of failing startup.
	var store rewind.Store
	if hcfg := cfg.Server.History; hcfg.Enabled {
		hc, err := historyc.New(hcfg)
		if err != nil {
			logger.Error("history store unavailable, rewind disabled", slog.Any("err", err))
		} else {
			defer func() { _ = hc.Close() }()
			store = hc

			if !hcfg.ReadOnly {
				rec, err := historyc.NewRecorder(hc, p, hcfg.RecordSchedule, config.ParseDuration(hcfg.Retention), logger)
				if err != nil {
					return err
				}
				rec.Start()
				defer rec.Stop()
				logger.Info("snapshot recorder started", slog.String("schedule", hcfg.RecordSchedule))
			}
		}
	}

	// Optional LDAP directory for job owner names.
	var directory nodesmod.Directory
	if cfg.Server.LDAP.Enabled() {
		lc, err := ldapc.New(cfg.Server.LDAP)
		if err != nil {
			logger.Warn("ldap unavailable, job owners shown by uid", slog.Any("err", err))
		} else {
			defer lc.Close()
			directory = lc
		}
	}

	r := router.New(logger)
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Version = version.Version
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.Register(
		slurm.NewRouter(sc, p, shared, logger),
		nodesmod.NewRouter(p, sc, directory, shared, loc, logger),
		rewind.NewRouter(store, loc, logger),
		features.NewRouter(cfg.Server.Features),
		health.NewRouter(p, sc, reg, version.Version),
	)
	router.MountAll(r)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}
	logger.Info("shutting down server...")

	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("err", err))
	}
	stop()
	logger.Info("server exiting")
	return nil
}
