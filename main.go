package main

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

	"sentinel/internal/config"
	"sentinel/internal/middleware"
	"sentinel/internal/routes"
	"sentinel/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var configFile string

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Live host CPU, memory and network monitor with sustained-CPU alerts",
	Long: `sentinel samples CPU, memory, network throughput and the busiest processes
every 0.5s, streams them to browsers over a websocket and raises an alert when
CPU stays above 90% for 10 seconds. Every sample and alert is appended to a
plain-text event log.

Examples:
  sentinel
  sentinel --addr 0.0.0.0:5000 --log-file /var/log/sentinel.log
  SENTINEL_ALLOWED_ORIGINS=http://monitor.lan sentinel`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          serve,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (yaml, toml or json)")
	flags.String("addr", "", "listen address")
	flags.String("log-file", "", "event log path")
	flags.String("web-dir", "", "directory holding index.html and static/")
	flags.String("log-level", "", "diagnostic log level (debug, info, warn, error)")

	rootCmd.AddCommand(configCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	return config.Load(v, configFile)
}

func setupLogger(level string) *slog.Logger {
	lvl, _ := config.ParseLevel(level)
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(handler).With("app", "sentinel")
	slog.SetDefault(logger)
	return logger
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.LogLevel)
	logger.Info("starting sentinel", "version", version, "addr", cfg.Addr, "log_file", cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := services.NewEventLog(cfg.LogFile, logger)
	if err := events.Init(); err != nil {
		logger.Error("error creating event log file", "file", cfg.LogFile, "error", err)
	}

	source := services.NewHostSource()
	if err := source.Prime(ctx); err != nil {
		logger.Warn("could not prime cpu counters", "error", err)
	}

	telemetry := services.NewTelemetry()
	hub := services.NewWebSocketHub(logger, telemetry)
	monitor := services.NewMonitor(source, events, hub, telemetry, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst), logger))

	routes.RegisterPageRoutes(r, cfg.WebDir, events)
	routes.RegisterMonitorRoutes(r, monitor, telemetry)
	routes.RegisterProcessRoutes(r, monitor)
	routes.RegisterSocketRoutes(r, hub, monitor, cfg.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		monitor.Start(gctx)
		return nil
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("sentinel stopped")
	return err
}
