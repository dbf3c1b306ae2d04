// Taskwaved serves the taskwave board over HTTP.
//
// Configuration is loaded from ~/.config/taskwave/config.yaml (or --config)
// and overridden by TASKWAVE_* environment variables. See internal/config.
//
// Usage:
//
//	# Start server with defaults
//	taskwaved
//
//	# Configure via environment
//	TASKWAVE_SERVER_HTTP_PORT=9090 TASKWAVE_TASKS_SEED=empty taskwaved
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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskwave/internal/config"
	"github.com/fyrsmithlabs/taskwave/internal/events"
	taskhttp "github.com/fyrsmithlabs/taskwave/internal/http"
	"github.com/fyrsmithlabs/taskwave/internal/logging"
	"github.com/fyrsmithlabs/taskwave/internal/seed"
	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/fyrsmithlabs/taskwave/internal/telemetry"
	"github.com/fyrsmithlabs/taskwave/internal/tracker"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "taskwaved",
	Short: "Serve the taskwave board",
	Long: `taskwaved keeps the task board in memory and serves it over HTTP:
the /tasks API, a board UI, /status, /health and /metrics.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadWithFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return run(ctx, cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("taskwaved by Fyrsmith Labs\n")
		cmd.Printf("Version:    %s\n", version)
		cmd.Printf("Commit:     %s\n", gitCommit)
		cmd.Printf("Build Date: %s\n", buildDate)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "config file (default ~/.config/taskwave/config.yaml)")
	rootCmd.AddCommand(versionCmd)
}

// run starts taskwaved and blocks until ctx is cancelled.
//
// Startup order:
//  1. Logger and telemetry
//  2. Event publisher (NATS when configured)
//  3. Seed and task store
//  4. Tracker service and seed watcher
//  5. HTTP server, shut down gracefully on cancellation
func run(ctx context.Context, cfg *config.Config) error {
	tel, err := telemetry.New(ctx, telemetryConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logger, err := initLogger(cfg, tel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info(ctx, "starting taskwaved",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("seed", cfg.Tasks.Seed),
		zap.Bool("strict_completion", cfg.Tasks.StrictCompletion),
		zap.Bool("telemetry", tel.IsEnabled()),
	)
	if h := tel.Health(); !h.Healthy || h.Degraded {
		logger.Warn(ctx, "telemetry degraded", zap.Strings("reasons", h.Reasons))
	}
	defer shutdownTelemetry(tel, logger, cfg.Server.ShutdownTimeout)

	publisher, err := initPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn(context.Background(), "failed to close event publisher", zap.Error(err))
		}
	}()

	tasks, err := seed.Load(cfg.Tasks.Seed)
	if err != nil {
		return fmt.Errorf("failed to load seed %q: %w", cfg.Tasks.Seed, err)
	}
	store := task.NewStore(tasks, task.WithStrictCompletion(cfg.Tasks.StrictCompletion))

	svc := tracker.New(store,
		tracker.WithPublisher(publisher),
		tracker.WithLogger(logger),
		tracker.WithTelemetry(tel),
		tracker.WithMetrics(tracker.NewMetrics()),
	)

	if cfg.Tasks.WatchSeed && !seed.IsPreset(cfg.Tasks.Seed) {
		w, err := seed.NewWatcher(cfg.Tasks.Seed, svc.Reset, logger)
		if err != nil {
			return fmt.Errorf("failed to watch seed: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to watch seed: %w", err)
		}
		defer w.Stop()
		logger.Info(ctx, "watching seed file", zap.String("path", cfg.Tasks.Seed))
	}

	srv, err := taskhttp.NewServer(svc, logger, &taskhttp.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		DisableUI:      cfg.Server.DisableUI,
	}, taskhttp.WithTelemetry(tel))
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	<-errCh
	return nil
}

func telemetryConfig(cfg *config.Config) *telemetry.Config {
	tc := telemetry.FromAppConfig(cfg.Telemetry)
	if tc.ServiceVersion == "" {
		tc.ServiceVersion = version
	}
	return tc
}

// initLogger builds the zap logger, bridged to OTEL when telemetry provides
// a logger provider.
func initLogger(cfg *config.Config, tel *telemetry.Telemetry) (*logging.Logger, error) {
	logCfg, err := logging.FromAppConfig(cfg.Logging)
	if err != nil {
		return nil, err
	}
	lp := tel.LoggerProvider()
	logCfg.Output.OTEL = lp != nil
	return logging.NewLogger(logCfg, lp)
}

// initPublisher connects to NATS when a URL is configured. Without one,
// events are dropped.
func initPublisher(cfg *config.Config, logger *logging.Logger) (events.Publisher, error) {
	if cfg.Events.NATSURL == "" {
		return events.Nop{}, nil
	}

	opts := []events.Option{
		events.WithSubjectPrefix(cfg.Events.SubjectPrefix),
		events.WithLogger(logger),
	}
	if cfg.Events.Token.IsSet() {
		opts = append(opts, events.WithToken(cfg.Events.Token))
	}

	p, err := events.Connect(cfg.Events.NATSURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.Events.NATSURL, err)
	}
	logger.Info(context.Background(), "event publishing enabled",
		zap.String("url", cfg.Events.NATSURL),
		zap.String("subject_prefix", cfg.Events.SubjectPrefix),
		zap.Bool("connected", p.Connected()),
	)
	return p, nil
}

func shutdownTelemetry(tel *telemetry.Telemetry, logger *logging.Logger, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := tel.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
	}
}
