package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tabviz/internal/config"
	apperrors "tabviz/internal/errors"
	"tabviz/internal/infrastructure"
	"tabviz/pkg/contracts/domain"
)

// ShutdownTimeout bounds the telemetry flush at the end of a run
const ShutdownTimeout = 5 * time.Second

// GlobalFlags are accepted by every command
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
}

// Bind registers the global flags on fs
func (g *GlobalFlags) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&g.ConfigFile, "config", "", "YAML config file (default tabviz.yaml or configs/tabviz.yaml when present)")
	fs.StringVar(&g.LogLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}

// Override adjusts the loaded configuration before it is validated
type Override func(*config.Config)

// Application is the runtime of one pipeline stage
type Application struct {
	Stage     string
	Config    *config.Config
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
}

// NewApplication loads and validates configuration, applies overrides and
// starts logging and telemetry for stage.
func NewApplication(stage string, flags GlobalFlags, overrides []Override) (*Application, error) {
	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}

	if flags.LogLevel != "" {
		cfg.Logging.Level = flags.LogLevel
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to initialize logger", err)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, stage, logger)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to initialize telemetry", err)
	}

	return &Application{
		Stage:     stage,
		Config:    cfg,
		Logger:    infrastructure.WithComponent(logger, stage),
		Telemetry: telemetry,
	}, nil
}

// Run executes body under the stage span. Telemetry is flushed on every
// exit path; a flush failure is logged and does not fail the run.
func (a *Application) Run(ctx context.Context, body func(ctx context.Context) error) (err error) {
	ctx = infrastructure.EnsureRunID(ctx)
	ctx, span := a.Telemetry.StartSpan(ctx, a.Stage)
	start := time.Now()

	a.Logger.InfoContext(ctx, "Stage started",
		slog.String("version", config.AppVersion))

	defer func() {
		infrastructure.EndSpan(span, err)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if shutdownErr := a.Telemetry.Shutdown(shutdownCtx); shutdownErr != nil {
			infrastructure.WithError(a.Logger, shutdownErr).WarnContext(ctx, "Telemetry shutdown failed")
		}

		if err != nil {
			infrastructure.WithError(a.Logger, err).ErrorContext(ctx, "Stage failed",
				slog.Duration("duration", time.Since(start)))
			return
		}
		a.Logger.InfoContext(ctx, "Stage completed",
			slog.Duration("duration", time.Since(start)))
	}()

	return body(ctx)
}

// RecordSkips counts skipped items in the stage metrics
func (a *Application) RecordSkips(ctx context.Context, skips []domain.Skip) {
	a.Telemetry.RecordSkips(ctx, skips)
}

// Execute runs cmd and converts a returned error into exit status 1,
// printing it to stderr. The log file, if any, is closed before returning.
func Execute(cmd *cobra.Command) int {
	return execute(cmd, os.Stderr)
}

func execute(cmd *cobra.Command, stderr io.Writer) int {
	defer func() { _ = infrastructure.CloseLogFile() }()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
