package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"syndeo/config"
	"syndeo/core/events"
	"syndeo/native/rewards"
	"syndeo/observability/logging"
	"syndeo/observability/otel"
	"syndeo/rpc"
	"syndeo/state"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("SYNDEO_ENV"))
	logger := logging.Setup("syndeod", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	if env == "" {
		env = strings.TrimSpace(cfg.Environment)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	admin, err := cfg.Admin()
	if err != nil {
		logger.Error("Invalid admin address", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Endpoint != "" {
		shutdown, err := otel.Init(ctx, otel.Config{
			ServiceName: "syndeod",
			Environment: env,
			Endpoint:    cfg.Telemetry.Endpoint,
			Insecure:    cfg.Telemetry.Insecure,
			Metrics:     cfg.Telemetry.Metrics,
			Traces:      cfg.Telemetry.Traces,
		})
		if err != nil {
			logger.Error("Failed to initialise telemetry", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("Telemetry shutdown failed", slog.Any("error", err))
			}
		}()
	}

	manager := state.NewManager()
	buffer := events.NewBuffer(cfg.EventBufferSize)

	engine := rewards.NewEngine(admin.Raw(), rewards.Params{
		MaxPointsPerSender: cfg.MaxPointsPerSender,
	}.Normalize())
	engine.SetState(manager)
	engine.SetEmitter(buffer)

	server := rpc.NewServer(engine, manager, buffer,
		rpc.WithJWTClaims(cfg.JWTIssuer, cfg.JWTAudience))

	logger.Info("Reward ledger ready",
		slog.String("admin", admin.String()),
		slog.Uint64("maxPointsPerSender", engine.MaxPointsPerSender()),
		slog.String("rpc", cfg.RPCAddress),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.RPCAddress)
	}()

	select {
	case err := <-errCh:
		logger.Error("RPC server stopped", slog.Any("error", err))
		os.Exit(1)
	case <-ctx.Done():
		logger.Info("Shutting down")
	}
}
