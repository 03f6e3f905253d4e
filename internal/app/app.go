// Package app assembles the server: configuration, the logging router, the
// hub with its two loops, and the HTTP surface, with graceful shutdown tied
// to the supplied context.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	server "crownridge/server"
	servernet "crownridge/server/internal/net"
	"crownridge/server/internal/story"
	"crownridge/server/internal/telemetry"
	"crownridge/server/logging"
	"crownridge/server/logging/lifecycle"
	loggingSinks "crownridge/server/logging/sinks"
)

// Options carries process-level dependencies into Run.
type Options struct {
	ConfigPath string
	Logger     telemetry.Logger
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails.
func Run(ctx context.Context, opts Options) error {
	telemetryLogger := opts.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	router, err := buildRouter(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	provider := story.NewHTTPProvider(cfg.Story, func(reason string) {
		lifecycle.StoryFallback(context.Background(), router, 0, lifecycle.StoryFallbackPayload{Reason: reason})
	})

	hub := server.NewHub(server.HubConfig{
		Seed:      cfg.Seed,
		NPCCount:  cfg.NPCCount,
		Logger:    telemetryLogger,
		Metrics:   telemetry.NewCounters(),
		Publisher: router,
		Story:     provider,
	})

	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	go hub.RunClock(stop)
	defer close(stop)

	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		ClientDir: cfg.ClientDir,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}
	telemetryLogger.Printf("server listening on %s", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			telemetryLogger.Printf("shutdown error: %v", serr)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}

// buildRouter constructs the event router with the configured sinks.
func buildRouter(cfg LoggingConfig) (*logging.Router, error) {
	logCfg := logging.DefaultConfig()
	if len(cfg.Sinks) > 0 {
		logCfg.EnabledSinks = cfg.Sinks
	}
	logCfg.Console.UseColor = cfg.UseColor

	var named []logging.NamedSink
	for _, name := range logCfg.EnabledSinks {
		switch name {
		case "console":
			named = append(named, logging.NamedSink{
				Name: "console",
				Sink: loggingSinks.NewConsoleSink(os.Stdout, logCfg.Console),
			})
		case "json":
			path := cfg.JSONPath
			if path == "" {
				path = "events.jsonl"
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open json sink: %w", err)
			}
			named = append(named, logging.NamedSink{
				Name: "json",
				Sink: loggingSinks.NewJSON(file, logCfg.JSON.FlushInterval),
			})
		default:
			return nil, fmt.Errorf("unknown logging sink %q", name)
		}
	}

	return logging.NewRouter(logging.ClockFunc(time.Now), logCfg, named)
}
