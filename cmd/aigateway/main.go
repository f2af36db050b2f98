// aigateway is an HTTP gateway that exposes chat, speech, vision, language,
// media and diffusion capabilities backed by cloud and self-hosted AI
// services.
//
// Usage:
//
//	aigateway [flags]
//	aigateway --config /path/to/aigateway.yaml
//
// @title       aigateway API
// @version     1.0
// @description HTTP gateway exposing chat, speech, vision, language, media and diffusion capabilities backed by cloud and self-hosted AI services.
// @BasePath    /
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/nadzzz/aigateway/docs"
	"github.com/nadzzz/aigateway/internal/config"
	"github.com/nadzzz/aigateway/internal/health"
	httptransport "github.com/nadzzz/aigateway/internal/transport/http"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/aigateway.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("aigateway %s\n", version)
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging)
	slog.Info("aigateway starting", "version", version)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	b, err := buildBackends(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize backends", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	if len(b.deps.Backends) == 0 {
		slog.Warn("no capabilities configured; only / and /metrics will be served")
	}

	// Start health check servers.
	healthServer := health.New(cfg.Server.HealthPort, cfg.Server.GRPCHealthPort)
	healthServer.SetCapabilities(b.capabilities())
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()
	go func() {
		if err := healthServer.ListenAndServeGRPC(ctx); err != nil {
			slog.Error("grpc health server failed", "error", err)
		}
	}()

	server := httptransport.New(cfg.Server.Port, b.deps)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Listen(ctx); err != nil {
			slog.Error("http server failed", "error", err)
			cancel()
		}
	}()

	healthServer.SetReady(true)
	slog.Info("aigateway ready",
		"port", cfg.Server.Port,
		"health_port", cfg.Server.HealthPort,
		"capabilities", b.capabilities())

	// Block until shutdown signal.
	<-ctx.Done()
	slog.Info("shutdown signal received, draining...")
	healthServer.SetReady(false)

	if err := server.Close(); err != nil {
		slog.Error("http server close error", "error", err)
	}

	wg.Wait()
	slog.Info("aigateway stopped")
}
