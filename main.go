// Package main implements the web interface for a Moduline controller: a
// status page served from the controller itself, gated behind a login bound
// to the device's serial number.
//
// Usage:
//
//	moduline-webui [-config path/to/config.json] [-dev]
//
// If -config is not specified, the server looks for config.json in the same
// directory as the binary. The -dev flag replaces the serial number utility
// with a fixed placeholder for development off-device.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gocontroll/moduline-webui/internal/auth"
	"github.com/gocontroll/moduline-webui/internal/config"
	"github.com/gocontroll/moduline-webui/internal/identity"
	"github.com/gocontroll/moduline-webui/internal/util"
)

// serialReadTimeout bounds the one-time serial number utility call.
const serialReadTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to config file (default: config.json next to binary)")
	devMode := flag.Bool("dev", false, "Use the development placeholder serial number")
	showVersion := flag.Bool("version", false, "Print version information and exit")
	flag.Parse()

	if *showVersion {
		slog.Info("version info", "version", Version, "commit", Commit, "build_time", BuildTime)
		return
	}

	if *configPath == "" {
		execPath, err := os.Executable()
		if err != nil {
			slog.Error("failed to get executable path", "error", err)
			os.Exit(1)
		}
		*configPath = filepath.Join(filepath.Dir(execPath), "config.json")
	}

	slog.Info("using config file", "path", *configPath)

	cfg := config.New(*configPath)
	if err := cfg.Load(); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Establish the device identity before serving anything. There is no
	// degraded mode: a server that cannot verify logins must not start.
	var source identity.Source
	if *devMode {
		source = identity.StaticSource(identity.DevSerialNumber)
	} else {
		source = identity.NewCommandSource(cfg.SerialCommand(), "r")
	}

	ctx, cancel := context.WithTimeout(context.Background(), serialReadTimeout)
	serialNumber, err := source.SerialNumber(ctx)
	cancel()
	if err != nil {
		slog.Error("failed to read controller serial number", "error", err)
		os.Exit(1)
	}

	ident, err := auth.NewIdentity(serialNumber, cfg.ClientKey())
	if err != nil {
		slog.Error(util.WrapError("derive device credential", err).Error())
		os.Exit(1)
	}

	srv := NewServer(cfg, ident, serialNumber)

	httpServer := srv.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, util.ShutdownSignals()...)
	<-sigChan

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
