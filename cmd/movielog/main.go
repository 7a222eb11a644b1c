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

	"github.com/movielog/movielog/internal/config"
	"github.com/movielog/movielog/internal/database"
	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/server"
)

func main() {
	configPath := os.Getenv("MOVIELOG_CONFIG_PATH")
	if configPath == "" {
		// Try default paths
		if _, err := os.Stat("./movielog.yaml"); err == nil {
			configPath = "./movielog.yaml"
		} else if _, err := os.Stat("/etc/movielog/movielog.yaml"); err == nil {
			configPath = "/etc/movielog/movielog.yaml"
		}
	}

	if err := config.Load(configPath); err != nil {
		logger.Warn("failed to load configuration, using defaults", "path", configPath, "error", err)
	} else if configPath != "" {
		logger.Info("configuration loaded", "path", configPath)
	}

	cfg := config.Get()
	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)

	if err := database.Initialize(); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	r, err := server.SetupRouter(server.Options{})
	if err != nil {
		logger.Error("failed to set up server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reload configuration when the file changes on disk
	if configPath != "" {
		go func() {
			if err := config.GetConfigManager().WatchFile(ctx, configPath); err != nil {
				logger.Warn("configuration watch unavailable", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		if err := server.ShutdownEventBus(); err != nil {
			logger.Error("event bus shutdown error", "error", err)
		}
		if err := database.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}

		cancel()
	}()

	logger.Info("server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped")
}
