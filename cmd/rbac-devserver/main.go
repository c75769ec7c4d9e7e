package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/server"
)

func main() {
	var cfg server.Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Console = cfg.Verbose
	if logCfg.FilePath != "" {
		logCfg.FilePath = filepath.Join(filepath.Dir(logCfg.FilePath), "rbac-devserver.log")
	}
	if err := logger.Init(logCfg); err != nil {
		log.Printf("Logging to file disabled: %v", err)
	}
	defer logger.Close()

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	go func() {
		log.Printf("RBAC dev server starting on :%s", cfg.Port)
		if err := srv.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}
