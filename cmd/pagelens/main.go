package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pagelens/pagelens/api"
	"github.com/pagelens/pagelens/cache"
	"github.com/pagelens/pagelens/config"
	"github.com/pagelens/pagelens/scraper"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// ── 2. Initialise structured logging ────────────────────────────
	log := newLogger(cfg.Log)
	log.WithFields(logrus.Fields{
		"host":       cfg.Server.Host,
		"port":       cfg.Server.Port,
		"cache_path": cfg.Cache.Path,
	}).Info("pagelens starting")

	// ── 3. Open the page cache ──────────────────────────────────────
	pages, err := cache.NewBadgerCache(cfg.Cache.Path, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open page cache")
	}
	defer func() {
		if err := pages.Close(); err != nil {
			log.WithError(err).Error("error closing page cache")
		}
	}()

	// ── 4. Initialise the scraping engine ───────────────────────────
	engine := scraper.New(cfg.Browser, cfg.Scraper, pages, log)

	// ── 5. Setup router and HTTP server ─────────────────────────────
	router := api.NewRouter(engine, &cfg, time.Now())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.WithField("addr", addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.WithField("signal", sig.String()).Info("shutdown signal received")

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("HTTP server forced shutdown")
	} else {
		log.Info("HTTP server drained gracefully")
	}

	log.Info("pagelens stopped")
}

// newLogger builds the process logger from the log configuration.
func newLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
