package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"marketboard/internal/bybit"
	"marketboard/internal/cache"
	"marketboard/internal/config"
	"marketboard/internal/ingest"
	"marketboard/internal/logger"
	"marketboard/internal/ratelimit"
	"marketboard/internal/store"
	"marketboard/internal/web"
)

var (
	serveFlag    = flag.Bool("serve", false, "Serve the ticker table over HTTP after an initial ingestion cycle")
	csvPath      = flag.String("csv", "", "Write a CSV snapshot to this path after ingesting")
	htmlPath     = flag.String("html", "", "Write a static HTML table to this path after ingesting")
	intervalFlag = flag.Duration("interval", 0, "Re-run the ingestion cycle at this interval (0 = once)")
	categoryFlag = flag.String("category", "", "Override the configured instrument category")
)

func main() {
	flag.Parse()

	// Optional .env file for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	category := cfg.Category
	if *categoryFlag != "" {
		category = *categoryFlag
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("received interrupt signal, shutting down")
		cancel()
	}()

	var st store.Store
	if cfg.PostgresDSN != "" {
		pg, err := store.NewPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to initialize postgres store", "error", err)
			os.Exit(1)
		}
		st = pg
	} else {
		log.Info("no POSTGRES_DSN configured, using in-memory store")
		st = store.NewMemory()
	}
	defer st.Close()

	var snapshot *cache.Snapshot
	if cfg.RedisAddr != "" {
		snapshot, err = cache.NewSnapshot(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			log.Error("failed to initialize redis cache", "error", err)
			os.Exit(1)
		}
		defer snapshot.Close()
	}

	client := bybit.NewClient(cfg.BybitAPIKey, cfg.BybitBaseURL, cfg.RequestTimeout, ratelimit.New(cfg.RequestsPerSec))
	runner := ingest.New(client, st, log)

	runCycle := func() {
		if _, err := runner.Run(ctx, category); err != nil {
			log.Error("ingestion cycle failed", "error", err)
			return
		}
		if snapshot != nil {
			if err := snapshot.Invalidate(ctx); err != nil {
				log.Warn("failed to invalidate listing cache", "error", err)
			}
		}
	}

	runCycle()

	if *intervalFlag > 0 {
		go func() {
			tick := time.NewTicker(*intervalFlag)
			defer tick.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-tick.C:
					runCycle()
				}
			}
		}()
	}

	if *csvPath != "" || *htmlPath != "" {
		if err := exportSnapshots(ctx, st, *csvPath, *htmlPath); err != nil {
			log.Error("export failed", "error", err)
			os.Exit(1)
		}
	}

	if !*serveFlag {
		if *intervalFlag > 0 {
			// Ingest-only daemon mode: wait for the signal handler.
			<-ctx.Done()
		}
		return
	}

	handler := web.NewHandler(st, snapshot, log)
	server := web.NewServer(cfg.ListenAddr, handler, log)

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		log.Error("HTTP server error", "error", err)
		os.Exit(1)
	}
}
