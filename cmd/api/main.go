package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ewilliams-labs/lyricmood/internal/adapters/cache"
	"github.com/ewilliams-labs/lyricmood/internal/adapters/genius"
	"github.com/ewilliams-labs/lyricmood/internal/adapters/groq"
	"github.com/ewilliams-labs/lyricmood/internal/adapters/rest"
	"github.com/ewilliams-labs/lyricmood/internal/adapters/sqlite"
	"github.com/ewilliams-labs/lyricmood/internal/config"
	"github.com/ewilliams-labs/lyricmood/internal/core/ports"
	"github.com/ewilliams-labs/lyricmood/internal/core/services"
	"github.com/ewilliams-labs/lyricmood/internal/worker"
)

func main() {
	// 1. Configuration (Environment Variables)
	// It's best practice to crash early if required config is missing.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	// 2. Initialize "Driven" Adapters (The Tools)
	// -- Database Adapter
	repo, err := sqlite.NewAdapter(cfg.StoragePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer repo.Close()

	// -- Lyrics Cache
	var lyricsCache ports.LyricsCache
	switch cfg.CacheDriver {
	case "redis":
		redisCache, err := cache.NewRedis(context.Background(), cfg.RedisAddr, cfg.RedisPassword, time.Hour)
		if err != nil {
			log.Fatalf("FATAL: Failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		lyricsCache = redisCache
	default:
		lyricsCache = cache.NewMemory(100, time.Hour)
	}

	// -- Lyrics Provider and Emotion Analyzer
	lyricsClient := genius.NewTokenClient(cfg.GeniusAccessToken)
	analyzer := groq.NewClient(cfg.GroqAPIKey, cfg.GroqModel, "")

	// 3. Initialize Core Logic (The Driver)
	// We inject the specific adapters into the agnostic pipeline.
	svc := services.NewPipeline(
		lyricsClient,
		analyzer,
		services.WithCache(lyricsCache),
		services.WithRetryPolicy(cfg.MaxRetries, cfg.RetryBackoff),
	)

	// 4. Initialize "Driving" Adapter (The Interface)
	pool := worker.NewPool(repo, 100)
	pool.Start(2)
	defer pool.Stop()

	handler := rest.NewHandler(svc, repo, pool)

	// 5. Start the Server
	log.Println("------------------------------------------------")
	log.Printf("🎤 LyricMood API is running on http://localhost%s", cfg.HTTPAddr)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
