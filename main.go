package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"minnal/api"
	"minnal/config"
	"minnal/handlers"
	"minnal/services/catalog"
	"minnal/services/details"
	"minnal/services/history"
	"minnal/services/identity"
	"minnal/services/metadata"
	"minnal/services/recommendations"
	"minnal/services/streams"
	"minnal/utils"

	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🚀 Minnal addon starting...")

	// Determine config path (env or default)
	configPath := os.Getenv("MINNAL_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}
	if settings.Metadata.TMDBAPIKey == "" {
		log.Fatalf("TMDB api key is not configured: set TMDB_API_KEY or metadata.tmdbApiKey in %s", configPath)
	}

	tmdb := metadata.NewClient(metadata.ClientOptions{
		APIKey:            settings.Metadata.TMDBAPIKey,
		Language:          settings.Metadata.Language,
		RequestsPerSecond: settings.Metadata.RequestsPerSecond,
		MaxAttempts:       settings.Metadata.MaxAttempts,
		Timeout:           time.Duration(settings.Metadata.TimeoutSeconds) * time.Second,
	})
	resolver := identity.NewResolver(tmdb, settings.Cache.IDCacheSize, time.Duration(settings.Cache.IDCacheTTLMinutes)*time.Minute)

	catalogService := catalog.NewService(tmdb, resolver, settings.Metadata.RatingScale)
	detailService := details.NewService(tmdb, resolver, settings.Metadata.RatingScale)
	streamService := streams.NewService(tmdb, resolver, streams.Options{
		AddonName:       settings.Addon.Name,
		BaseURL:         settings.Streams.BaseURL,
		SubtitleBaseURL: settings.Streams.SubtitleBaseURL,
	})

	historyService := history.NewService(history.NewMemoryStore(), resolver)
	historyService.SetMetadataService(tmdb)
	recommendationService := recommendations.NewService(historyService, tmdb, resolver, settings.Metadata.RatingScale)

	r := utils.NewRouter()
	api.Register(r,
		handlers.NewAddonHandler(catalogService, detailService, streamService, settings.Addon),
		handlers.NewWatchHandler(historyService, recommendationService),
	)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Listening on %s (manifest: http://%s/manifest.json)", addr, addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("✅ Shutdown complete")
}
