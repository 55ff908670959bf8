package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/soundprint-labs/soundprint/internal/adapters/badgercache"
	"github.com/soundprint-labs/soundprint/internal/adapters/rest"
	"github.com/soundprint-labs/soundprint/internal/adapters/saavn"
	"github.com/soundprint-labs/soundprint/internal/adapters/spotify"
	"github.com/soundprint-labs/soundprint/internal/adapters/sqlite"
	"github.com/soundprint-labs/soundprint/internal/assets"
	"github.com/soundprint-labs/soundprint/internal/core/services"
	"github.com/soundprint-labs/soundprint/internal/features"
	"github.com/soundprint-labs/soundprint/internal/worker"
)

func main() {
	// 1. Configuration. Crash early if required config is missing.
	accessToken := os.Getenv("SPOTIFY_ACCESS_TOKEN")
	clientID := os.Getenv("SPOTIFY_CLIENT_ID")
	clientSecret := os.Getenv("SPOTIFY_CLIENT_SECRET")
	if accessToken == "" && (clientID == "" || clientSecret == "") {
		log.Fatal("FATAL: SPOTIFY_ACCESS_TOKEN or the SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET pair is required")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		log.Fatalf("FATAL: Failed to create data dir: %v", err)
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	// 2. Driven adapters.
	repo, err := sqlite.NewAdapter(filepath.Join(dataDir, "soundprint.db"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer repo.Close()

	cache, err := badgercache.NewAdapter(filepath.Join(dataDir, "cache"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize cache: %v", err)
	}
	defer cache.Close()

	previews, err := assets.NewStore(filepath.Join(dataDir, "previews"), nil)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize preview store: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A user-scoped token is needed for the /me endpoints (stats, listening
	// pool, playlist creation); client credentials cover only the public
	// catalog surface.
	var catalog *spotify.Client
	if accessToken != "" {
		catalog = spotify.NewClientWithToken(ctx, accessToken, cache)
	} else {
		log.Println("WARN no SPOTIFY_ACCESS_TOKEN set; user-scoped endpoints will be rejected upstream")
		catalog = spotify.NewClientCredentials(ctx, clientID, clientSecret, cache)
	}
	secondary := saavn.NewClient(nil, saavn.DefaultBaseURL, cache)

	// 3. Core services.
	extractor := features.NewExtractor()
	resolver := services.NewResolver(secondary, previews, repo)
	featureStore := services.NewFeatureStore(repo, cache)
	recommender := services.NewRecommender(catalog, repo, resolver, extractor, featureStore, cache)
	stats := services.NewStats(catalog, cache)
	playlists := services.NewPlaylists(catalog, repo)

	// 4. Background analysis workers.
	pool := worker.NewPool(repo, resolver, extractor, 100)
	pool.Start(2)
	defer pool.Stop()

	// 5. HTTP surface.
	handler := rest.NewHandler(recommender, stats, playlists, catalog, pool)

	log.Printf("soundprint api listening on %s", addr)

	srv := &http.Server{
		Addr:              addr,
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
