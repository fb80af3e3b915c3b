package main

import (
	"context"
	"net/http"
	"os"
	"time"

	ga "pet-school-registry/internal/adapters/auth/googleid"
	mem "pet-school-registry/internal/adapters/storage/memory"
	mg "pet-school-registry/internal/adapters/storage/mongo"
	pg "pet-school-registry/internal/adapters/storage/postgres"
	"pet-school-registry/internal/platform/logger"
	"pet-school-registry/internal/ports/auth"
	"pet-school-registry/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	baseURL := os.Getenv("APP_URL")
	if baseURL == "" {
		baseURL = "http://localhost" + addr
	}

	opts := router.Options{BaseURL: baseURL, Log: log}

	// Auth real solo si hay client ID; si no, modo dev (X-Debug-User-ID).
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	if clientID != "" {
		var verifier auth.AuthVerifier = ga.NewVerifier(ga.NewClient(ga.Config{ClientID: clientID}))
		opts.AuthVerifier = verifier
		opts.Flow = ga.NewFlow(ga.FlowConfig{
			ClientID:     clientID,
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		}, mem.NewStateStore())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := pg.Open(dsn)
		if err != nil {
			log.Error("opening postgres", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		if err := pg.EnsureSchema(ctx, db); err != nil {
			log.Error("ensuring postgres schema", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		opts.DB = db
	} else if uri := os.Getenv("MONGO_URI"); uri != "" {
		client, err := mg.Connect(ctx, uri, 10*time.Second)
		if err != nil {
			log.Error("connecting to mongo", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		dbName := os.Getenv("MONGO_DB")
		if dbName == "" {
			dbName = "pet_school_registry"
		}
		mdb := client.Database(dbName)
		if err := mg.EnsureIndexes(ctx, mdb); err != nil {
			log.Error("ensuring mongo indexes", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		opts.Mongo = mdb
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
