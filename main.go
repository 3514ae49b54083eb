package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"roadtrip/config"
	"roadtrip/db"
	"roadtrip/export"
	"roadtrip/gmaps"
	"roadtrip/hub"
	"roadtrip/logging"
	"roadtrip/middleware"
	"roadtrip/mq"
	"roadtrip/ratelim"
	"roadtrip/rdx"
	"roadtrip/routes"
	"roadtrip/session"
	"roadtrip/tripdata"
)

const (
	sessionSweepInterval = 5 * time.Minute
	photoTimeout         = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// document store
	var store db.DocumentStore
	switch cfg.Store {
	case "memory":
		slog.Warn("Using the in-memory store; trip data is lost on restart")
		store = db.NewMemStore()
	default:
		mongoStore, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			slog.Error("Mongo unavailable", "error", err)
			os.Exit(1)
		}
		defer mongoStore.Close(context.Background())
		store = mongoStore
	}
	repo := tripdata.NewRepo(store, cfg.Members)

	// maps gateway
	client, err := gmaps.NewClient(gmaps.Options{
		APIKey:   cfg.MapsAPIKey,
		Language: cfg.MapsLanguage,
		Country:  cfg.MapsRegion,
		QPS:      cfg.MapsQPS,
	})
	if err != nil {
		slog.Error("Maps client", "error", err)
		os.Exit(1)
	}
	var gateway gmaps.Gateway = client

	changes := hub.NewHub()
	go changes.Run()

	// redis is optional: lookups cache, logouts and change events are shared
	// across instances when it is there
	var (
		revoker  session.Revoker
		notifier mq.Notifier = mq.NewEmitter(nil, changes)
	)
	if cfg.RedisURL != "" {
		rs, err := rdx.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			slog.Warn("Redis unavailable; running without it", "error", err)
		} else {
			defer rs.Close()
			gateway = gmaps.NewCached(client, rs)
			revoker = rs
			notifier = mq.NewEmitter(rs, changes)
			go mq.RunWorker(ctx, rs.Subscribe(ctx, mq.Channel), changes)
		}
	}

	sessions := session.NewManager(cfg.SessionTTL, revoker)
	go sessions.Run(ctx, sessionSweepInterval)

	loginLimiter := ratelim.NewLoginLimiter()
	go loginLimiter.Run(ctx)

	router := httprouter.New()
	err = routes.RoutesWrapper(router, routes.Deps{
		Repo:      repo,
		Gateway:   gateway,
		Sessions:  sessions,
		Notifier:  notifier,
		Hub:       changes,
		Limiter:   loginLimiter,
		PDF:       &export.PDF{Photos: export.NewHTTPPhotos(photoTimeout), FontFile: cfg.PDFFont},
		Password:  cfg.AppPassword,
		JWTSecret: []byte(cfg.JWTSecret),
	})
	if err != nil {
		slog.Error("Failed to build routes", "error", err)
		os.Exit(1)
	}

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := middleware.Logging(middleware.SecurityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		slog.Info("Shutting down change feed")
		changes.Stop()
	})

	go func() {
		slog.Info("Server listening", "addr", cfg.Port, "store", cfg.Store)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("ListenAndServe error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("Shutdown signal received; shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		return
	}
	slog.Info("Server stopped cleanly")
}
