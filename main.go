package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/camden-git/familymapbackend/config"
	"github.com/camden-git/familymapbackend/database"
	"github.com/camden-git/familymapbackend/graph"
	"github.com/camden-git/familymapbackend/handlers"
	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/realtime"
	"github.com/camden-git/familymapbackend/services"
	"github.com/camden-git/familymapbackend/workers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("FATAL: Failed to build logger: %v", err)
	}
	defer lg.Sync()

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			lg.Fatal("Failed to create database directory", "dir", dir, "error", err)
		}
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		lg.Fatal("Failed to initialize database", "error", err)
	}
	defer db.Close()

	var family services.FamilyService
	var local *services.LocalService
	switch cfg.ServiceMode {
	case config.ServiceModeRemote:
		family = services.NewRemoteService(cfg.ServiceURL, cfg.ServiceTimeout, cfg.ServiceRatePerSecond, lg.With("component", "remote_service"))
		lg.Info("Using remote family service", "url", cfg.ServiceURL)
	default:
		gormDB, err := database.InitGormDB(cfg.DatabasePath, gormlogger.Warn)
		if err != nil {
			lg.Fatal("Failed to initialize GORM", "error", err)
		}
		if err := database.AutoMigrateModels(gormDB); err != nil {
			lg.Fatal("Failed to migrate database", "error", err)
		}
		local = services.NewLocalService(gormDB, lg.With("component", "local_service"))
		family = local
		lg.Info("Using local family service", "database", cfg.DatabasePath)
	}

	hub := realtime.NewHub(lg.With("component", "realtime"))
	go hub.Run()

	pool := workers.NewPool(cfg.ComputeQueueSize, cfg.NumComputeWorkers, lg.With("component", "compute"))
	defer pool.Stop()

	sessions := services.NewSessionService(family, services.NewSessionManager(), hub, lg.With("component", "sessions"))

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	handlers.MountAPI(r, handlers.RouterDeps{
		Sessions: sessions,
		JWT:      handlers.NewJWTManager(cfg.JWTSecret, cfg.JWTExpirationHours),
		Prefs:    db,
		Pool:     pool,
		Searches: workers.NewSearchCoordinator(),
		Hub:      hub,
		Style: graph.LineStyle{
			BaseWidth:      cfg.LineBaseWidth,
			GenerationStep: cfg.LineGenerationStep,
			MinWidth:       cfg.LineMinWidth,
		},
		Log:      lg.With("component", "api"),
		Local:    local,
		AdminKey: cfg.AdminKey,
	})

	serverAddr := ":" + cfg.Port
	fmt.Printf("Server starting on http://localhost:%s\n", cfg.Port)
	lg.Info("Server listening", "addr", serverAddr, "mode", cfg.ServiceMode)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("Server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	lg.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		lg.Error("Graceful shutdown failed", "error", err)
	}
}
