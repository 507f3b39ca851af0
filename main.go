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

	"github.com/isdelr/taskmanager-be/internal/api"
	"github.com/isdelr/taskmanager-be/internal/auth"
	"github.com/isdelr/taskmanager-be/internal/config"
	"github.com/isdelr/taskmanager-be/internal/database"
	"github.com/isdelr/taskmanager-be/internal/logger"
	"github.com/isdelr/taskmanager-be/internal/monitoring"
	"github.com/isdelr/taskmanager-be/internal/services"
	"github.com/isdelr/taskmanager-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	// Set up database
	store, backend, err := database.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer store.Close()
	log.Info().Str("backend", string(backend)).Msg("Database connected")

	tokens, err := auth.NewTokenService(cfg.JWTSecret, auth.TokenLifetime, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token service")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up and run the store health monitor
	healthMonitor, err := monitoring.NewHealthMonitor(store, cfg.HealthCheckSchedule, 5*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize health monitor")
	}
	healthMonitor.Start()

	// Set up services
	eventService := services.NewEventService(store, hub)
	userService, err := services.NewUserService(store, eventService, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize user service")
	}
	taskService := services.NewTaskService(store, eventService)

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Users:          userService,
		Tasks:          taskService,
		Events:         eventService,
		Tokens:         tokens,
		Health:         healthMonitor,
		Hub:            hub,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	healthMonitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}
