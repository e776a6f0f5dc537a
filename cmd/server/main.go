package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/config"
	"github.com/nneonya/Travel-app/internal/database"
	"github.com/nneonya/Travel-app/internal/handlers"
	"github.com/nneonya/Travel-app/internal/migrations"
	"github.com/nneonya/Travel-app/internal/server"
	"github.com/nneonya/Travel-app/internal/services"
	"github.com/nneonya/Travel-app/pkg/logger"
)

func main() {
	rollback := flag.String("rollback", "", "revert the named data migration and exit")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Env, cfg.LogLevel)

	logger.Info().Str("environment", cfg.Env).Msg("Starting travel API")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database schema")
	}
	if *rollback != "" {
		if err := migrations.NewMigrator(db).Rollback(*rollback); err != nil {
			logger.Fatal().Err(err).Str("migration", *rollback).Msg("Rollback failed")
		}
		logger.Info().Str("migration", *rollback).Msg("Migration rolled back")
		return
	}

	if err := migrations.NewMigrator(db).Run(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run data migrations")
	}
	logger.Info().Msg("Database migrations complete")

	ctx := context.Background()
	cache := database.NewCache(ctx, cfg)
	defer cache.Close()

	socketServer := handlers.InitSocketServer(cfg, handlers.DBChatMembership(db))
	go func() {
		if err := socketServer.Serve(); err != nil {
			logger.Error().Err(err).Msg("Socket server stopped")
		}
	}()
	defer socketServer.Close()

	h := handlers.New(handlers.Deps{
		DB:     db,
		Config: cfg,
		Hub:    socketServer,
		Files:  services.NewFileStore(ctx, cfg),
		Cache:  cache,
	})

	r := server.NewRouter(server.Options{
		Config:    cfg,
		DB:        db,
		Cache:     cache,
		Handler:   h,
		Socket:    socketServer,
		RateLimit: true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
