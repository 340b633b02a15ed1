package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/config"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/db"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/engine"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/handlers"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/live"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/middleware"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/repositories"
	api "github.com/stillerfuchssss/Tennis-Tournament-sub000/routes"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	bootstrap := db.NewBootstrapper()
	if err := bootstrap.Migrate(dbConn); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database schema up to date", slog.String("state", bootstrap.State().String()))

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	documentRepo := repositories.NewPostgresDocumentRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	adminRepo := repositories.NewPostgresAdminRepository(dbConn)

	classifier := engine.NewClassifier(cfg.SeasonYear)

	authService := services.NewAuthService(adminRepo, cfg.JWTSecretKey)
	playerService := services.NewPlayerService(documentRepo, resultRepo, classifier)
	tournamentService := services.NewTournamentService(documentRepo, resultRepo)
	scheduleService := services.NewScheduleService(documentRepo, classifier, hub)
	resultService := services.NewResultService(resultRepo, documentRepo, hub)
	rankingService := services.NewRankingService(resultRepo, documentRepo, classifier)
	logger.Info("services initialized")

	h := api.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Player:     handlers.NewPlayerHandler(playerService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Schedule:   handlers.NewScheduleHandler(scheduleService),
		Result:     handlers.NewResultHandler(resultService),
		Ranking:    handlers.NewRankingHandler(rankingService),
		WebSocket:  handlers.NewWebSocketHandler(hub),
		Health:     handlers.NewHealthHandler(dbConn, bootstrap),
	}
	router := api.InitRoutes(h, middleware.NewAuthenticator(cfg.JWTSecretKey))
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
