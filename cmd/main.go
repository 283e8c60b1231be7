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

	"github.com/nayan91296/TT-scrore-board-sub000/brackets"
	"github.com/nayan91296/TT-scrore-board-sub000/config"
	"github.com/nayan91296/TT-scrore-board-sub000/db"
	"github.com/nayan91296/TT-scrore-board-sub000/handlers"
	"github.com/nayan91296/TT-scrore-board-sub000/repositories"
	"github.com/nayan91296/TT-scrore-board-sub000/routes"
	"github.com/nayan91296/TT-scrore-board-sub000/services"
	"github.com/nayan91296/TT-scrore-board-sub000/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

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

	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("R2 not configured, logo uploads disabled")
	}

	wsHub := brackets.NewHub()
	go wsHub.Run()

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)

	jwtSecret := []byte(cfg.JWTSecretKey)
	authService := services.NewAuthService(cfg.AdminPINHash, jwtSecret)
	bracketService := services.NewBracketService(tournamentRepo, teamRepo, matchRepo, brackets.NewRoundRobinGenerator(), wsHub, logger)
	progressionService := services.NewProgressionService(tournamentRepo, teamRepo, matchRepo, bracketService, wsHub, logger)
	scoringService := services.NewScoringService(matchRepo, progressionService, wsHub, logger)
	standingsService := services.NewStandingsService(tournamentRepo, teamRepo, matchRepo, logger)
	tournamentService := services.NewTournamentService(tournamentRepo, teamRepo, matchRepo, logger)
	teamService := services.NewTeamService(teamRepo, tournamentRepo, playerRepo, uploader, logger)
	playerService := services.NewPlayerService(playerRepo, teamRepo)
	matchService := services.NewMatchService(matchRepo, teamRepo, tournamentRepo, progressionService, wsHub, logger)
	logger.Info("services initialized")

	router := routes.InitRoutes(routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Tournament: handlers.NewTournamentHandler(tournamentService, standingsService, bracketService, matchService),
		Team:       handlers.NewTeamHandler(teamService, playerService),
		Match:      handlers.NewMatchHandler(matchService, scoringService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub),
	}, jwtSecret)

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
	}
	logger.Info("application exited")
}
