package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"users-api/internal/config"
	"users-api/internal/database"
	"users-api/internal/events"
	"users-api/internal/handlers"
	"users-api/internal/repository"
	"users-api/internal/server"
	"users-api/internal/services"
	"users-api/internal/telemetry"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const configPathEnv = "USERS_API_CONFIG"

func Run() {
	// Load configuration
	configPath := os.Getenv(configPathEnv)
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	// Setup tracing
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup tracing")
	}

	// Connect to database
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	// Initialize notifiers
	likeHub := services.NewLikeHub()
	notifiers := []services.LikeNotifier{likeHub}

	var nc *nats.Conn
	if cfg.NATS.URL != "" {
		nc, err = events.Connect(cfg.NATS.URL)
		if err != nil {
			log.Fatal().Err(err).Str("url", cfg.NATS.URL).Msg("Failed to connect to NATS")
		}
		notifiers = append(notifiers, events.NewNatsPublisher(nc, cfg.NATS.Subject))
	}

	// Initialize services
	userService := services.NewUserService(userRepo, likeRepo, notifiers...)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	streamHandler := handlers.NewLikeStreamHandler(likeHub, userService)

	srv := server.New(cfg.Server, server.NewRouter(cfg, userHandler, streamHandler))

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Hijacked connections are not closed by Shutdown
	likeHub.Close()

	if nc != nil {
		if err := nc.Drain(); err != nil {
			log.Error().Err(err).Msg("Failed to drain NATS connection")
		}
	}

	db.Close()

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level, format string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
