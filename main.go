package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafeapi/auth"
	"cafeapi/config"
	"cafeapi/controller"
	"cafeapi/database"
	"cafeapi/logging"
	"cafeapi/repository"
	"cafeapi/route"
	"cafeapi/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	gin.SetMode(cfg.Server.Mode)
	if cfg.IsDebug() {
		log.Info().Msg("running in debug mode")
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database setup failed")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	keys, err := newAuthorizer(cfg.Auth)
	if err != nil {
		log.Fatal().Err(err).Msg("api key setup failed")
	}

	svc := service.NewCafeService(repository.NewGormCafeRepository(db), keys, service.Options{
		StrictBooleans: cfg.Cafe.StrictBooleans,
	})
	router := route.New(cfg, controller.NewCafeController(svc), db)
	log.Info().Strs("allowed_origins", cfg.Server.AllowedOrigins).Msg("routes configured")

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func newAuthorizer(cfg config.AuthConfig) (*auth.APIKeyAuthorizer, error) {
	if cfg.APIKeyHash != "" {
		return auth.NewAPIKeyAuthorizerFromHash(cfg.APIKeyHash)
	}
	return auth.NewAPIKeyAuthorizer(cfg.APIKey, bcrypt.DefaultCost)
}
