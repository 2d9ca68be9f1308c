package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/clinicbook/appointment-system/internal/api"
	"github.com/clinicbook/appointment-system/internal/config"
	"github.com/clinicbook/appointment-system/internal/core/domain"
	"github.com/clinicbook/appointment-system/internal/core/ports"
	"github.com/clinicbook/appointment-system/internal/core/service"
	mongodb "github.com/clinicbook/appointment-system/internal/infrastructure/db/mongo"
	redisdb "github.com/clinicbook/appointment-system/internal/infrastructure/db/redis"
	"github.com/clinicbook/appointment-system/pkg/logger"
)

// @title        Clinicbook Appointment API
// @version      1.0
// @description  Role-based appointment booking backend for admins, doctors, and patients.
// @BasePath     /
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env != "production",
	})

	ctx := context.Background()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	repos := api.Repositories{
		Users:        mongodb.NewUserRepository(db),
		Appointments: mongodb.NewAppointmentRepository(db),
		Tokens:       mongodb.NewTokenRepository(db),
	}
	if err := repos.Users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := repos.Appointments.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("appointment indexes failed")
	}
	if err := repos.Tokens.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("token indexes failed")
	}

	if err := ensureBootstrapAdmin(ctx, repos.Users, cfg.Admin); err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin failed")
	}

	e := api.NewRouter(db, rdb, repos, cfg.BaseURL)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

// ensureBootstrapAdmin creates the out-of-band admin account on first start.
// Skipped when no password is configured; idempotent when the account exists.
func ensureBootstrapAdmin(ctx context.Context, users ports.UserRepository, cfg config.AdminConfig) error {
	if cfg.Password == "" {
		return nil
	}

	_, err := users.FindByUsername(ctx, cfg.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	svc := service.NewUserService(users, nil, nil, logger.Get())
	_, err = svc.Create(ctx, ports.CreateUserInput{
		Username: cfg.Username,
		Email:    cfg.Email,
		Password: cfg.Password,
		Role:     domain.RoleAdmin,
	})
	if errors.Is(err, domain.ErrUserExists) {
		// lost a startup race to another replica
		return nil
	}
	return err
}
