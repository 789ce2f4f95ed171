package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Amaytushin/Ratatouille-tusul/config"
	"github.com/Amaytushin/Ratatouille-tusul/internal/database"
	"github.com/Amaytushin/Ratatouille-tusul/internal/logging"
	"github.com/Amaytushin/Ratatouille-tusul/internal/repository"
	"github.com/Amaytushin/Ratatouille-tusul/internal/router"
	"github.com/Amaytushin/Ratatouille-tusul/internal/server"
	"github.com/Amaytushin/Ratatouille-tusul/internal/service"
	"github.com/Amaytushin/Ratatouille-tusul/internal/storage"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := database.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	// Redis only backs the write rate limiter; run without it when unreachable.
	var redisClient redis.Cmdable
	if client, err := database.NewRedisClient(cfg); err != nil {
		logrus.WithError(err).Warn("Redis unavailable, write rate limiting disabled")
	} else {
		defer client.Close()
		redisClient = client
	}

	images, err := storage.New(context.Background(), cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize image storage")
	}

	repos := repository.New(db)
	services := &service.Services{
		Auth:      service.NewAuthService(repos.Users, cfg.JWTSecret, cfg.JWTTTL),
		Users:     service.NewUserService(repos.Users, images),
		Recipes:   service.NewRecipeService(repos, images),
		Catalog:   service.NewCatalogService(repos, images),
		Wishlists: service.NewWishlistService(repos),
		Ratings:   service.NewRatingService(repos),
	}

	handler := router.SetupRouter(cfg, router.Dependencies{
		DB:       db,
		Redis:    redisClient,
		Services: services,
		Users:    repos.Users,
		Images:   images,
	})
	srv := server.New(cfg, handler)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logrus.WithError(err).Fatal("Server error")
		}
	case sig := <-quit:
		logrus.WithField("signal", sig.String()).Info("Received signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown error")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logrus.Info("Server stopped")
}
