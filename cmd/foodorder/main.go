package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodorder/internal/config"
	"foodorder/internal/database"
	"foodorder/internal/handler"
	"foodorder/internal/identity"
	"foodorder/internal/logger"
	"foodorder/internal/service"
)

func main() {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	db, err := database.NewDB(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(db)

	if err := database.InitSchema(ctx, db); err != nil {
		log.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}

	if cfg.SeedMeals {
		n, err := database.SeedMeals(ctx, db)
		if err != nil {
			log.Error("failed to seed meals", "error", err)
			os.Exit(1)
		}
		log.Info("meal catalog seeded", "inserted", n)
	}

	var provider identity.Provider
	if cfg.IdentityURL != "" {
		provider = identity.NewRemote(cfg.IdentityURL, cfg.IdentityAPIKey)
		log.Info("using remote identity provider", "url", cfg.IdentityURL)
	} else {
		provider = identity.NewLocal(db, cfg.JWTSecret, cfg.TokenTTL)
		log.Info("using local identity provider")
	}

	// Services
	profileSvc := service.NewProfileService(db)
	authSvc := service.NewAuthService(provider, profileSvc)
	mealSvc := service.NewMealService(db)
	orderSvc := service.NewOrderService(db)
	analyticsSvc := service.NewAnalyticsService(orderSvc, profileSvc)

	router := handler.NewRouter(handler.Deps{
		Logger:    log,
		Tokens:    provider,
		Admins:    profileSvc,
		Auth:      authSvc,
		Meals:     mealSvc,
		Orders:    orderSvc,
		Users:     profileSvc,
		Analytics: analyticsSvc,
	})

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	log.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	log.Info("shutting down...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		log.Error("server shutdown failed", "error", err)
	}

	log.Info("server stopped")
}
