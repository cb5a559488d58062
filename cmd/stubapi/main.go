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

	"github.com/cx-tal-miterani/flightdesk/internal/config"
	"github.com/cx-tal-miterani/flightdesk/internal/logging"
	"github.com/cx-tal-miterani/flightdesk/internal/stubapi"
)

func main() {
	cfg := config.LoadStub(os.Getenv)
	logger := logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	repo := stubapi.NewRepository()
	if err := stubapi.Seed(ctx, repo); err != nil {
		logger.Error("seed data", "error", err)
		os.Exit(1)
	}

	issuer, err := stubapi.NewIssuer(cfg.Secret, stubapi.DefaultTokenTTL)
	if err != nil {
		logger.Error("create token issuer", "error", err)
		os.Exit(1)
	}
	if cfg.Secret == "" {
		logger.Warn("STUBAPI_SECRET not set, tokens are only valid until restart")
	}

	for _, name := range []string{stubapi.SeedAdmin, stubapi.SeedUser} {
		u, err := repo.GetUser(ctx, name)
		if err != nil {
			logger.Error("load seed user", "user", name, "error", err)
			os.Exit(1)
		}
		token, err := issuer.Issue(*u)
		if err != nil {
			logger.Error("issue token", "user", name, "error", err)
			os.Exit(1)
		}
		fmt.Printf("%s token (%s): %s\n", name, u.Role, token)
	}

	h := stubapi.NewHandler(repo, issuer, logger.With("component", "stubapi"))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      stubapi.NewRouter(h),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("stub API listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
