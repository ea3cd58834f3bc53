package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	ghclient "github.com/ksysoev/todo-action/pkg/github"
	"github.com/ksysoev/todo-action/pkg/logging"
	"github.com/ksysoev/todo-action/pkg/runner"
	"github.com/ksysoev/todo-action/pkg/server"
)

type config struct {
	Env           string
	Port          string
	GitHubToken   string
	APIURL        string
	ServerURL     string
	WebhookSecret string
	ConfigFile    string
	Debug         bool
}

func loadConfig() config {
	if getEnv("TODO_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	return config{
		Env:           getEnv("TODO_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		GitHubToken:   getEnv("GITHUB_TOKEN", ""),
		APIURL:        getEnv("GITHUB_API_URL", ""),
		ServerURL:     getEnv("GITHUB_SERVER_URL", ""),
		WebhookSecret: getEnv("GITHUB_WEBHOOK_SECRET", ""),
		ConfigFile:    getEnv("TODO_CONFIG_FILE", ""),
		Debug:         getEnv("TODO_DEBUG", "") != "",
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func main() {
	cfg := loadConfig()
	production := cfg.Env == "production"
	logger := logging.Setup(production, cfg.Debug)

	if cfg.GitHubToken == "" {
		logger.Error("GITHUB_TOKEN is required")
		os.Exit(1)
	}
	if cfg.WebhookSecret == "" {
		logger.Warn("GITHUB_WEBHOOK_SECRET is not set, webhook signatures are not verified")
	}
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	newRepo := func(repoFullName string) (runner.Repository, error) {
		var (
			client *ghclient.Client
			err    error
		)
		if cfg.APIURL != "" {
			client, err = ghclient.NewEnterpriseClient(cfg.GitHubToken, cfg.APIURL, repoFullName)
		} else {
			client, err = ghclient.NewClient(cfg.GitHubToken, repoFullName)
		}
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	handler := server.NewWebhookHandler(cfg.WebhookSecret, newRepo, runner.Options{
		ServerURL:  cfg.ServerURL,
		ConfigFile: cfg.ConfigFile,
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("webhook server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
}
