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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/agentboard/agentboard/internal/adapter/driven/github"
	"github.com/agentboard/agentboard/internal/adapter/driven/llm"
	"github.com/agentboard/agentboard/internal/adapter/driven/postgres"
	slackadapter "github.com/agentboard/agentboard/internal/adapter/driven/slack"
	httphandler "github.com/agentboard/agentboard/internal/adapter/driving/http"
	"github.com/agentboard/agentboard/internal/application"
	"github.com/agentboard/agentboard/internal/config"
	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"llm_provider", cfg.LLMProvider,
		"slack_notifications", cfg.HasSlackWebhook(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database.
	db, err := postgres.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened")

	// 4. Run migrations.
	if err := postgres.RunMigrations(db); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire persistence adapters.
	repoStore := postgres.NewRepoStore(db)
	todoStore := postgres.NewTodoStore(db)
	execStore := postgres.NewExecutionStore(db)

	// 6. Create GitHub client.
	ghClient := githubadapter.NewClient(cfg.GitHubToken)

	// 7. Create LLM completer wrapped with retry and timeout.
	completer, err := llm.NewProvider(ctx, cfg.LLMProvider, cfg.LLMModel, cfg.LLMAPIKey)
	if err != nil {
		return err
	}
	resilient := llm.NewResilientProvider(completer)
	slog.Info("llm provider created", "id", resilient.ID())

	// 8. Create optional Slack notifier.
	var notifier driven.Notifier
	if cfg.HasSlackWebhook() {
		notifier = slackadapter.NewNotifier(cfg.SlackWebhookURL)
		slog.Info("slack notifier created")
	}

	// 9. Create analysis cache and agent service.
	cache, err := application.NewAnalysisCache(cfg.AnalysisCache)
	if err != nil {
		return err
	}
	agentSvc := application.NewAgentService(ghClient, resilient, repoStore, todoStore, execStore, notifier, cache, slog.Default())

	// 10. Create HTTP handler and server.
	apiHandler := httphandler.NewHandler(ghClient, repoStore, todoStore, execStore, agentSvc, cache, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// The synchronous analyze endpoint waits on the LLM, which can take
		// up to two attempts under the completion timeout.
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("agentboard started", "listen_addr", cfg.ListenAddr)

	// 11. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 12. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
