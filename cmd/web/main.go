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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"model-studio/internal/config"
	"model-studio/internal/directive"
	"model-studio/internal/gemini"
	"model-studio/internal/httpclient"
	"model-studio/internal/studio"
	"model-studio/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
		Logger:     logger.Named("http"),
	})

	gem, err := gemini.New(ctx, gemini.Options{
		APIKey:      cfg.GeminiAPIKey,
		BaseURL:     cfg.GeminiBaseURL,
		APIVersion:  cfg.GeminiAPIVersion,
		Model:       cfg.GeminiImageModel,
		AspectRatio: cfg.GeminiAspectRatio,
		HTTPClient:  httpClient,
		Logger:      logger.Named("gemini"),
	})
	if err != nil {
		return err
	}

	svc := studio.New(studio.Options{
		Assembler:    directive.NewAssembler(directive.Options{Strictness: cfg.Strictness}),
		Generator:    gem,
		Logger:       logger.Named("studio"),
		MaxAttempts:  cfg.GenerationMaxAttempts,
		RetryBackoff: cfg.GenerationRetryBackoff,
	})

	server := web.New(web.Options{
		Studio:         svc,
		Logger:         logger.Named("web"),
		MaxConcurrent:  cfg.MaxConcurrent,
		RequestTimeout: cfg.RequestTimeout,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:              cfg.WebAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web started",
			zap.String("addr", cfg.WebAddr),
			zap.String("strictness", string(svc.Strictness())),
			zap.String("model", cfg.GeminiImageModel),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
