package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"model-studio/internal/config"
	"model-studio/internal/directive"
	"model-studio/internal/gemini"
	"model-studio/internal/handlers"
	"model-studio/internal/httpclient"
	"model-studio/internal/mediagroup"
	"model-studio/internal/session"
	"model-studio/internal/studio"
	"model-studio/internal/telegram"
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
	if err := cfg.RequireTelegram(); err != nil {
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

	tg, err := telegram.New(telegram.Options{
		Token:      cfg.TelegramToken,
		HTTPClient: httpClient,
		Logger:     logger.Named("telegram"),
		Debug:      cfg.Debug,
	})
	if err != nil {
		return err
	}

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

	sessions := session.NewStore(session.Options{TTL: cfg.SessionTTL})

	handler := handlers.New(handlers.Options{
		Messenger: tg,
		Studio:    svc,
		Sessions:  sessions,
		Logger:    logger.Named("handlers"),
	})

	sem := make(chan struct{}, cfg.MaxConcurrent)
	onGroupFlush := func(group mediagroup.Group) {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return
		}

		go func() {
			defer func() { <-sem }()

			reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
			defer cancel()

			handler.HandleMediaGroup(reqCtx, group)
		}()
	}

	aggregator := mediagroup.New(mediagroup.Options{
		Debounce: cfg.MediaGroupDebounce,
		OnFlush:  onGroupFlush,
	})
	defer aggregator.Close()
	handler.SetMediaGroupAggregator(aggregator)

	go pruneSessions(ctx, sessions, logger)

	logger.Info("bot started",
		zap.String("username", tg.Username()),
		zap.String("strictness", string(svc.Strictness())),
	)

	updates := tg.Updates(telegram.UpdatesOptions{
		Timeout: 30 * time.Second,
	})
	defer tg.StopUpdates()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case update, ok := <-updates:
			if !ok {
				logger.Info("updates channel closed")
				return nil
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return nil
			}

			go func(update telegram.Update) {
				defer func() { <-sem }()

				reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
				defer cancel()

				if err := handler.HandleUpdate(reqCtx, update); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("handle update failed", zap.Error(err))
				}
			}(update)
		}
	}
}

func pruneSessions(ctx context.Context, sessions *session.Store, logger *zap.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Prune(); n > 0 {
				logger.Debug("sessions pruned", zap.Int("removed", n))
			}
		}
	}
}
