package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mfsandbox/camacho-chat/internal/config"
	"github.com/mfsandbox/camacho-chat/internal/handler"
	chatHandler "github.com/mfsandbox/camacho-chat/internal/handler/chat"
	"github.com/mfsandbox/camacho-chat/internal/logging"
	"github.com/mfsandbox/camacho-chat/internal/model/persona"
	"github.com/mfsandbox/camacho-chat/internal/service/ai"
	"github.com/mfsandbox/camacho-chat/internal/service/history"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Info("no .env file loaded, continuing with system environment variables only", zap.Error(envErr))
	}

	personaStore := persona.NewMemoryStore(persona.Seed())
	historySvc := history.NewService()

	var gen chatHandler.Generator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, personaStore, cfg.AI, logger.Named("ai"))
		if err != nil {
			logger.Warn("failed to initialize AI service, /chat will answer 503", zap.Error(err))
		} else {
			gen = aiService
			logger.Info("AI service initialized", zap.String("model", cfg.AI.Model), zap.String("persona", cfg.AI.PersonaID))
		}
	} else {
		logger.Warn("Ark credentials not configured, skipping AI initialization")
	}

	router := handler.NewRouter(handler.Deps{
		History:     historySvc,
		Personas:    personaStore,
		PersonaID:   cfg.AI.PersonaID,
		Generator:   gen,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger.Named("http"),
	})

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("Camacho backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
