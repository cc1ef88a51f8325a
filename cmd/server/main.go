package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/cryptodesk/trading-platform/internal/api"
	"github.com/cryptodesk/trading-platform/internal/core/ports"
	"github.com/cryptodesk/trading-platform/internal/core/service"
	"github.com/cryptodesk/trading-platform/internal/infrastructure/config"
	mongodb "github.com/cryptodesk/trading-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/cryptodesk/trading-platform/internal/infrastructure/db/redis"
	"github.com/cryptodesk/trading-platform/internal/infrastructure/identity"
	"github.com/cryptodesk/trading-platform/internal/infrastructure/queue"
	"github.com/cryptodesk/trading-platform/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		logger.Get().Fatal().Err(err).Msg("configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	// --- Backing stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection")
	}
	defer func() { _ = rdb.Close() }()

	// --- Credential verification backend ---
	var verifier ports.CredentialVerifier
	switch cfg.Auth.Backend {
	case config.BackendHTTP:
		verifier = identity.NewHTTPVerifier(cfg.Auth.BackendURL, cfg.Auth.Timeout)
	default:
		verifier = identity.NewMongoVerifier(mongodb.NewUserRepository(db))
	}

	// --- Audit pipeline ---
	auditService := service.NewAuditService(mongodb.NewAuditRepository(db), log)
	dispatcher := queue.NewDispatcher(0, auditService, log)
	dispatcher.Start(ctx)

	// --- Core services ---
	revoker := redisdb.NewRevocationStore(rdb)
	codec := service.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)
	authService := service.NewAuthService(verifier, codec, revoker, dispatcher, cfg.Auth.Timeout, log)

	e := api.NewRouter(api.Deps{
		AuthService:  authService,
		Codec:        codec,
		Revoker:      revoker,
		Audit:        dispatcher,
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: cfg.IsProduction(),
		Mongo:        db,
		Redis:        rdb,
		Log:          log,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		_ = e.Shutdown(context.Background())
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
	if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
