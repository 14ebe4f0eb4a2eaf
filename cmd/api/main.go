package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/constructia/platform-api/internal/api"
	"github.com/constructia/platform-api/internal/api/metrics"
	"github.com/constructia/platform-api/internal/core/ports"
	"github.com/constructia/platform-api/internal/core/service"
	"github.com/constructia/platform-api/internal/infrastructure/audit"
	"github.com/constructia/platform-api/internal/infrastructure/config"
	mongodb "github.com/constructia/platform-api/internal/infrastructure/db/mongo"
	redisdb "github.com/constructia/platform-api/internal/infrastructure/db/redis"
	"github.com/constructia/platform-api/internal/infrastructure/store"
	"github.com/constructia/platform-api/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "constructia-api",
	})

	// --- Remote user table (optional: allow-list login survives without it) ---
	var (
		clientRepo ports.ClientRepository
		auditSink  audit.Sink = audit.NewJSONWriterSink(os.Stdout)
	)
	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Warn().Err(err).Msg("mongo unavailable, remote client lookups disabled")
	} else {
		defer func() { _ = mongoClient.Disconnect(ctx) }()
		clientRepo = mongodb.NewClientRepository(mongoDB)
		auditSink = audit.MultiSink{auditSink, mongodb.NewAuditSink(mongoDB)}
	}

	// --- Session store (Redis in production, in-memory fallback) ---
	var kv ports.KVStore
	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, using in-memory session store")
		kv = store.NewMemory()
	} else {
		defer func() { _ = redisClient.Close() }()
		kv = redisdb.NewKV(redisClient)
	}

	// --- Core wiring ---
	auditLog := audit.NewDispatcher(audit.Config{BufferSize: cfg.AuditBuffer}, auditSink)
	defer auditLog.Close()
	metrics.RegisterAuditDropped(func() float64 { return float64(auditLog.Dropped()) })

	authenticator := service.NewAuthenticator(clientRepo, service.DefaultAllowList(), service.PlaintextVerifier{}, cfg.FallbackPassword, log)
	gate := service.NewAdminGate(cfg.AdminPassphrase, authenticator, log)
	sessions := service.NewSessionManager(kv, log)

	e := api.NewRouter(api.Deps{
		Authenticator: authenticator,
		AdminGate:     gate,
		Sessions:      sessions,
		Audit:         auditLog,
		JWTSecret:     cfg.JWTSecret,
		Mongo:         mongoDB,
		Redis:         redisClient,
		Log:           log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("API listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown server")
	}
	log.Info().Msg("server stopped")
}
