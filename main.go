package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	apirest "github.com/kawasemi/dungeon-crawler/server/api/rest"
	"github.com/kawasemi/dungeon-crawler/server/audit"
	"github.com/kawasemi/dungeon-crawler/server/blob"
	"github.com/kawasemi/dungeon-crawler/server/config"
	"github.com/kawasemi/dungeon-crawler/server/save"
	"github.com/kawasemi/dungeon-crawler/server/scheduler"
	"go.uber.org/zap"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if cfg.Security.AdminKeyHash == "" {
		logger.Warn("security.admin_key_hash is not set; admin endpoints are disabled")
	}
	if cfg.Security.JWTSecret == "" {
		// Sessions will not survive a restart with an ephemeral secret.
		cfg.Security.JWTSecret = uuid.NewString()
		logger.Warn("security.jwt_secret is not set; using an ephemeral secret")
	}

	// ---- Blob store (snapshot + legacy keys) ----
	blobs, err := blob.NewStore(blob.Config{
		RedisAddr:     cfg.Storage.RedisAddr,
		RedisPassword: cfg.Storage.RedisPassword,
		RedisDB:       cfg.Storage.RedisDB,
		LocalDir:      cfg.Storage.LocalDir,
	})
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	logger.Info("blob store initialized")

	// ---- Save store ----
	ctx := context.Background()
	store, err := save.Open(ctx, cfg.Database, blobs, logger)
	if err != nil {
		log.Fatalf("save store: %v", err)
	}
	defer store.Close()
	logger.Info("save store initialized")

	if err := save.MigrateLegacy(ctx, blobs, store, logger); err != nil {
		logger.Warn("legacy migration failed", zap.Error(err))
	}

	// ---- Audit ----
	auditSvc := audit.New(store.DB(), logger)
	defer auditSvc.Stop(ctx)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	sched.AddTicker("snapshot_flush", cfg.Storage.FlushInterval, func() {
		if err := store.Flush(); err != nil {
			logger.Warn("periodic snapshot flush failed", zap.Error(err))
		}
	})

	// ---- HTTP ----
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	r := apirest.NewRouter(cfg, store, auditSvc, rng, logger)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
