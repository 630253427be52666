package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stratovia/cloudgate/pkg/api"
	"github.com/stratovia/cloudgate/pkg/auth"
	"github.com/stratovia/cloudgate/pkg/cache"
	"github.com/stratovia/cloudgate/pkg/catalog"
	"github.com/stratovia/cloudgate/pkg/config"
	"github.com/stratovia/cloudgate/pkg/listing"
	"github.com/stratovia/cloudgate/pkg/machine"
	"github.com/stratovia/cloudgate/pkg/resolve"
)

func main() {
	log := logrus.New()

	// Configuration is validated before the gateway accepts any traffic;
	// a malformed feature or version setup is fatal here, not defaulted.
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}
	if cfg.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	var store cache.Store
	switch cfg.Cache.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
		})
		store = cache.NewRedisStore(client)
	default:
		store = cache.NewMemoryStore()
	}
	resultCache := cache.NewResultCache(store, cfg.CacheTTL(), log)

	packages := catalog.NewHTTPPackageClient(cfg.Backends.PackageURL, cfg.Backends.Timeout, log)
	images := catalog.NewHTTPImageClient(cfg.Backends.ImageURL, cfg.Backends.Timeout, log)
	machines := machine.NewHTTPClient(cfg.Backends.MachineURL, cfg.Backends.Timeout, log)

	resolver := resolve.New(packages, images, log)
	pipeline := listing.New(packages, images, resultCache, log)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, 24*time.Hour)

	server := api.NewServer(cfg, log, jwtManager, resolver, pipeline, machines)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}
