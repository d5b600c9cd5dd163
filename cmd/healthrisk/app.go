package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Pawan-142/healthrisk/internal/config"
	"github.com/Pawan-142/healthrisk/internal/db"
	dbRedis "github.com/Pawan-142/healthrisk/internal/db/redis"
	"github.com/Pawan-142/healthrisk/internal/domain/feature"
	"github.com/Pawan-142/healthrisk/internal/registry"
	predictionuc "github.com/Pawan-142/healthrisk/internal/usecase/prediction"
)

var errNoStore = errors.New("models.source is kv but no store.addrs are configured")

// openStore connects to the configured key-value store and waits for it.
// It returns a nil Store when no addresses are configured.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (db.Store, error) {
	if len(cfg.Store.Addrs) == 0 {
		return nil, nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Store.Addrs,
		Password: cfg.Store.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Store.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("store not ready: %w", err)
	}
	logger.Info("Connected to store", zap.Strings("addrs", cfg.Store.Addrs))
	return store, nil
}

// loadRegistry builds the model registry from the configured artifact source.
// A nil reporter discards load outcomes.
func loadRegistry(
	ctx context.Context,
	cfg config.Config,
	store db.Store,
	reporter registry.Reporter,
) (*registry.Registry, error) {
	opts := []registry.Option{}
	if reporter != nil {
		opts = append(opts, registry.WithReporter(reporter))
	}

	if cfg.Models.Source == config.SourceKV {
		if store == nil {
			return nil, errNoStore
		}
		opts = append(opts, registry.WithSource(registry.NewKVSource(store)))
		return registry.Load(ctx, registry.KVRefs(), opts...), nil
	}

	refs, err := cfg.ArtifactPaths()
	if err != nil {
		return nil, fmt.Errorf("artifact paths: %w", err)
	}
	opts = append(opts, registry.WithSource(registry.FileSource{Dir: cfg.Models.Dir}))
	return registry.Load(ctx, refs, opts...), nil
}

func newPredictionService(cfg config.Config, reg *registry.Registry, logger *zap.Logger) *predictionuc.Service {
	builder := feature.NewBuilder(feature.RangePolicy(cfg.Features.OutOfRange))
	return predictionuc.New(reg, builder, logger).WithCache(cfg.Prediction.CacheSize)
}
