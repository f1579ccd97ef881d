package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"inventory-manager/core/cache"
	"inventory-manager/core/config"
	"inventory-manager/core/database"
	"inventory-manager/core/logger"
	"inventory-manager/core/metrics"
	"inventory-manager/core/storage"
	"inventory-manager/core/variant"
	"inventory-manager/feature/inventory"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the wired dependencies shared by every command.
type runtime struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	storage   storage.Client
	repo      *inventory.Repository
	snapshots *inventory.SnapshotStore
	backend   inventory.Backend
	cache     cache.Store
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	inventory *inventory.Service
}

// bootstrap loads the configuration and wires logger, database, storage,
// backend, cache and metrics. The database is optional for the snapshot
// backend.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logg}

	if conn, err := database.Connect(cfg.Database); err != nil {
		if cfg.Engine.Backend == variant.BackendDatabase {
			return nil, fmt.Errorf("database connection required: %w", err)
		}
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		rt.db = conn
		rt.repo = inventory.NewRepository(conn)
		logg.Info("Connected to inventory database", zap.String("driver", cfg.Database.Driver))
	}

	if client, err := storage.NewClient(cfg.Storage); err != nil {
		if cfg.Engine.Backend == variant.BackendSnapshot {
			return nil, fmt.Errorf("storage required for snapshot backend: %w", err)
		}
		logg.Warn("Optional storage client failed", zap.Error(err))
	} else {
		rt.storage = client
	}

	switch cfg.Engine.Backend {
	case variant.BackendSnapshot:
		rt.snapshots = inventory.NewSnapshotStore(rt.storage, cfg.Storage.Bucket, cfg.Storage.SnapshotObject)
		rt.backend = rt.snapshots
	default:
		rt.backend = rt.repo
	}

	store, err := cache.NewStore(ctx, cfg.Cache)
	if err != nil {
		logg.Warn("Cache unavailable, falling back to memory", zap.String("driver", cfg.Cache.Driver), zap.Error(err))
		store = cache.WithPrefix(cache.NewMemoryStore(), cfg.Cache.Prefix)
	}
	rt.cache = store

	rt.registry = prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		rt.metrics = metrics.New(cfg.Metrics.Namespace, rt.registry)
	}

	rt.inventory = inventory.NewService(rt.backend, rt.cache, cfg.Cache.TTL(), cfg.Engine, rt.metrics, logg)
	return rt, nil
}

// close releases the cache connection and flushes the logger.
func (rt *runtime) close() {
	if c, ok := rt.cache.(io.Closer); ok {
		if err := c.Close(); err != nil {
			rt.logger.Warn("Failed to close cache", zap.Error(err))
		}
	}
	_ = rt.logger.Sync()
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
