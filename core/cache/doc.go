// Package cache provides the read-through caches of the service.
//
// A Store holds raw bytes with expiry. MemoryStore serves single-instance
// deployments and tests; RedisStore shares entries between instances.
// Loader adds typed JSON encoding on top of a Store and collapses concurrent
// misses for one key with singleflight, so a cold key triggers one upstream
// load regardless of how many requests arrive at once.
//
//	schemas := cache.NewLoader[*variant.Schema]("schema", store, "schema:", cfg.TTL())
//	schema, err := schemas.GetOrLoad(ctx, key, func(ctx context.Context) (*variant.Schema, bool, error) {
//	    s := load(ctx)
//	    return s, len(s.Degraded) == 0, nil
//	})
package cache
