package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/logger"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/metrics"
)

// GetOrCompute returns the cached value for key, or runs compute and caches
// its result. The bool reports a cache hit. Undecodable entries are treated
// as misses and overwritten; a failed write is logged and the fresh value is
// still returned.
func GetOrCompute[T any](ctx context.Context, store Store, key Key, compute func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	log := logger.Get().Named("cache")

	data, err := store.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		derr := json.Unmarshal(data, &v)
		if derr == nil {
			metrics.RecordCacheHit(key.Kind)
			log.Debug(ctx, "cache hit", logger.String("key", key.String()))
			return v, true, nil
		}
		metrics.RecordCacheError("decode")
		log.Warn(ctx, "discarding undecodable cache entry", logger.String("key", key.String()), logger.Error(derr))
	case errors.Is(err, ErrNotFound):
	default:
		metrics.RecordCacheError("get")
		return zero, false, fmt.Errorf("cache lookup: %w", err)
	}

	metrics.RecordCacheMiss(key.Kind)
	v, err := compute(ctx)
	if err != nil {
		return zero, false, err
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		metrics.RecordCacheError("encode")
		log.Warn(ctx, "result not cached", logger.String("key", key.String()), logger.Error(err))
		return v, false, nil
	}
	if err := store.Put(ctx, key, encoded); err != nil {
		metrics.RecordCacheError("put")
		log.Warn(ctx, "result not cached", logger.String("key", key.String()), logger.Error(err))
	}
	return v, false, nil
}
