package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Lookup results reported to the observer.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// LoadFunc produces a value on a cache miss. store reports whether the value
// may be cached.
type LoadFunc[T any] func(ctx context.Context) (value T, store bool, err error)

// Loader is a typed read-through cache over a Store. Concurrent misses for
// the same key share one LoadFunc call.
type Loader[T any] struct {
	name     string
	store    Store
	prefix   string
	ttl      time.Duration
	timeout  time.Duration
	group    singleflight.Group
	observer func(name, result string)
}

// NewLoader creates a Loader. name identifies the cache in observations.
func NewLoader[T any](name string, store Store, prefix string, ttl time.Duration) *Loader[T] {
	return &Loader[T]{name: name, store: store, prefix: prefix, ttl: ttl}
}

// Observe registers a callback receiving every lookup result.
func (l *Loader[T]) Observe(fn func(name, result string)) *Loader[T] {
	l.observer = fn
	return l
}

// WithTimeout bounds each shared load. Loads run detached from the
// caller's cancellation, so without a timeout they run until load returns.
func (l *Loader[T]) WithTimeout(d time.Duration) *Loader[T] {
	l.timeout = d
	return l
}

func (l *Loader[T]) observe(result string) {
	if l.observer != nil {
		l.observer(l.name, result)
	}
}

// GetOrLoad returns the cached value for key or loads and stores it. Store
// read and write failures fall back to loading; they never fail the call.
// Concurrent callers share one load, which keeps running when a caller
// gives up; each caller returns on its own context.
func (l *Loader[T]) GetOrLoad(ctx context.Context, key string, load LoadFunc[T]) (T, error) {
	full := l.prefix + key

	if b, err := l.store.Get(ctx, full); err == nil {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			l.observe(ResultHit)
			return v, nil
		}
		l.observe(ResultError)
	} else if errors.Is(err, ErrMiss) {
		l.observe(ResultMiss)
	} else {
		l.observe(ResultError)
	}

	ch := l.group.DoChan(full, func() (any, error) {
		lctx := context.WithoutCancel(ctx)
		if l.timeout > 0 {
			var cancel context.CancelFunc
			lctx, cancel = context.WithTimeout(lctx, l.timeout)
			defer cancel()
		}

		v, cacheable, err := load(lctx)
		if err != nil {
			return v, err
		}
		if cacheable {
			if b, err := json.Marshal(v); err == nil {
				_ = l.store.Set(lctx, full, b, l.ttl)
			}
		}
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Invalidate removes key from the store.
func (l *Loader[T]) Invalidate(ctx context.Context, key string) error {
	return l.store.Delete(ctx, l.prefix+key)
}
