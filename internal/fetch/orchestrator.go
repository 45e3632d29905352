package fetch

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/vburojevic/pcx/internal/cache"
	"github.com/vburojevic/pcx/internal/domain"
)

// Source is the subset of the API client the orchestrator needs.
type Source interface {
	Experiments(ctx context.Context) ([]domain.Experiment, error)
	Subjects(ctx context.Context) ([]domain.Subject, error)
	SessionsByExperiment(ctx context.Context, title string, mode domain.FetchMode) ([]domain.Session, error)
	SessionsBySubject(ctx context.Context, name string, mode domain.FetchMode) ([]domain.Session, error)
	SessionByID(ctx context.Context, id string, mode domain.FetchMode) (domain.SessionDetail, error)
}

// Orchestrator decides between cache hits and fetches for the three query
// shapes. Successful results are written back to the matching partition;
// failures are never cached and are returned unchanged.
//
// Concurrent misses for the same key share one in-flight request, so there
// is at most one outstanding fetch per (scope, key[, mode]).
type Orchestrator struct {
	src    Source
	store  *cache.Store
	flight singleflight.Group
	logger *zap.Logger
}

// New creates an orchestrator over src. A nil store gets a fresh one.
func New(src Source, store *cache.Store, logger *zap.Logger) *Orchestrator {
	if store == nil {
		store = cache.NewStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{src: src, store: store, logger: logger}
}

// Store exposes the underlying cache partitions
func (o *Orchestrator) Store() *cache.Store {
	return o.store
}

// Experiments reloads the experiment list. The by-experiment partition is
// cleared before the request goes out.
func (o *Orchestrator) Experiments(ctx context.Context) ([]domain.Experiment, error) {
	o.store.ByExperiment.Clear()
	return o.src.Experiments(ctx)
}

// Subjects reloads the subject list. The by-subject partition is cleared
// before the request goes out.
func (o *Orchestrator) Subjects(ctx context.Context) ([]domain.Subject, error) {
	o.store.BySubject.Clear()
	return o.src.Subjects(ctx)
}

// SessionsForExperiment returns the sessions of an experiment. The cache key
// is the title alone; mode only shapes the request.
func (o *Orchestrator) SessionsForExperiment(ctx context.Context, title string, mode domain.FetchMode) ([]domain.Session, bool, error) {
	return lookup(o, o.store.ByExperiment, title, flightKey("experiment", title, mode), func() ([]domain.Session, error) {
		return o.src.SessionsByExperiment(ctx, title, mode)
	})
}

// SessionsForSubject returns the sessions of a subject. The cache key is the
// display name alone; mode only shapes the request.
func (o *Orchestrator) SessionsForSubject(ctx context.Context, name string, mode domain.FetchMode) ([]domain.Session, bool, error) {
	return lookup(o, o.store.BySubject, name, flightKey("subject", name, mode), func() ([]domain.Session, error) {
		return o.src.SessionsBySubject(ctx, name, mode)
	})
}

// SessionDetail returns the document for (id, mode).
func (o *Orchestrator) SessionDetail(ctx context.Context, id string, mode domain.FetchMode) (domain.SessionDetail, bool, error) {
	key := cache.SessionKey{ID: id, Mode: mode}
	return lookup(o, o.store.BySession, key, flightKey("session", id, mode), func() (domain.SessionDetail, error) {
		return o.src.SessionByID(ctx, id, mode)
	})
}

// PeekDetail returns a cached document without touching the network.
func (o *Orchestrator) PeekDetail(id string, mode domain.FetchMode) (domain.SessionDetail, bool) {
	return o.store.BySession.Get(cache.SessionKey{ID: id, Mode: mode})
}

// InvalidateDetails drops every cached session document
func (o *Orchestrator) InvalidateDetails() {
	o.store.BySession.Clear()
}

// Reset drops every cached value in every partition
func (o *Orchestrator) Reset() {
	o.store.ClearAll()
}

// lookup is the shared hit-or-fetch algorithm. It reports whether the value
// came from the cache. A result is only written back if the partition was not
// cleared while it was in flight, and lookups after a clear never join a
// flight that started before it.
func lookup[K comparable, V any](o *Orchestrator, part *cache.Partition[K, V], key K, flight string, fetch func() (V, error)) (V, bool, error) {
	if v, ok := part.Get(key); ok {
		o.logger.Debug("cache hit", zap.String("key", flight))
		return v, true, nil
	}

	epoch := part.Epoch()
	res, err, shared := o.flight.Do(fmt.Sprintf("%s\x00%d", flight, epoch), func() (any, error) {
		v, err := fetch()
		if err != nil {
			return v, err
		}
		if !part.SetIfEpoch(key, v, epoch) {
			o.logger.Debug("partition cleared during fetch, result not cached", zap.String("key", flight))
		}
		return v, nil
	})
	if err != nil {
		o.logger.Debug("fetch failed", zap.String("key", flight), zap.Error(err))
		var zero V
		return zero, false, err
	}
	o.logger.Debug("fetched", zap.String("key", flight), zap.Bool("shared", shared))
	return res.(V), false, nil
}

func flightKey(scope, key string, mode domain.FetchMode) string {
	return fmt.Sprintf("%s\x00%s\x00%s", scope, key, mode)
}
