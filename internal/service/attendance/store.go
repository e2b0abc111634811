package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/metrics"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const loadKey = "dataset"

// defaultLoadTimeout bounds a shared source load, which outlives the
// request that started it.
const defaultLoadTimeout = time.Minute

// RecordStore caches the normalized dataset of a source for a fixed TTL.
// Concurrent misses share a single load. A TTL <= 0 keeps the dataset until
// Invalidate is called.
type RecordStore struct {
	loader      attendance.SourceLoader
	rules       RuleTable
	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time

	mu      sync.RWMutex
	current *attendance.Dataset
	// generation is bumped by Invalidate; loads started under an older
	// generation are returned to their callers but never cached.
	generation uint64
	group      singleflight.Group
	onLoad     []func(*attendance.Dataset)
}

func NewRecordStore(loader attendance.SourceLoader, rules RuleTable, ttl time.Duration) *RecordStore {
	return &RecordStore{
		loader:      loader,
		rules:       rules,
		ttl:         ttl,
		loadTimeout: defaultLoadTimeout,
		now:         time.Now,
	}
}

// Dataset returns the cached dataset, loading it when missing or expired.
func (s *RecordStore) Dataset(ctx context.Context) (*attendance.Dataset, error) {
	if ds := s.fresh(); ds != nil {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return ds, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	ch := s.group.DoChan(loadKey, func() (interface{}, error) {
		// A flight that finished since the miss may already have stored it
		if ds := s.fresh(); ds != nil {
			return ds, nil
		}
		// Detached from the caller: every waiter shares this load
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		return s.load(loadCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*attendance.Dataset), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// OnLoad registers fn to run after every successful load. Register hooks
// before the store is shared.
func (s *RecordStore) OnLoad(fn func(*attendance.Dataset)) {
	s.onLoad = append(s.onLoad, fn)
}

// Invalidate drops the cached dataset; the next lookup reloads.
func (s *RecordStore) Invalidate() {
	s.mu.Lock()
	s.current = nil
	s.generation++
	s.mu.Unlock()
	s.group.Forget(loadKey)
}

// Reload invalidates the cache and loads the source again.
func (s *RecordStore) Reload(ctx context.Context) (*attendance.Dataset, error) {
	s.Invalidate()
	return s.Dataset(ctx)
}

// fresh returns the cached dataset unless it is missing or expired.
func (s *RecordStore) fresh() *attendance.Dataset {
	s.mu.RLock()
	ds := s.current
	s.mu.RUnlock()

	if ds == nil || s.expired(ds) {
		return nil
	}
	return ds
}

func (s *RecordStore) expired(ds *attendance.Dataset) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(ds.LoadedAt) >= s.ttl
}

func (s *RecordStore) load(ctx context.Context) (*attendance.Dataset, error) {
	source := s.loader.Name()
	start := time.Now()

	s.mu.RLock()
	generation := s.generation
	s.mu.RUnlock()

	rows, err := s.loader.Load(ctx)
	metrics.SourceLoadDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SourceLoads.WithLabelValues(source, "error").Inc()
		slog.Error("Attendance source load failed", "source", source, "error", err)
		if !errors.Is(err, attendance.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", attendance.ErrSourceUnavailable, err)
		}
		return nil, fmt.Errorf("load %s source: %w", source, err)
	}

	ds := &attendance.Dataset{
		Version:  uuid.NewString(),
		LoadedAt: s.now(),
		Records:  Normalize(rows, s.rules),
	}

	s.mu.Lock()
	stale := s.generation != generation
	if !stale {
		s.current = ds
	}
	s.mu.Unlock()

	if stale {
		slog.Info("Discarding attendance load started before invalidation",
			"source", source,
			"version", ds.Version,
		)
		return ds, nil
	}

	metrics.SourceLoads.WithLabelValues(source, "success").Inc()
	metrics.LoadedRecords.Set(float64(len(ds.Records)))
	slog.Info("Attendance source loaded",
		"source", source,
		"rows", len(ds.Records),
		"version", ds.Version,
		"duration", time.Since(start),
	)

	for _, fn := range s.onLoad {
		fn(ds)
	}
	return ds, nil
}
