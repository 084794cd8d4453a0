// Package matcher is the single entry point for eligibility lookups. It
// hides the remote-vs-cache decision: a successful backend fetch is
// returned fresh and written through to the cache, any backend failure
// falls back to the last cached batch.
package matcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"agrischeme-api-go/internal/api/middleware"
	"agrischeme-api-go/internal/models"
)

// Gateway is the transport boundary the matcher orchestrates.
type Gateway interface {
	FetchEligibleSchemes(ctx context.Context, input models.FarmerInput) ([]models.SchemeRecord, error)
	CheckHealth(ctx context.Context) bool
}

// Cache is the fallback data source for eligibility results.
type Cache interface {
	Save(ctx context.Context, schemes []models.SchemeRecord)
	Load(ctx context.Context) []models.SchemeRecord
}

// Source tags where a result batch came from.
type Source string

const (
	SourceFresh Source = "fresh"
	SourceCache Source = "cache"
)

// Result is an eligibility lookup outcome. Schemes is never nil; Source
// tells the caller whether the data may be stale.
type Result struct {
	Schemes []models.SchemeRecord
	Source  Source
}

// Interface defines the matcher operations consumed by the API layer.
type Interface interface {
	// GetEligibleSchemes resolves matching schemes for the input. It never
	// returns an error: the backend result, the cached batch, or an empty
	// batch is always produced.
	GetEligibleSchemes(ctx context.Context, input models.FarmerInput) Result

	// FilterCached re-filters the cached batch against the input using the
	// client-side predicate, fully offline.
	FilterCached(ctx context.Context, input models.FarmerInput) []models.SchemeRecord

	// Healthy reports backend reachability.
	Healthy(ctx context.Context) bool
}

// cacheWriteTimeout bounds the detached write-through so an abandoned
// write cannot leak a goroutine forever.
const cacheWriteTimeout = 10 * time.Second

// Matcher implements Interface over a gateway and a cache.
type Matcher struct {
	gateway Gateway
	cache   Cache
	logger  *zap.Logger
}

// New creates a matcher instance.
func New(gw Gateway, c Cache, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{
		gateway: gw,
		cache:   c,
		logger:  logger,
	}
}

// GetEligibleSchemes performs a single backend attempt. On success the
// batch is persisted fire-and-forget (not on the critical path of
// returning to the caller) and returned tagged fresh. On any gateway
// failure the cached batch is returned tagged cache — possibly empty,
// possibly stale, never an error.
func (m *Matcher) GetEligibleSchemes(ctx context.Context, input models.FarmerInput) Result {
	schemes, err := m.gateway.FetchEligibleSchemes(ctx, input)
	if err != nil {
		m.logger.Warn("backend fetch failed, falling back to cache",
			zap.Error(err),
			zap.String("state", input.State),
			zap.String("crop", input.Crop))
		middleware.FetchesTotal.WithLabelValues(string(SourceCache), "fallback").Inc()
		middleware.CacheFallbacksTotal.Inc()

		return Result{
			Schemes: m.cache.Load(ctx),
			Source:  SourceCache,
		}
	}

	middleware.FetchesTotal.WithLabelValues(string(SourceFresh), "ok").Inc()

	// Write-through is detached from the caller's context: if the process
	// dies before it lands, the cache is one generation stale, which the
	// cache contract accepts.
	go func() {
		saveCtx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()
		m.cache.Save(saveCtx, schemes)
	}()

	if schemes == nil {
		schemes = []models.SchemeRecord{}
	}
	return Result{
		Schemes: schemes,
		Source:  SourceFresh,
	}
}

// FilterCached loads the cached batch and applies the client-side
// eligibility predicate, sorted by benefit amount descending. This is the
// offline path: no network round trip, no cache mutation.
func (m *Matcher) FilterCached(ctx context.Context, input models.FarmerInput) []models.SchemeRecord {
	cached := m.cache.Load(ctx)

	eligible := make([]models.SchemeRecord, 0, len(cached))
	for _, s := range cached {
		if s.IsApplicableFor(input.State, input.Crop, input.LandSize, input.Season) {
			eligible = append(eligible, s)
		}
	}
	models.SortByBenefit(eligible)
	return eligible
}

// Healthy probes the backend and records the result.
func (m *Matcher) Healthy(ctx context.Context) bool {
	ok := m.gateway.CheckHealth(ctx)
	if ok {
		middleware.BackendReachable.Set(1)
	} else {
		middleware.BackendReachable.Set(0)
	}
	return ok
}
