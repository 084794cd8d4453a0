package matcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrischeme-api-go/internal/cache"
	"agrischeme-api-go/internal/gateway"
	"agrischeme-api-go/internal/models"
)

// stubGateway returns a fixed batch or a fixed error.
type stubGateway struct {
	schemes []models.SchemeRecord
	err     error
	healthy bool
	calls   int
}

func (s *stubGateway) FetchEligibleSchemes(ctx context.Context, input models.FarmerInput) ([]models.SchemeRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.schemes, nil
}

func (s *stubGateway) CheckHealth(ctx context.Context) bool { return s.healthy }

// stubCache records saves and serves a preloaded batch.
type stubCache struct {
	mu     sync.Mutex
	stored []models.SchemeRecord
	saves  int
}

func (c *stubCache) Save(ctx context.Context, schemes []models.SchemeRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored = schemes
	c.saves++
}

func (c *stubCache) Load(ctx context.Context) []models.SchemeRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stored == nil {
		return []models.SchemeRecord{}
	}
	return c.stored
}

func (c *stubCache) snapshot() ([]models.SchemeRecord, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stored, c.saves
}

func namedScheme(name string, amount float64) models.SchemeRecord {
	s := models.DefaultSchemeRecord()
	s.Name = name
	s.BenefitAmount = amount
	return s
}

func testInput() models.FarmerInput {
	return models.FarmerInput{
		State:    "Punjab",
		Crop:     "Wheat",
		LandSize: 3,
		Season:   models.SeasonRabi,
	}
}

func TestGetEligibleSchemesFreshResult(t *testing.T) {
	fetched := []models.SchemeRecord{namedScheme("PM-KISAN", 6000)}
	gw := &stubGateway{schemes: fetched}
	c := &stubCache{}

	m := New(gw, c, nil)
	result := m.GetEligibleSchemes(context.Background(), testInput())

	assert.Equal(t, SourceFresh, result.Source)
	assert.Equal(t, fetched, result.Schemes)
	assert.Equal(t, 1, gw.calls, "exactly one attempt, no retries")
}

func TestGetEligibleSchemesWritesThroughOnSuccess(t *testing.T) {
	fetched := []models.SchemeRecord{
		namedScheme("PM-KISAN", 6000),
		namedScheme("PMFBY", 200000),
	}
	gw := &stubGateway{schemes: fetched}
	c := &stubCache{}

	m := New(gw, c, nil)
	m.GetEligibleSchemes(context.Background(), testInput())

	// The write is fire-and-forget — allow it to settle
	assert.Eventually(t, func() bool {
		stored, saves := c.snapshot()
		return saves == 1 && len(stored) == 2
	}, time.Second, 10*time.Millisecond)

	stored, _ := c.snapshot()
	assert.Equal(t, fetched, stored)
}

func TestGetEligibleSchemesFallsBackToCache(t *testing.T) {
	cached := []models.SchemeRecord{
		namedScheme("cached-a", 1),
		namedScheme("cached-b", 2),
		namedScheme("cached-c", 3),
	}
	gw := &stubGateway{err: &gateway.TransportError{Op: "fetch_eligible"}}
	c := &stubCache{stored: cached}

	m := New(gw, c, nil)
	result := m.GetEligibleSchemes(context.Background(), testInput())

	assert.Equal(t, SourceCache, result.Source)
	assert.Equal(t, cached, result.Schemes)

	_, saves := c.snapshot()
	assert.Zero(t, saves, "fallback must not rewrite the cache")
}

func TestGetEligibleSchemesEmptyFallback(t *testing.T) {
	gw := &stubGateway{err: &gateway.TransportError{Op: "fetch_eligible"}}
	c := &stubCache{}

	m := New(gw, c, nil)
	result := m.GetEligibleSchemes(context.Background(), testInput())

	assert.Equal(t, SourceCache, result.Source)
	require.NotNil(t, result.Schemes)
	assert.Empty(t, result.Schemes)
}

func TestFilterCached(t *testing.T) {
	wheat := models.DefaultSchemeRecord()
	wheat.Name = "Punjab Wheat Support"
	wheat.Crops = []string{"Wheat"}
	wheat.States = []string{"Punjab"}
	wheat.Season = models.SeasonRabi
	wheat.BenefitAmount = 10000

	rice := models.DefaultSchemeRecord()
	rice.Name = "TN Rice Support"
	rice.Crops = []string{"Rice"}
	rice.States = []string{"Tamil Nadu"}

	universal := namedScheme("PM-KISAN", 6000)

	gw := &stubGateway{}
	c := &stubCache{stored: []models.SchemeRecord{rice, universal, wheat}}

	m := New(gw, c, nil)
	eligible := m.FilterCached(context.Background(), testInput())

	require.Len(t, eligible, 2)
	assert.Equal(t, "Punjab Wheat Support", eligible[0].Name, "sorted by benefit descending")
	assert.Equal(t, "PM-KISAN", eligible[1].Name)
	assert.Zero(t, gw.calls, "offline path never touches the gateway")
}

func TestWriteThroughVisibleOnNextFallback(t *testing.T) {
	// Full loop with the real cache over an in-memory store: a successful
	// fetch populates the cache, and a later backend outage serves exactly
	// that batch.
	fetched := []models.SchemeRecord{
		namedScheme("PM-KISAN", 6000),
		namedScheme("PMFBY", 200000),
	}
	gw := &stubGateway{schemes: fetched}
	schemeCache := cache.New(cache.NewMemoryStore(), nil)

	m := New(gw, schemeCache, nil)

	result := m.GetEligibleSchemes(context.Background(), testInput())
	assert.Equal(t, SourceFresh, result.Source)

	assert.Eventually(t, func() bool {
		return len(schemeCache.Load(context.Background())) == 2
	}, time.Second, 10*time.Millisecond)

	gw.err = &gateway.TransportError{Op: "fetch_eligible"}
	result = m.GetEligibleSchemes(context.Background(), testInput())
	assert.Equal(t, SourceCache, result.Source)
	assert.Equal(t, fetched, result.Schemes)
}

func TestHealthy(t *testing.T) {
	m := New(&stubGateway{healthy: true}, &stubCache{}, nil)
	assert.True(t, m.Healthy(context.Background()))

	m = New(&stubGateway{healthy: false}, &stubCache{}, nil)
	assert.False(t, m.Healthy(context.Background()))
}
