package mapbox

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/bufkit-etl/internal/domain"
	"github.com/couchcryptid/bufkit-etl/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{result: domain.GeocodingResult{PlaceName: "Missoula", FormattedAddress: "Missoula, MT"}}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedGeocoder(inner, 10, metrics)

	for range 3 {
		r, err := cached.ReverseGeocode(context.Background(), 46.92, -114.09)
		require.NoError(t, err)
		assert.Equal(t, "Missoula", r.PlaceName)
	}

	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("miss")), 0)
}

func TestCachedGeocoder_DifferentStationsMiss(t *testing.T) {
	inner := &countingGeocoder{result: domain.GeocodingResult{FormattedAddress: "Somewhere"}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ReverseGeocode(context.Background(), 46.92, -114.09)
	_, _ = cached.ReverseGeocode(context.Background(), 41.98, -87.90)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_EmptyAndErrorNotCached(t *testing.T) {
	ctx := context.Background()

	empty := &countingGeocoder{}
	cached := NewCachedGeocoder(empty, 10, observability.NewMetricsForTesting())
	_, _ = cached.ReverseGeocode(ctx, 10, 10)
	_, _ = cached.ReverseGeocode(ctx, 10, 10)
	assert.Equal(t, 2, empty.calls)

	failing := &countingGeocoder{err: errors.New("boom")}
	cached = NewCachedGeocoder(failing, 10, observability.NewMetricsForTesting())
	_, err := cached.ReverseGeocode(ctx, 10, 10)
	require.Error(t, err)
	_, _ = cached.ReverseGeocode(ctx, 10, 10)
	assert.Equal(t, 2, failing.calls)
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", domain.GeocodingResult{PlaceName: "A"})
	c.put("b", domain.GeocodingResult{PlaceName: "B"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", result.PlaceName)

	_, ok = c.get("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, c.size())
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{PlaceName: "A"})
	c.put("b", domain.GeocodingResult{PlaceName: "B"})
	c.get("a")
	c.put("c", domain.GeocodingResult{PlaceName: "C"})

	_, ok := c.get("a")
	assert.True(t, ok, "a was used recently")
	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
	assert.Equal(t, 2, c.size())
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{PlaceName: "A1"})
	c.put("a", domain.GeocodingResult{PlaceName: "A2"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result.PlaceName)
	assert.Equal(t, 1, c.size())
}

func TestLRUCache_MinimumCapacity(t *testing.T) {
	c := newLRUCache(0)
	c.put("a", domain.GeocodingResult{})
	c.put("b", domain.GeocodingResult{})
	assert.Equal(t, 1, c.size())
}
