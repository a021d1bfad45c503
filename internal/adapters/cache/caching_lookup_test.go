package cache

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-planner/internal/domain"
	"route-planner/internal/platform/apperr"
	"route-planner/internal/platform/logger"
)

type fakeLookup struct {
	mu           sync.Mutex
	geocodes     int
	autocomplete int
	places       map[string]domain.Suggestion
	err          error
}

func (f *fakeLookup) Geocode(ctx context.Context, text string) (domain.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geocodes++
	if f.err != nil {
		return domain.Suggestion{}, f.err
	}
	p, ok := f.places[Key(text)]
	if !ok {
		return domain.Suggestion{}, apperr.NotFound("address not found")
	}
	return p, nil
}

func (f *fakeLookup) Autocomplete(ctx context.Context, text string) ([]domain.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autocomplete++
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Suggestion
	for _, p := range f.places {
		out = append(out, p)
	}
	return out, nil
}

type memGeocodeCache struct {
	data map[string]domain.Suggestion
	err  error
}

func (m *memGeocodeCache) Get(ctx context.Context, key string) (domain.Suggestion, bool, error) {
	if m.err != nil {
		return domain.Suggestion{}, false, m.err
	}
	p, ok := m.data[key]
	return p, ok, nil
}

func (m *memGeocodeCache) Put(ctx context.Context, key string, s domain.Suggestion) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = s
	return nil
}

var rijks = domain.Suggestion{Name: "Rijksmuseum", Address: "Museumstraat 1", Coordinates: domain.Coordinates{Lat: 52.36, Lon: 4.885}}

func TestCachingLookupGeocodeHitsCache(t *testing.T) {
	ctx := context.Background()
	next := &fakeLookup{places: map[string]domain.Suggestion{"museumstraat 1": rijks}}
	geo := &memGeocodeCache{data: map[string]domain.Suggestion{}}
	c := NewCachingLookup(next, geo, nil, nil)

	got, err := c.Geocode(ctx, "Museumstraat  1")
	require.NoError(t, err)
	assert.Equal(t, rijks, got)

	got, err = c.Geocode(ctx, "museumstraat 1")
	require.NoError(t, err)
	assert.Equal(t, rijks, got)
	assert.Equal(t, 1, next.geocodes)
}

func TestCachingLookupDoesNotCacheNotFound(t *testing.T) {
	ctx := context.Background()
	next := &fakeLookup{places: map[string]domain.Suggestion{}}
	geo := &memGeocodeCache{data: map[string]domain.Suggestion{}}
	c := NewCachingLookup(next, geo, nil, nil)

	for range 2 {
		_, err := c.Geocode(ctx, "atlantis")
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	}
	assert.Equal(t, 2, next.geocodes)
	assert.Empty(t, geo.data)
}

func TestCachingLookupSurvivesCacheErrors(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)

	next := &fakeLookup{places: map[string]domain.Suggestion{"museumstraat 1": rijks}}
	geo := &memGeocodeCache{err: errors.New("connection refused")}
	c := NewCachingLookup(next, geo, nil, log)

	got, err := c.Geocode(ctx, "museumstraat 1")
	require.NoError(t, err)
	assert.Equal(t, rijks, got)
	assert.Contains(t, buf.String(), "cache_error")
	assert.Contains(t, buf.String(), "geocode.get")
	assert.Contains(t, buf.String(), "geocode.put")
}

func TestCachingLookupAutocompleteUsesRedis(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)

	next := &fakeLookup{places: map[string]domain.Suggestion{"museumstraat 1": rijks}}
	c := NewCachingLookup(next, nil, NewRedisSuggestionCache(client, time.Minute), nil)

	first, err := c.Autocomplete(ctx, "Rijks")
	require.NoError(t, err)
	second, err := c.Autocomplete(ctx, "rijks ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.autocomplete)
}

func TestCachingLookupPropagatesRemoteErrors(t *testing.T) {
	ctx := context.Background()
	next := &fakeLookup{err: apperr.New(apperr.KindUnavailable, "route service unreachable")}
	c := NewCachingLookup(next, nil, nil, nil)

	_, err := c.Autocomplete(ctx, "rijks")
	assert.True(t, apperr.IsKind(err, apperr.KindUnavailable))
}

func TestSQLGeocodeCacheNilDB(t *testing.T) {
	c := NewSQLGeocodeCache(nil)

	_, _, err := c.Get(context.Background(), "x")
	require.Error(t, err)
	require.Error(t, c.Put(context.Background(), "x", rijks))
	require.Error(t, InitSchema(context.Background(), nil))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "cafe de jaren", Key("  Cafe   de\tJAREN "))
	assert.Equal(t, "", Key("   "))
}
