package cache

import (
	"context"
	"slices"

	"golang.org/x/sync/singleflight"

	"route-planner/internal/domain"
	"route-planner/internal/platform/logger"
	"route-planner/internal/platform/obs"
	"route-planner/internal/ports"
)

// CachingLookup serves address lookups from caches before the remote service.
// Either cache may be nil. Cache failures are logged and never fail a lookup.
// Concurrent identical autocomplete queries share one remote call.
type CachingLookup struct {
	next        ports.AddressLookup
	geocodes    ports.GeocodeCache
	suggestions ports.SuggestionCache
	log         *logger.Logger

	inflight singleflight.Group
}

func NewCachingLookup(next ports.AddressLookup, geocodes ports.GeocodeCache, suggestions ports.SuggestionCache, log *logger.Logger) *CachingLookup {
	if log == nil {
		log = logger.Discard()
	}
	return &CachingLookup{
		next:        next,
		geocodes:    geocodes,
		suggestions: suggestions,
		log:         log,
	}
}

// Geocode caches successful matches only; a not-found is asked again next time.
func (c *CachingLookup) Geocode(ctx context.Context, text string) (domain.Suggestion, error) {
	key := Key(text)

	if c.geocodes != nil && key != "" {
		place, ok, err := c.geocodes.Get(ctx, key)
		switch {
		case err != nil:
			obs.CacheLookupsTotal.WithLabelValues("geocode", "error").Inc()
			c.log.WithContext(ctx).CacheError("geocode.get", err)
		case ok:
			obs.CacheLookupsTotal.WithLabelValues("geocode", "hit").Inc()
			return place, nil
		default:
			obs.CacheLookupsTotal.WithLabelValues("geocode", "miss").Inc()
		}
	}

	place, err := c.next.Geocode(ctx, text)
	if err != nil {
		return domain.Suggestion{}, err
	}

	if c.geocodes != nil && key != "" {
		if err := c.geocodes.Put(ctx, key, place); err != nil {
			c.log.WithContext(ctx).CacheError("geocode.put", err)
		}
	}
	return place, nil
}

func (c *CachingLookup) Autocomplete(ctx context.Context, text string) ([]domain.Suggestion, error) {
	key := Key(text)
	if key == "" {
		return c.next.Autocomplete(ctx, text)
	}

	if c.suggestions != nil {
		found, ok, err := c.suggestions.Get(ctx, key)
		switch {
		case err != nil:
			obs.CacheLookupsTotal.WithLabelValues("suggest", "error").Inc()
			c.log.WithContext(ctx).CacheError("suggest.get", err)
		case ok:
			obs.CacheLookupsTotal.WithLabelValues("suggest", "hit").Inc()
			return found, nil
		default:
			obs.CacheLookupsTotal.WithLabelValues("suggest", "miss").Inc()
		}
	}

	v, err, _ := c.inflight.Do(key, func() (any, error) {
		found, err := c.next.Autocomplete(ctx, text)
		if err != nil {
			return nil, err
		}
		if c.suggestions != nil {
			if err := c.suggestions.Put(ctx, key, found); err != nil {
				c.log.WithContext(ctx).CacheError("suggest.put", err)
			}
		}
		return found, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]domain.Suggestion)), nil
}
