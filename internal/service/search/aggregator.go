package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okatkov/tgsage/internal/store"
)

// ErrAllProvidersFailed reports that the whole fallback chain failed.
var ErrAllProvidersFailed = errors.New("all search providers failed")

// Aggregator resolves queries via cache, then primary, then fallback.
type Aggregator struct {
	kv       store.KV
	primary  Provider
	fallback Provider
	ttl      time.Duration
	group    singleflight.Group
}

// NewAggregator wires the fallback chain. fallback may be nil when its
// credential is not configured.
func NewAggregator(kv store.KV, primary, fallback Provider, ttl time.Duration) *Aggregator {
	return &Aggregator{
		kv:       kv,
		primary:  primary,
		fallback: fallback,
		ttl:      ttl,
	}
}

// Search returns ranked results for the query. A live cache entry is
// served without any provider call; concurrent identical queries are
// collapsed into one provider call. An empty result set is a valid,
// cached outcome.
func (a *Aggregator) Search(ctx context.Context, query string) ([]Result, error) {
	key := CacheKey(query)

	if cached, ok := a.fromCache(ctx, key); ok {
		return cached, nil
	}

	value, err, _ := a.group.Do(key, func() (interface{}, error) {
		// Re-check under the flight lock: a concurrent caller may have
		// filled the cache while this one waited.
		if cached, ok := a.fromCache(ctx, key); ok {
			return cached, nil
		}

		results, err := a.fromProviders(ctx, query)
		if err != nil {
			return nil, err
		}

		a.toCache(ctx, key, results)
		return results, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]Result), nil
}

func (a *Aggregator) fromProviders(ctx context.Context, query string) ([]Result, error) {
	results, primaryErr := a.primary.Search(ctx, query)
	if primaryErr == nil {
		return results, nil
	}
	log.Printf("[search] %s failed: %v", a.primary.Name(), primaryErr)

	if a.fallback == nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAllProvidersFailed, a.primary.Name(), primaryErr)
	}

	results, fallbackErr := a.fallback.Search(ctx, query)
	if fallbackErr == nil {
		return results, nil
	}
	log.Printf("[search] %s failed: %v", a.fallback.Name(), fallbackErr)

	return nil, fmt.Errorf("%w: %s: %v; %s: %v",
		ErrAllProvidersFailed,
		a.primary.Name(), primaryErr,
		a.fallback.Name(), fallbackErr)
}

func (a *Aggregator) fromCache(ctx context.Context, key string) ([]Result, bool) {
	data, err := a.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("[search] cache read failed: %v", err)
		}
		return nil, false
	}

	var results []Result
	if err := json.Unmarshal(data, &results); err != nil {
		log.Printf("[search] corrupt cache entry %s: %v", key, err)
		return nil, false
	}
	if results == nil {
		results = []Result{}
	}
	return results, true
}

func (a *Aggregator) toCache(ctx context.Context, key string, results []Result) {
	if results == nil {
		results = []Result{}
	}
	data, err := json.Marshal(results)
	if err != nil {
		log.Printf("[search] marshal cache entry: %v", err)
		return
	}
	if err := a.kv.Put(ctx, key, data, a.ttl); err != nil {
		log.Printf("[search] cache write failed: %v", err)
	}
}
