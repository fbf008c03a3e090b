package jobs

import (
	"context"
	"log"
	"sort"
	"time"

	"kfit/internal/config"
	"kfit/internal/models"
	"kfit/internal/resolver"
	"kfit/internal/validation"
)

// topBrandLimit bounds how many ranked brands are fetched per run.
const topBrandLimit = 50

// BrandRanker ranks brands by how often they are resolved.
type BrandRanker interface {
	GetTopBrands(ctx context.Context, limit int) ([]string, error)
}

// CacheWarmer periodically resolves configured queries so the first real
// request for them is a cache hit.
type CacheWarmer struct {
	resolver *resolver.Resolver
	ranker   BrandRanker
	queries  []config.WarmupQuery
	interval time.Duration
	delay    time.Duration
}

// NewCacheWarmer creates a new cache warmer. ranker may be nil, in which
// case queries are warmed in configuration order.
func NewCacheWarmer(r *resolver.Resolver, ranker BrandRanker, queries []config.WarmupQuery, interval time.Duration) *CacheWarmer {
	return &CacheWarmer{
		resolver: r,
		ranker:   ranker,
		queries:  queries,
		interval: interval,
		delay:    1 * time.Second,
	}
}

// Start begins the background warm-up loop.
func (w *CacheWarmer) Start(ctx context.Context) {
	log.Printf("Cache warmer started (interval: %v, queries: %d)", w.interval, len(w.queries))

	// Run immediately on start
	w.warmAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Cache warmer stopped")
			return
		case <-ticker.C:
			w.warmAll(ctx)
		}
	}
}

// warmAll resolves every configured query, most requested brands first.
func (w *CacheWarmer) warmAll(ctx context.Context) int {
	queries := w.ordered(ctx)
	if len(queries) == 0 {
		return 0
	}

	warmed := 0
	for i, q := range queries {
		// Check context before each query
		select {
		case <-ctx.Done():
			return warmed
		default:
		}

		res := w.resolver.ResolveImage(ctx, searchQuery(q))
		if res.Found() {
			warmed++
		}

		// Delay between queries to stay under the shop API quota
		if i < len(queries)-1 && w.delay > 0 {
			select {
			case <-ctx.Done():
				return warmed
			case <-time.After(w.delay):
			}
		}
	}

	log.Printf("Cache warmer: %d/%d queries resolved", warmed, len(queries))
	return warmed
}

// ordered returns the configured queries sorted by brand popularity.
// Unranked brands keep their configured order after the ranked ones.
func (w *CacheWarmer) ordered(ctx context.Context) []config.WarmupQuery {
	queries := append([]config.WarmupQuery(nil), w.queries...)
	if w.ranker == nil || len(queries) == 0 {
		return queries
	}

	brands, err := w.ranker.GetTopBrands(ctx, topBrandLimit)
	if err != nil {
		log.Printf("Cache warmer: failed to rank brands: %v", err)
		return queries
	}

	rank := make(map[string]int, len(brands))
	for i, b := range brands {
		rank[b] = i
	}
	// Statistics are keyed by the brand actually searched, so aliased and
	// substituted brands rank under their effective name.
	type ranked struct {
		query config.WarmupQuery
		brand string
	}
	entries := make([]ranked, len(queries))
	for i, q := range queries {
		entries[i] = ranked{query: q, brand: w.resolver.Policy(searchQuery(q)).EffectiveBrand}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ri, iok := rank[entries[i].brand]
		rj, jok := rank[entries[j].brand]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		default:
			return false
		}
	})
	for i, e := range entries {
		queries[i] = e.query
	}
	return queries
}

func searchQuery(q config.WarmupQuery) models.SearchQuery {
	return models.SearchQuery{
		Brand:    q.Brand,
		ItemName: q.Item,
		Gender:   validation.ParseGender(q.Gender),
	}
}
