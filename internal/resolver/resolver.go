// Package resolver turns a product query into an image URL by cascading
// through progressively broader shop searches.
package resolver

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"kfit/internal/cache"
	"kfit/internal/catalog"
	"kfit/internal/metrics"
	"kfit/internal/models"
	"kfit/internal/shop"
)

// Metric endpoint labels
const (
	EndpointImage   = "image"
	EndpointProduct = "product"
)

// Source tells where a resolution came from.
type Source int

// Resolution sources
const (
	SourceNone Source = iota
	SourceCache
	SourceRemote
)

func (s Source) String() string {
	switch s {
	case SourceCache:
		return "cache"
	case SourceRemote:
		return "remote"
	default:
		return "none"
	}
}

// Resolution is the result of resolving one query.
// Result is only set for remote resolutions; cached entries hold the URL alone.
type Resolution struct {
	ImageURL string
	Result   *shop.Result
	Tier     int
	Source   Source
	Policy   models.BrandPolicyResult
}

// Found returns true if an image URL was resolved.
func (r Resolution) Found() bool {
	return r.Source != SourceNone && r.ImageURL != ""
}

// Outcome returns the statistics label for the resolution.
func (r Resolution) Outcome() string {
	if r.Source == SourceCache {
		return models.OutcomeCacheHit
	}
	switch r.Tier {
	case 1:
		return models.OutcomeTier1
	case 2:
		return models.OutcomeTier2
	case 3:
		return models.OutcomeTier3
	default:
		return models.OutcomePlaceholder
	}
}

// DefaultSharedTimeout bounds a shared cascade once no single caller owns it.
const DefaultSharedTimeout = 20 * time.Second

// Resolver runs the fallback cascade. It is safe for concurrent use.
type Resolver struct {
	normalizer    *catalog.Normalizer
	policy        *catalog.BrandPolicy
	searcher      shop.Searcher
	cache         cache.Cache
	group         singleflight.Group
	sharedTimeout time.Duration
}

// New creates a resolver.
func New(normalizer *catalog.Normalizer, policy *catalog.BrandPolicy, searcher shop.Searcher, c cache.Cache) *Resolver {
	return &Resolver{
		normalizer:    normalizer,
		policy:        policy,
		searcher:      searcher,
		cache:         c,
		sharedTimeout: DefaultSharedTimeout,
	}
}

// SetSharedTimeout bounds cascades shared between concurrent callers.
// Non-positive values keep the current bound.
func (r *Resolver) SetSharedTimeout(d time.Duration) {
	if d > 0 {
		r.sharedTimeout = d
	}
}

// Policy returns the brand policy decision for q without resolving it.
func (r *Resolver) Policy(q models.SearchQuery) models.BrandPolicyResult {
	return r.policy.Resolve(r.normalizer.NormalizeBrand(q.Brand), q.Gender)
}

// plan is a normalized query with its policy decision and tier queries.
type plan struct {
	query   models.SearchQuery
	policy  models.BrandPolicyResult
	queries [3]string
}

func (r *Resolver) prepare(q models.SearchQuery) plan {
	normalized := models.SearchQuery{
		Brand:    r.normalizer.NormalizeBrand(q.Brand),
		ItemName: r.normalizer.NormalizeItem(q.ItemName),
		Gender:   q.Gender,
	}
	policy := r.policy.Resolve(normalized.Brand, normalized.Gender)
	if policy.WasSubstituted {
		metrics.BrandSubstitutions.WithLabelValues(string(policy.Reason)).Inc()
	}
	return plan{
		query:   normalized,
		policy:  policy,
		queries: TierQueries(policy.EffectiveBrand, normalized.ItemName, normalized.Gender),
	}
}

// TierQueries builds the three search queries in cascade order:
// brand with gendered item, gendered item alone, then brand alone.
func TierQueries(brand, item string, gender models.Gender) [3]string {
	prefixed := catalog.GenderPrefix(gender) + item
	return [3]string{
		strings.TrimSpace(brand + " " + prefixed),
		strings.TrimSpace(prefixed),
		strings.TrimSpace(brand),
	}
}

// ResolveImage resolves an image URL, reading through the cache. Concurrent
// misses for the same key share a single cascade. Only successes are cached.
func (r *Resolver) ResolveImage(ctx context.Context, q models.SearchQuery) Resolution {
	p := r.prepare(q)
	logger := slog.With("trace_id", uuid.NewString(), "endpoint", EndpointImage)
	key := cache.Key(p.query.Gender, p.queries[0])

	if url, ok := r.cache.Get(ctx, key); ok {
		logger.Debug("image resolved from cache", "key", key)
		res := Resolution{ImageURL: url, Source: SourceCache, Policy: p.policy}
		metrics.RecordResolution(EndpointImage, p.policy.EffectiveBrand, res.Outcome())
		return res
	}

	if err := ctx.Err(); err != nil {
		logger.Debug("image resolution abandoned", "key", key, "error", err)
		res := Resolution{Policy: p.policy}
		metrics.RecordResolution(EndpointImage, p.policy.EffectiveBrand, res.Outcome())
		return res
	}

	// The shared cascade outlives any single caller; each caller stops
	// waiting on its own context below.
	ch := r.group.DoChan(key, func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.sharedTimeout)
		defer cancel()

		res := r.cascade(sharedCtx, logger, p)
		if res.Found() {
			r.cache.Set(sharedCtx, key, res.ImageURL)
		}
		return res, nil
	})

	var res Resolution
	select {
	case <-ctx.Done():
		logger.Debug("image resolution abandoned", "key", key, "error", ctx.Err())
		res = Resolution{Policy: p.policy}
	case out := <-ch:
		res = out.Val.(Resolution)
		if out.Shared {
			metrics.SharedResolutions.Inc()
		}
	}

	metrics.RecordResolution(EndpointImage, p.policy.EffectiveBrand, res.Outcome())
	return res
}

// ResolveProduct always runs the cascade, since cached entries do not carry
// product metadata. A success still refreshes the image cache.
func (r *Resolver) ResolveProduct(ctx context.Context, q models.SearchQuery) Resolution {
	p := r.prepare(q)
	logger := slog.With("trace_id", uuid.NewString(), "endpoint", EndpointProduct)

	res := r.cascade(ctx, logger, p)
	if res.Found() {
		r.cache.Set(context.WithoutCancel(ctx), cache.Key(p.query.Gender, p.queries[0]), res.ImageURL)
	}

	metrics.RecordResolution(EndpointProduct, p.policy.EffectiveBrand, res.Outcome())
	return res
}

// cascade tries each tier in order and stops at the first hit. Empty
// queries and queries already tried are skipped.
func (r *Resolver) cascade(ctx context.Context, logger *slog.Logger, p plan) Resolution {
	tried := make(map[string]struct{}, len(p.queries))
	for i, query := range p.queries {
		if query == "" {
			continue
		}
		if _, ok := tried[query]; ok {
			continue
		}
		tried[query] = struct{}{}
		if err := ctx.Err(); err != nil {
			logger.Debug("cascade stopped", "tier", i+1, "error", err)
			break
		}

		resp := r.searcher.Search(ctx, query)
		if resp.Found() {
			logger.Info("image resolved", "tier", i+1, "query", query, "attempts", resp.Attempts)
			return Resolution{
				ImageURL: resp.Result.ImageURL,
				Result:   resp.Result,
				Tier:     i + 1,
				Source:   SourceRemote,
				Policy:   p.policy,
			}
		}
		logger.Debug("tier missed", "tier", i+1, "query", query, "outcome", resp.Outcome.String())
	}

	logger.Info("no image found, falling back to placeholder",
		"brand", p.query.Brand, "effective_brand", p.policy.EffectiveBrand, "item", p.query.ItemName)
	return Resolution{Policy: p.policy}
}
