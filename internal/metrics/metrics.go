package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"kfit/internal/db"
)

var (
	// ResolutionsTotal counts finished resolutions by endpoint and outcome
	// (cache_hit, tier1, tier2, tier3, placeholder).
	ResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kfit_resolutions_total",
		Help: "Total product image resolutions by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	// ShopRequests counts shop search calls by outcome, retries included in one call.
	ShopRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kfit_shop_requests_total",
		Help: "Total shop search calls by outcome",
	}, []string{"outcome"})

	// BrandSubstitutions counts brand policy replacements by reason.
	BrandSubstitutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kfit_brand_substitutions_total",
		Help: "Total brand substitutions by reason",
	}, []string{"reason"})

	// SharedResolutions counts requests that joined an in-flight cascade for the same key.
	SharedResolutions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kfit_shared_resolutions_total",
		Help: "Total resolutions served by joining an in-flight cascade",
	})

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "kfit_circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"name"})
)

var (
	resolutionLookupDesc = prometheus.NewDesc(
		"kfit_resolution_lookups_total",
		"Persisted resolution count by brand and outcome",
		[]string{"brand", "outcome"},
		nil,
	)
)

// LookupCollector is a custom Prometheus collector that reads persisted
// resolution counts from the database on each scrape.
type LookupCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *LookupCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- resolutionLookupDesc
}

// Collect queries the database for all resolution lookups and emits them as counters.
func (c *LookupCollector) Collect(ch chan<- prometheus.Metric) {
	lookups, err := c.db.GetAllResolutionLookups(context.Background())
	if err != nil {
		slog.Error("failed to collect resolution lookup metrics", "error", err)
		return
	}
	for _, l := range lookups {
		ch <- prometheus.MustNewConstMetric(
			resolutionLookupDesc,
			prometheus.CounterValue,
			float64(l.Count),
			l.Brand,
			l.Outcome,
		)
	}
}

// Recorder provides async resolution lookup recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder     *Recorder
	registerOnce sync.Once
	recorderOnce sync.Once
)

// Register registers the in-process collectors with the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ResolutionsTotal, ShopRequests, BrandSubstitutions, SharedResolutions, CircuitBreakerState)
	})
}

// Init registers the database-backed collector and initializes the recorder.
// Only called when a statistics database is configured.
func Init(database *db.DB) {
	recorderOnce.Do(func() {
		recorder = &Recorder{db: database}
		prometheus.MustRegister(&LookupCollector{db: database})
	})
}

// RecordResolution counts a finished resolution in-process and, when a
// statistics database is configured, asynchronously persists it.
func RecordResolution(endpoint, brand, outcome string) {
	ResolutionsTotal.WithLabelValues(endpoint, outcome).Inc()
	if recorder == nil {
		return
	}
	go func() {
		if err := recorder.db.IncrementResolutionLookup(context.Background(), brand, outcome); err != nil {
			slog.Error("failed to record resolution lookup", "brand", brand, "outcome", outcome, "error", err)
		}
	}()
}
