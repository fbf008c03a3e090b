// Package shop queries the Naver shop search API for product images.
//
// Every failure mode (missing credentials, rate limiting, transport errors,
// bad statuses, malformed bodies) is reported as an Outcome rather than an
// error, leaving the decision of what to try next to the caller.
package shop

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"kfit/internal/metrics"
	"kfit/internal/validation"
)

const breakerName = "naver-shop"

// Searcher is the contract the resolver depends on.
type Searcher interface {
	Search(ctx context.Context, query string) Response
}

// Config configures a Client.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Timeout      time.Duration
	RetryBackoff time.Duration
	RatePerSec   float64 // 0 disables outbound pacing

	// Breaker settings, zero values use the defaults below.
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration
}

// Client is a Naver shop search client. It is safe for concurrent use and is
// meant to be built once at startup and shared.
type Client struct {
	cfg       Config
	http      *http.Client
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker[attemptResult]
	sanitizer *bluemonday.Policy
}

// attemptResult carries one HTTP exchange through the circuit breaker.
// A 429 is not a breaker failure, so it travels as a flag rather than an error.
type attemptResult struct {
	rateLimited bool
	body        *searchResponse
}

// NewClient creates a new shop search client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.BreakerMinRequests == 0 {
		cfg.BreakerMinRequests = 10
	}
	if cfg.BreakerFailureRatio <= 0 {
		cfg.BreakerFailureRatio = 0.6
	}
	if cfg.BreakerOpenTimeout <= 0 {
		cfg.BreakerOpenTimeout = 30 * time.Second
	}

	c := &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		sanitizer: bluemonday.StrictPolicy(),
	}
	if cfg.RatePerSec > 0 {
		burst := int(cfg.RatePerSec)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	c.breaker = gobreaker.NewCircuitBreaker[attemptResult](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.BreakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("shop search circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up says nothing about upstream health.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return c
}

// Enabled returns true if both credentials are configured.
func (c *Client) Enabled() bool {
	return c.cfg.ClientID != "" && c.cfg.ClientSecret != ""
}

// Search runs a single shop query. A 429 is retried exactly once after the
// configured backoff; any other failure is reported immediately.
func (c *Client) Search(ctx context.Context, query string) Response {
	if !c.Enabled() {
		metrics.ShopRequests.WithLabelValues(OutcomeDisabled.String()).Inc()
		return Response{Outcome: OutcomeDisabled}
	}

	resp := c.attempt(ctx, query)
	resp.Attempts = 1

	if resp.Outcome == OutcomeRateLimited {
		slog.Warn("shop search rate limited, retrying once", "query", query, "backoff", c.cfg.RetryBackoff)
		if err := sleep(ctx, c.cfg.RetryBackoff); err != nil {
			metrics.ShopRequests.WithLabelValues(OutcomeUnavailable.String()).Inc()
			return Response{Outcome: OutcomeUnavailable, Attempts: 1}
		}
		resp = c.attempt(ctx, query)
		resp.Attempts = 2
	}

	metrics.ShopRequests.WithLabelValues(resp.Outcome.String()).Inc()
	switch resp.Outcome {
	case OutcomeFound:
		slog.Debug("shop search found", "query", query, "image", resp.Result.ImageURL)
	case OutcomeEmpty:
		slog.Debug("shop search returned no results", "query", query)
	}
	return resp
}

// attempt performs one paced, breaker-guarded request.
func (c *Client) attempt(ctx context.Context, query string) Response {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			slog.Warn("shop search pacing wait aborted", "query", query, "error", err)
			return Response{Outcome: OutcomeUnavailable}
		}
	}

	res, err := c.breaker.Execute(func() (attemptResult, error) {
		return c.do(ctx, query)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.Warn("shop search rejected by circuit breaker", "query", query, "error", err)
		} else {
			slog.Error("shop search failed", "query", query, "error", err)
		}
		return Response{Outcome: OutcomeUnavailable}
	}

	if res.rateLimited {
		return Response{Outcome: OutcomeRateLimited}
	}

	result := c.firstResult(res.body)
	if result == nil {
		return Response{Outcome: OutcomeEmpty}
	}
	return Response{Outcome: OutcomeFound, Result: result}
}

// do executes the HTTP request. Only transport errors, unexpected statuses and
// undecodable bodies are returned as errors.
func (c *Client) do(ctx context.Context, query string) (attemptResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("display", "1")
	params.Set("start", "1")
	params.Set("sort", "sim")
	params.Set("exclude", "used:rental:cbshop")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return attemptResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.cfg.ClientID)
	req.Header.Set("X-Naver-Client-Secret", c.cfg.ClientSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return attemptResult{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, resp.Body)
		return attemptResult{rateLimited: true}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return attemptResult{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return attemptResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return attemptResult{body: &body}, nil
}

// firstResult normalizes the first item, or returns nil if it has no usable image.
func (c *Client) firstResult(body *searchResponse) *Result {
	if body == nil || len(body.Items) == 0 {
		return nil
	}
	item := body.Items[0]

	image := UpgradeScheme(strings.TrimSpace(item.Image))
	if valid, _ := validation.ValidateURL(image); !valid {
		return nil
	}

	return &Result{
		ImageURL: image,
		Link:     item.Link,
		Title:    c.cleanTitle(item.Title),
		Price:    item.LPrice,
		Mall:     item.MallName,
	}
}

// cleanTitle removes the <b> emphasis markup the search API wraps around matches.
func (c *Client) cleanTitle(title string) string {
	return strings.TrimSpace(html.UnescapeString(c.sanitizer.Sanitize(title)))
}

// UpgradeScheme rewrites an http:// URL to https:// to avoid mixed content.
func UpgradeScheme(u string) string {
	if len(u) >= len("http://") && strings.EqualFold(u[:len("http://")], "http://") {
		return "https://" + u[len("http://"):]
	}
	return u
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
