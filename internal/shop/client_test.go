package shop

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const oneItem = `{"total":1,"items":[{"title":"<b>SPAO</b> 남성 숏 패딩 &amp; 점퍼","link":"https://search.shopping.naver.com/gate?id=1","image":"http://shopping-phinf.pstatic.net/main_1/1.jpg","lprice":"59900","mallName":"SPAO"}]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      srv.URL,
		Timeout:      2 * time.Second,
		RetryBackoff: 10 * time.Millisecond,
	})
	return c, &calls
}

func TestSearch_Found(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Naver-Client-Id"); got != "id" {
			t.Errorf("X-Naver-Client-Id = %q, want id", got)
		}
		if got := r.Header.Get("X-Naver-Client-Secret"); got != "secret" {
			t.Errorf("X-Naver-Client-Secret = %q, want secret", got)
		}
		q := r.URL.Query()
		if q.Get("query") != "SPAO 남성 패딩" {
			t.Errorf("query = %q", q.Get("query"))
		}
		if q.Get("display") != "1" || q.Get("sort") != "sim" || q.Get("exclude") != "used:rental:cbshop" {
			t.Errorf("unexpected params: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(oneItem))
	})

	resp := c.Search(context.Background(), "SPAO 남성 패딩")

	if !resp.Found() {
		t.Fatalf("Search() outcome = %v, want found", resp.Outcome)
	}
	if resp.Result.ImageURL != "https://shopping-phinf.pstatic.net/main_1/1.jpg" {
		t.Errorf("ImageURL = %q, want https upgrade", resp.Result.ImageURL)
	}
	if resp.Result.Title != "SPAO 남성 숏 패딩 & 점퍼" {
		t.Errorf("Title = %q, want markup stripped", resp.Result.Title)
	}
	if resp.Result.Price != "59900" || resp.Result.Mall != "SPAO" {
		t.Errorf("Result = %+v", resp.Result)
	}
	if resp.Attempts != 1 || atomic.LoadInt32(calls) != 1 {
		t.Errorf("attempts = %d, calls = %d, want 1", resp.Attempts, atomic.LoadInt32(calls))
	}
}

func TestSearch_RetriesOnceAfterRateLimit(t *testing.T) {
	var n int32
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(oneItem))
	})

	resp := c.Search(context.Background(), "SPAO 남성 패딩")

	if !resp.Found() {
		t.Fatalf("Search() outcome = %v, want found after retry", resp.Outcome)
	}
	if resp.Attempts != 2 || atomic.LoadInt32(calls) != 2 {
		t.Errorf("attempts = %d, calls = %d, want 2", resp.Attempts, atomic.LoadInt32(calls))
	}
}

func TestSearch_RateLimitedTwice(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	resp := c.Search(context.Background(), "SPAO")

	if resp.Outcome != OutcomeRateLimited || resp.Result != nil {
		t.Errorf("Search() = %+v, want rate limited absence", resp)
	}
	if atomic.LoadInt32(calls) != 2 {
		t.Errorf("calls = %d, want exactly 2", atomic.LoadInt32(calls))
	}
}

func TestSearch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    Outcome
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, OutcomeUnavailable},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}, OutcomeUnavailable},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items":[`))
		}, OutcomeUnavailable},
		{"no items", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"total":0,"items":[]}`))
		}, OutcomeEmpty},
		{"empty image", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"total":1,"items":[{"title":"x","image":""}]}`))
		}, OutcomeEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := newTestClient(t, tt.handler)
			resp := c.Search(context.Background(), "SPAO")
			if resp.Outcome != tt.want {
				t.Errorf("Search() outcome = %v, want %v", resp.Outcome, tt.want)
			}
			if resp.Found() {
				t.Error("Found() = true, want false")
			}
			if atomic.LoadInt32(calls) != 1 {
				t.Errorf("calls = %d, want 1 (only 429 is retried)", atomic.LoadInt32(calls))
			}
		})
	}
}

func TestSearch_Disabled(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		id     string
		secret string
	}{
		{"no credentials", "", ""},
		{"missing secret", "id", ""},
		{"missing id", "", "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(Config{ClientID: tt.id, ClientSecret: tt.secret, BaseURL: srv.URL})
			if c.Enabled() {
				t.Error("Enabled() = true, want false")
			}
			if resp := c.Search(context.Background(), "SPAO"); resp.Outcome != OutcomeDisabled {
				t.Errorf("Search() outcome = %v, want disabled", resp.Outcome)
			}
		})
	}
	if called {
		t.Error("disabled client should not send requests")
	}
}

func TestSearch_CancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{ClientID: "id", ClientSecret: "secret", BaseURL: srv.URL, RetryBackoff: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	resp := c.Search(ctx, "SPAO")
	if resp.Found() {
		t.Error("Found() = true, want false")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Search() did not honor context cancellation during backoff")
	}
}

func TestSearch_BreakerOpensAfterFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{
		ClientID:           "id",
		ClientSecret:       "secret",
		BaseURL:            srv.URL,
		BreakerMinRequests: 3,
		BreakerOpenTimeout: time.Minute,
	})

	for i := 0; i < 6; i++ {
		if resp := c.Search(context.Background(), "SPAO"); resp.Outcome != OutcomeUnavailable {
			t.Fatalf("Search() #%d outcome = %v, want unavailable", i, resp.Outcome)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("upstream calls = %d, want 3 before the breaker opened", got)
	}
}

func TestUpgradeScheme(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"http://img.example.com/a.jpg", "https://img.example.com/a.jpg"},
		{"HTTP://img.example.com/a.jpg", "https://img.example.com/a.jpg"},
		{"https://img.example.com/a.jpg", "https://img.example.com/a.jpg"},
		{"", ""},
		{"ftp://x", "ftp://x"},
	}

	for _, tt := range tests {
		if got := UpgradeScheme(tt.in); got != tt.expected {
			t.Errorf("UpgradeScheme(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		outcome  Outcome
		expected string
	}{
		{OutcomeFound, "found"},
		{OutcomeEmpty, "empty"},
		{OutcomeRateLimited, "rate_limited"},
		{OutcomeUnavailable, "unavailable"},
		{OutcomeDisabled, "disabled"},
	}

	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}
