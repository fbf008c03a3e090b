// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"sync"

	"kfit/internal/shop"
)

// Searcher is a scripted shop.Searcher. Queries missing from Responses
// come back empty. Every call is recorded.
type Searcher struct {
	Responses map[string]shop.Response

	// Release, when set, blocks every search until it is closed.
	Release chan struct{}

	mu    sync.Mutex
	calls []string
}

// NewSearcher creates a scripted searcher answering from responses.
func NewSearcher(responses map[string]shop.Response) *Searcher {
	return &Searcher{Responses: responses}
}

// Search records the query and returns the scripted response.
func (s *Searcher) Search(ctx context.Context, query string) shop.Response {
	s.mu.Lock()
	s.calls = append(s.calls, query)
	s.mu.Unlock()

	if s.Release != nil {
		select {
		case <-s.Release:
		case <-ctx.Done():
			return shop.Response{Outcome: shop.OutcomeUnavailable, Attempts: 1}
		}
	}

	if resp, ok := s.Responses[query]; ok {
		return resp
	}
	return shop.Response{Outcome: shop.OutcomeEmpty, Attempts: 1}
}

// Calls returns the queries searched so far, in order.
func (s *Searcher) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Found builds a successful response for image.
func Found(image string) shop.Response {
	return shop.Response{
		Outcome: shop.OutcomeFound,
		Result: &shop.Result{
			ImageURL: image,
			Link:     "https://search.shopping.naver.com/gate?id=1",
			Title:    "SPAO 남성 숏 패딩",
			Price:    "59900",
			Mall:     "SPAO",
		},
		Attempts: 1,
	}
}
