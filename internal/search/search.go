// Package search queries a web search delegate for learning resources.
package search

import (
	"context"
	"fmt"
)

// Result is one ranked search hit.
type Result struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

// Searcher runs a query and returns results in ranked order.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// ErrUnavailable indicates the search backend failed or rejected the call.
type ErrUnavailable struct {
	StatusCode int // 0 for transport errors
	Err        error
}

func (e *ErrUnavailable) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search unavailable (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("search unavailable: %v", e.Err)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// Nop returns no results. Used when no search backend is configured.
type Nop struct{}

func (Nop) Search(context.Context, string, int) ([]Result, error) { return nil, nil }
