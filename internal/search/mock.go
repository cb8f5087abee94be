package search

import (
	"context"
	"sync"
)

// MockSearcher returns canned results keyed by query and records every
// call. Queries without a canned entry return Default, or Err when set.
type MockSearcher struct {
	mu      sync.Mutex
	results map[string][]Result
	errs    map[string]error
	Default []Result
	Err     error
	Queries []string
}

// NewMockSearcher creates an empty MockSearcher.
func NewMockSearcher() *MockSearcher {
	return &MockSearcher{
		results: make(map[string][]Result),
		errs:    make(map[string]error),
	}
}

// On registers results for an exact query.
func (m *MockSearcher) On(query string, results ...Result) *MockSearcher {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[query] = results
	return m
}

// FailOn makes an exact query return err.
func (m *MockSearcher) FailOn(query string, err error) *MockSearcher {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[query] = err
	return m
}

func (m *MockSearcher) Search(_ context.Context, query string, maxResults int) ([]Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)

	if err, ok := m.errs[query]; ok {
		return nil, err
	}
	res, ok := m.results[query]
	if !ok {
		if m.Err != nil {
			return nil, m.Err
		}
		res = m.Default
	}
	if maxResults > 0 && len(res) > maxResults {
		res = res[:maxResults]
	}
	out := make([]Result, len(res))
	copy(out, res)
	return out, nil
}

// CallCount returns the number of Search calls made.
func (m *MockSearcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}
