package testutil

import (
	"context"
	"sync/atomic"

	"laborfetcher/internal/fetcher"
	"laborfetcher/internal/record"
	"laborfetcher/internal/store"
)

// MockFetcher is a mock implementation of the Fetcher interface for testing
type MockFetcher struct {
	FetchFunc func(ctx context.Context) (record.Set, error)
	NameFunc  func() string

	calls atomic.Int32
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(ctx context.Context) (record.Set, error) {
	m.calls.Add(1)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return nil, nil
}

// Name implements the Fetcher interface
func (m *MockFetcher) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock:fetcher"
}

// Calls returns how many times Fetch was invoked.
func (m *MockFetcher) Calls() int {
	return int(m.calls.Load())
}

// NewMockFetcher creates a mock fetcher that returns set and err on every call.
func NewMockFetcher(name string, set record.Set, err error) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context) (record.Set, error) {
			return set, err
		},
		NameFunc: func() string {
			return name
		},
	}
}

// MockMerger records the candidates it receives.
type MockMerger struct {
	Result     store.MergeResult
	Err        error
	Candidates []record.Set
}

// Merge records candidate and returns the configured result.
func (m *MockMerger) Merge(candidate record.Set) (store.MergeResult, error) {
	m.Candidates = append(m.Candidates, candidate)
	return m.Result, m.Err
}

var _ fetcher.Fetcher = (*MockFetcher)(nil)
