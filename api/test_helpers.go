package api

import (
	"context"
	"sync"
	"testing"
	"time"

	"clickupai/aggregator"
	"clickupai/analysis"
	"clickupai/clickup"
	"clickupai/clickup/clickuptest"
	"clickupai/domain"
	"clickupai/utils"
)

const testClickUpKey = "pk_test_123"

// stubRecommender returns text, or err when set.
type stubRecommender struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
}

func (s *stubRecommender) Recommend(ctx context.Context, useCase string, summary aggregator.Summary) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.text, s.err
}

func (s *stubRecommender) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type testEnv struct {
	ClickUp     *clickuptest.Server
	Recommender *stubRecommender
}

// newTestController wires a real pipeline to an in-memory ClickUp server
// holding the three-space fixture and a recommender returning recommendation.
func newTestController(t *testing.T, recommendation string) (Controller, *testEnv) {
	t.Helper()
	srv := clickuptest.NewServer(t, testClickUpKey, clickuptest.ThreeSpaceWorkspace())
	recommender := &stubRecommender{text: recommendation}
	fetcher := clickup.New(
		clickup.WithBaseURL(srv.URL),
		clickup.WithHTTPClient(srv.Client()),
		clickup.WithRetryIntervals(time.Millisecond, time.Millisecond),
	)
	pipeline := analysis.New(fetcher, recommender, analysis.Options{
		Clock: func() time.Time { return clickuptest.Now },
		RecommendRetry: utils.RetryPolicy{
			MaxAttempts:     2,
			InitialInterval: time.Millisecond,
			MaxInterval:     time.Millisecond,
			Retryable:       domain.IsRetryable,
		},
	})
	return NewController(pipeline, nil), &testEnv{ClickUp: srv, Recommender: recommender}
}
