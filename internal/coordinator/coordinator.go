package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"laborfetcher/internal/fetcher"
	"laborfetcher/internal/logger"
	"laborfetcher/internal/record"
	"laborfetcher/internal/store"
)

// Merger persists a freshly fetched Record Set.
type Merger interface {
	Merge(candidate record.Set) (store.MergeResult, error)
}

// Report summarizes one run.
type Report struct {
	RunID    string
	Source   string
	Fetched  int
	Merge    store.MergeResult
	Duration time.Duration
}

// Coordinator runs a fetch followed by a merge. The two steps are sequential
// and the merge only starts once the fetch has fully succeeded.
type Coordinator struct {
	fetcher fetcher.Fetcher
	merger  Merger
	log     *logger.Logger
	newID   func() string
}

// New creates a Coordinator. A nil logger discards output.
func New(f fetcher.Fetcher, m Merger, log *logger.Logger) *Coordinator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Coordinator{
		fetcher: f,
		merger:  m,
		log:     log,
		newID:   func() string { return uuid.New().String() },
	}
}

// Run fetches and merges once. A fetch failure returns before the destination
// is opened, so prior data is left untouched.
func (c *Coordinator) Run(ctx context.Context) (Report, error) {
	if c.fetcher == nil {
		return Report{}, errors.New("no fetcher configured")
	}
	if c.merger == nil {
		return Report{}, errors.New("no store configured")
	}

	report := Report{RunID: c.newID(), Source: c.fetcher.Name()}
	log := c.log.WithRun(report.RunID)
	start := time.Now()

	log.Infow("fetching observations", "source", report.Source)
	set, err := c.fetcher.Fetch(ctx)
	if err != nil {
		log.Errorw("fetch failed, data file left unchanged", "error", err)
		return report, fmt.Errorf("fetch from %s: %w", report.Source, err)
	}
	report.Fetched = len(set)
	log.Infow("fetched observations", "rows", report.Fetched)

	result, err := c.merger.Merge(set)
	report.Merge = result
	report.Duration = time.Since(start)
	if err != nil {
		log.Errorw("writing data file failed", "error", err)
		return report, err
	}

	log.Infow("run complete",
		"written", result.Written,
		"dropped", result.Dropped,
		"bootstrapped", result.Bootstrapped,
		"duration", report.Duration)

	return report, nil
}
