package fetcher

import (
	"context"

	"laborfetcher/internal/record"
)

// Fetcher is the interface every data source implements.
// A fetcher knows how to retrieve a batch of observations and flatten them
// into a Record Set.
type Fetcher interface {
	// Fetch retrieves observations and returns them in upstream order.
	// On failure no partial Record Set is returned.
	Fetch(ctx context.Context) (record.Set, error)

	// Name identifies the source in logs and reports.
	// Format: {source}:{detail}, e.g. bls:timeseries
	Name() string
}
