package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"laborfetcher/internal/bls"
	"laborfetcher/internal/coordinator"
	"laborfetcher/internal/fetcher"
	"laborfetcher/internal/record"
	"laborfetcher/internal/store"
)

func blsServer(t *testing.T, body *atomic.Value, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body.Load().(string)))
	}))
	t.Cleanup(server.Close)
	return server
}

const januaryOnly = `{
	"status": "REQUEST_SUCCEEDED",
	"message": [],
	"Results": {"series": [{"seriesID": "LNS14000000", "data": [
		{"year": "2021", "period": "M01", "periodName": "January", "value": "6.3"}
	]}]}
}`

const januaryFebruary = `{
	"status": "REQUEST_SUCCEEDED",
	"message": [],
	"Results": {"series": [{"seriesID": "LNS14000000", "data": [
		{"year": "2021", "period": "M02", "periodName": "February", "value": "6.0"},
		{"year": "2021", "period": "M01", "periodName": "January", "value": "6.3"}
	]}]}
}`

func newPipeline(url, path string, opts ...store.Option) *coordinator.Coordinator {
	source := bls.NewTimeseriesFetcher("test_key", []string{"LNS14000000"}, url, bls.WithYears(2021, 2021))
	return coordinator.New(source, store.New(path, opts...), nil)
}

// TestIntegration_RepeatedRuns fetches and merges three times against a
// changing upstream and checks the file after each run.
func TestIntegration_RepeatedRuns(t *testing.T) {
	var body atomic.Value
	var calls atomic.Int32
	body.Store(januaryOnly)
	server := blsServer(t, &body, &calls)

	path := filepath.Join(t.TempDir(), "bls_data.csv")
	pipeline := newPipeline(server.URL, path)
	ctx := context.Background()

	report, err := pipeline.Run(ctx)
	if err != nil {
		t.Fatalf("first Run() failed: %v", err)
	}
	if !report.Merge.Bootstrapped {
		t.Error("first run should create the data file")
	}

	body.Store(januaryFebruary)
	report, err = pipeline.Run(ctx)
	if err != nil {
		t.Fatalf("second Run() failed: %v", err)
	}
	if report.Merge.Written != 2 || report.Merge.Dropped != 1 {
		t.Errorf("second run wrote %d rows, dropped %d; want 2 and 1", report.Merge.Written, report.Merge.Dropped)
	}

	afterSecond, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := pipeline.Run(ctx); err != nil {
		t.Fatalf("third Run() failed: %v", err)
	}
	afterThird, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "series_id,year,period,value,period_name\n" +
		"LNS14000000,2021,M01,6.3,January\n" +
		"LNS14000000,2021,M02,6.0,February\n"
	if string(afterThird) != want {
		t.Errorf("data file =\n%s\nwant\n%s", afterThird, want)
	}
	if !bytes.Equal(afterSecond, afterThird) {
		t.Error("re-running against unchanged upstream data changed the file")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("upstream calls = %d, want 3", got)
	}
}

// TestIntegration_UpstreamFailureKeepsFile checks that a failed fetch leaves
// an existing data file byte for byte as it was.
func TestIntegration_UpstreamFailureKeepsFile(t *testing.T) {
	failures := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
		"not processed": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"REQUEST_NOT_PROCESSED","message":["Invalid key"]}`))
		},
	}

	for name, handler := range failures {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			path := filepath.Join(t.TempDir(), "bls_data.csv")
			seed := record.Set{{SeriesID: "LNS14000000", Year: "2020", Period: "M01", PeriodName: "January", Value: "3.5"}}
			if err := store.New(path).Save(seed); err != nil {
				t.Fatal(err)
			}
			before, _ := os.ReadFile(path)

			_, err := newPipeline(server.URL, path).Run(context.Background())
			if !fetcher.IsDataSourceError(err) {
				t.Fatalf("Run() error = %v, want a data source error", err)
			}

			after, _ := os.ReadFile(path)
			if !bytes.Equal(before, after) {
				t.Error("data file changed after a failed fetch")
			}
		})
	}
}

// TestIntegration_LatestPolicyReplacesRevisions checks the opt-in
// last-value-wins policy end to end.
func TestIntegration_LatestPolicyReplacesRevisions(t *testing.T) {
	var body atomic.Value
	var calls atomic.Int32
	body.Store(januaryOnly)
	server := blsServer(t, &body, &calls)

	path := filepath.Join(t.TempDir(), "bls_data.csv")
	pipeline := newPipeline(server.URL, path, store.WithPolicy(record.PolicyLatest), store.WithAtomicWrite(true))

	if _, err := pipeline.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	body.Store(strings.Replace(januaryOnly, `"6.3"`, `"6.4"`, 1))
	if _, err := pipeline.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), ",6.3,") || !strings.Contains(string(data), ",6.4,") {
		t.Errorf("expected only the revised value, got:\n%s", data)
	}
}

// TestIntegration_ContextTimeout tests that context timeout is respected
func TestIntegration_ContextTimeout(t *testing.T) {
	hangingServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer hangingServer.Close()

	path := filepath.Join(t.TempDir(), "bls_data.csv")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newPipeline(hangingServer.URL, path).Run(ctx)
	duration := time.Since(start)

	if !fetcher.IsDataSourceError(err) {
		t.Fatalf("Run() error = %v, want a data source error", err)
	}
	if duration > time.Second {
		t.Errorf("Context timeout not respected. Duration: %v", duration)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no data file should be created when the fetch fails")
	}
}
