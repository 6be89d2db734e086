// Package bls fetches time series from the Bureau of Labor Statistics public
// API v2 and flattens them into records.
package bls

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"resty.dev/v3"

	"laborfetcher/internal/config"
	"laborfetcher/internal/fetcher"
	"laborfetcher/internal/logger"
	"laborfetcher/internal/ratelimit"
	"laborfetcher/internal/record"
)

const (
	timeseriesPath = "/timeseries/data/"

	// MaxSeriesPerRequest and MaxYearsPerRequest are the v2 API query limits
	// for registered users.
	MaxSeriesPerRequest = 50
	MaxYearsPerRequest  = 20
)

// TimeseriesFetcher fetches a fixed list of series over a year range.
type TimeseriesFetcher struct {
	apiKey    string
	seriesIDs []string
	startYear int
	endYear   int
	client    *resty.Client
	limiter   *ratelimit.Limiter
	log       *logger.Logger
	now       func() time.Time
}

// Option customizes a TimeseriesFetcher.
type Option func(*TimeseriesFetcher)

// WithYears sets the year range. An end year of 0 means the current year.
func WithYears(start, end int) Option {
	return func(f *TimeseriesFetcher) {
		f.startYear = start
		f.endYear = end
	}
}

// WithLimiter paces requests when a fetch needs more than one of them.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(f *TimeseriesFetcher) { f.limiter = l }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(f *TimeseriesFetcher) { f.log = l }
}

// WithClock replaces time.Now when resolving the current year.
func WithClock(now func() time.Time) Option {
	return func(f *TimeseriesFetcher) { f.now = now }
}

// WithClient replaces the HTTP client. The client's base URL is used as is.
func WithClient(c *resty.Client) Option {
	return func(f *TimeseriesFetcher) { f.client = c }
}

// NewTimeseriesFetcher creates a fetcher for seriesIDs against baseURL.
// Without options it covers config.DefaultStartYear through the current year
// using a client with no timeout and no retries.
func NewTimeseriesFetcher(apiKey string, seriesIDs []string, baseURL string, opts ...Option) *TimeseriesFetcher {
	f := &TimeseriesFetcher{
		apiKey:    apiKey,
		seriesIDs: append([]string(nil), seriesIDs...),
		startYear: config.DefaultStartYear,
		log:       logger.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = fetcher.NewHTTPClient(baseURL, fetcher.ClientOptions{Logger: f.log})
	}
	return f
}

// Name identifies the source in logs.
func (f *TimeseriesFetcher) Name() string {
	return "bls:timeseries"
}

// Fetch retrieves every configured series and flattens the observations into
// one record per (series, period). Records keep the API's order. Any failed
// request fails the whole fetch and nothing is returned.
func (f *TimeseriesFetcher) Fetch(ctx context.Context) (record.Set, error) {
	if strings.TrimSpace(f.apiKey) == "" {
		return nil, config.MissingAPIKey()
	}
	if len(f.seriesIDs) == 0 {
		return nil, &config.ConfigurationError{Missing: []string{"series_ids"}}
	}

	endYear := f.endYear
	if endYear == 0 {
		endYear = f.now().Year()
	}
	if endYear < f.startYear {
		return nil, &config.ConfigurationError{
			Invalid: []string{fmt.Sprintf("end year %d is before start year %d", endYear, f.startYear)},
		}
	}

	set := record.Set{}
	for _, batch := range chunk(f.seriesIDs, MaxSeriesPerRequest) {
		for _, window := range yearWindows(f.startYear, endYear, MaxYearsPerRequest) {
			if err := f.limiter.Wait(ctx); err != nil {
				return nil, fetcher.ClassifyTransportError(err)
			}

			records, err := f.fetchBatch(ctx, TimeseriesRequest{
				SeriesID:        batch,
				StartYear:       strconv.Itoa(window[0]),
				EndYear:         strconv.Itoa(window[1]),
				RegistrationKey: f.apiKey,
			})
			if err != nil {
				return nil, err
			}
			set = append(set, records...)
		}
	}

	return set, nil
}

func (f *TimeseriesFetcher) fetchBatch(ctx context.Context, body TimeseriesRequest) (record.Set, error) {
	var result, errBody TimeseriesResponse

	log := f.log
	if len(body.SeriesID) == 1 {
		log = log.WithSeries(body.SeriesID[0])
	}
	log.Debugw("requesting series",
		"series", len(body.SeriesID),
		"start_year", body.StartYear,
		"end_year", body.EndYear)

	resp, err := f.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&errBody).
		Post(timeseriesPath)

	if err != nil {
		switch {
		case resp != nil && resp.IsSuccess():
			return nil, fetcher.NewValidationError(fmt.Sprintf("failed to decode response: %v", err))
		case resp != nil && resp.StatusCode() >= 300:
			return nil, fetcher.ClassifyHTTPError(resp.StatusCode(), errBody.Message.String())
		}
		return nil, fetcher.ClassifyTransportError(err)
	}

	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPError(resp.StatusCode(), errBody.Message.String())
	}

	if result.Results == nil {
		return nil, fetcher.NewUpstreamError(result.Message.String())
	}

	if len(result.Message) > 0 {
		log.Warnw("BLS API returned messages", "status", result.Status, "message", result.Message.String())
	}

	return flatten(result)
}

// flatten turns the nested series→observation payload into records.
func flatten(result TimeseriesResponse) (record.Set, error) {
	var set record.Set
	for _, series := range result.Results.Series {
		for _, obs := range series.Data {
			year, err := strconv.Atoi(strings.TrimSpace(obs.Year))
			if err != nil {
				return nil, fetcher.NewValidationError(
					fmt.Sprintf("invalid year %q for series %s", obs.Year, series.SeriesID))
			}
			set = append(set, record.Record{
				SeriesID:   series.SeriesID,
				Year:       strconv.Itoa(year),
				Period:     obs.Period,
				PeriodName: obs.PeriodName,
				Value:      obs.Value,
			})
		}
	}
	return set, nil
}

func chunk(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	return append(out, ids)
}

// yearWindows splits [start, end] into inclusive ranges of at most size years.
func yearWindows(start, end, size int) [][2]int {
	var out [][2]int
	for from := start; from <= end; from += size {
		to := from + size - 1
		if to > end {
			to = end
		}
		out = append(out, [2]int{from, to})
	}
	return out
}
