package fetcher

import (
	"time"

	"resty.dev/v3"

	"laborfetcher/internal/logger"
)

const (
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second
)

// ClientOptions is the transport policy. The zero value means no timeout and
// no retries: the caller decides whether a failed run is worth repeating.
type ClientOptions struct {
	Timeout    time.Duration
	RetryCount int
	Logger     *logger.Logger
}

// NewHTTPClient creates a JSON HTTP client for baseURL. Retries with
// exponential backoff are only enabled when opts.RetryCount is positive, and
// then apply to POST as well since the BLS query endpoint is read-only.
func NewHTTPClient(baseURL string, opts ClientOptions) *resty.Client {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTimeout(opts.Timeout)

	if opts.RetryCount > 0 {
		client.
			SetRetryCount(opts.RetryCount).
			SetAllowNonIdempotentRetry(true).
			SetRetryWaitTime(defaultRetryWaitTime).
			SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
			AddRetryConditions(retryCondition).
			AddRetryHooks(retryHook(log))
	}

	return client
}

// retryCondition retries whatever the error taxonomy marks retryable:
// transport failures, 5xx, 429 and 408. Other 4xx are final.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return ClassifyTransportError(err).Retryable
	}
	if r.IsSuccess() {
		return false
	}
	return ClassifyHTTPError(r.StatusCode(), "").Retryable
}

func retryHook(log *logger.Logger) func(*resty.Response, error) {
	return func(r *resty.Response, err error) {
		if err != nil {
			log.Debugw("retrying request due to error",
				"url", r.Request.URL,
				"attempt", r.Request.Attempt,
				"error", err.Error())
			return
		}

		log.Debugw("retrying request due to status code",
			"url", r.Request.URL,
			"attempt", r.Request.Attempt,
			"status_code", r.StatusCode())
	}
}
