package routing

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/platform/metrics"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// upstream wraps an http.Client with the headers and retry policy shared by
// the external services this package talks to.
type upstream struct {
	session *http.Client
	service string
	header  http.Header
	backoff time.Duration
}

func newUpstream(service string, timeout time.Duration, header http.Header) *upstream {
	return &upstream{
		session: &http.Client{Timeout: timeout},
		service: service,
		header:  header,
		backoff: 200 * time.Millisecond,
	}
}

func (u *upstream) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range u.header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (u *upstream) do(req *http.Request) (*http.Response, error) {
	resp, err := u.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx
// responses) using exponential backoff while respecting context cancellation.
func (u *upstream) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := u.backoff

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := u.do(req)
		if err == nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(u.service, "ok").Inc()
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			metrics.UpstreamRequestsTotal.WithLabelValues(u.service, "error").Inc()
			return nil, lastErr
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(u.service, "retry").Inc()

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

// normalize collapses whitespace and case so equivalent queries share a
// cache entry.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
