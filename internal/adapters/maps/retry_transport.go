package maps

import (
	"errors"
	"fmt"
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

// retryTransport retries transient failures (network errors, 429 and 5xx responses)
// using exponential backoff while respecting the request context. A final status
// of 400 or above is returned as *httpStatusError so callers never decode an
// error page as JSON.
type retryTransport struct {
	base        http.RoundTripper
	maxAttempts int
	backoff     time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	backoff := t.backoff

	var lastErr error

	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := t.base.RoundTrip(req)
		if err == nil && resp.StatusCode < 400 {
			return resp, nil
		}

		retry := false
		if err != nil {
			var netErr net.Error
			retry = ctx.Err() == nil && errors.As(err, &netErr)
			lastErr = err
		} else {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = &httpStatusError{
				Code: resp.StatusCode,
				Body: strings.TrimSpace(string(b)),
			}

			switch resp.StatusCode {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		if !retry || attempt == t.maxAttempts {
			return nil, lastErr
		}

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
