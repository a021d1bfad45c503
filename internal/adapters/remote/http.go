package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"route-planner/internal/api/dto"
	"route-planner/internal/platform/apperr"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// message returns the server's {"error": ...} text, or the status text.
func (e *httpStatusError) message() string {
	var body dto.ErrorResponse
	if err := json.Unmarshal([]byte(e.Body), &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.ToLower(http.StatusText(e.Code))
}

// retryable lists the statuses a read is retried on.
var retryable = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// transient reports whether a failed read is worth another attempt.
func transient(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		return slices.Contains(retryable, he.Code)
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// send performs one request that is never retried and decodes the reply into out.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	return c.exchange(ctx, method, path, nil, body, out, 1)
}

// get performs a GET, retrying transient failures.
func (c *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	q := make(url.Values, len(query))
	for k, v := range query {
		q.Set(k, v)
	}
	return c.exchange(ctx, http.MethodGet, path, q, nil, out, c.attempts)
}

// exchange makes up to attempts round trips, doubling the wait after each
// transient failure, and returns a kinded error once it gives up.
func (c *Client) exchange(ctx context.Context, method, path string, query url.Values, body, out any, attempts int) error {
	wait := c.backoff
	for attempt := 1; ; attempt++ {
		req, err := c.newRequest(ctx, method, path, query, body)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "build request", err)
		}

		payload, err := c.roundTrip(req)
		if err == nil {
			return c.decode(payload, out)
		}
		if attempt >= attempts || !transient(err) || ctx.Err() != nil {
			return classify(err)
		}

		c.log.WithContext(ctx).Debug("retrying request",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return classify(ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// roundTrip returns the body of a successful reply. Replies of 400 and above
// come back as *httpStatusError.
func (c *Client) roundTrip(req *http.Request) ([]byte, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}
	return payload, nil
}

func (c *Client) decode(payload []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return apperr.Wrap(apperr.KindRemote, "malformed response", err)
	}
	if err := c.validator.Struct(out); err != nil {
		return apperr.Wrap(apperr.KindRemote, "malformed response", err)
	}
	return nil
}

// classify turns a transport or status failure into a kinded error.
func classify(err error) error {
	var he *httpStatusError
	if errors.As(err, &he) {
		return apperr.Wrap(apperr.FromStatus(he.Code), he.message(), err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindUnavailable, "request cancelled", err)
	}
	return apperr.Wrap(apperr.KindUnavailable, "route service unreachable", err)
}
