// Package backend implements the outbound REST client for the external
// clinic backend. It owns transport concerns only: cookie replay, JSON
// codec, error mapping, and request metrics. Business rules stay upstream.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vetcareservices/clinic-portal/internal/api/metrics"
	"github.com/vetcareservices/clinic-portal/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Client is the shared HTTP plumbing for the auth and clinic gateways.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// errorBody is the backend's error envelope. Older builds answer with
// "message" instead of "error"; both are accepted.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errorBody) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// do performs one backend call and decodes the response into out (when
// non-nil). op labels the request metric; cookie, when non-empty, is replayed
// verbatim as the Cookie header.
func (c *Client) do(ctx context.Context, op, method, path, cookie string, body, out any) error {
	resp, err := c.roundTrip(ctx, op, method, path, cookie, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", op, err)
		}
		return nil
	}

	return c.statusError(op, resp)
}

// roundTrip issues the request and records the duration metric. The caller
// owns the response body.
func (c *Client) roundTrip(ctx context.Context, op, method, path, cookie string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues(op, "unreachable").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrBackendUnavailable, op, err)
	}

	metrics.BackendRequestDuration.WithLabelValues(op, outcomeLabel(resp.StatusCode)).Observe(time.Since(start).Seconds())
	return resp, nil
}

// statusError maps a non-2xx response to a domain error, reading the error
// envelope for a human-readable reason.
func (c *Client) statusError(op string, resp *http.Response) error {
	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &domain.AuthError{Status: resp.StatusCode, Message: eb.text()}
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	}

	c.log.Error().
		Str("op", op).
		Int("status", resp.StatusCode).
		Str("message", eb.text()).
		Msg("backend request failed")

	return fmt.Errorf("backend %s: status %d: %s", op, resp.StatusCode, eb.text())
}

func outcomeLabel(status int) string {
	switch {
	case status < 400:
		return "ok"
	case status < 500:
		return "client_error"
	default:
		return "server_error"
	}
}
