// Package todoist is the adapter for the Todoist REST v2 API. Each method
// performs one logical unit of work and reports failure as a typed error.
package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dori/doist/internal/logger"
	"github.com/google/uuid"
)

// Config holds what the client needs to reach the API
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client // Optional, overrides Timeout
}

// Client talks to the Todoist REST API
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a new API client
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    hc,
	}
}

// request describes one API call. endpoint is the path template used as the
// metrics label so ids do not blow up cardinality.
type request struct {
	op       string
	method   string
	endpoint string
	path     string
	body     any
}

// do sends req and decodes a JSON response into out (if non-nil). Empty
// success responses (204) are success without decoding.
func (c *Client) do(ctx context.Context, req request, out any) error {
	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", req.op, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", req.op, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.method != http.MethodGet {
		// Lets the API drop duplicate deliveries of the same mutation
		httpReq.Header.Set("X-Request-Id", uuid.NewString())
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	requestDuration.WithLabelValues(req.method, req.endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		requestCount.WithLabelValues(req.method, req.endpoint, "error").Inc()
		logger.Error(ctx, err, "todoist request failed", "op", req.op)
		return &TransportError{Op: req.op, Err: err}
	}
	defer resp.Body.Close()
	requestCount.WithLabelValues(req.method, req.endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	logger.Debug(ctx, "todoist request", "op", req.op, "method", req.method, "path", req.path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(req.op, resp)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", req.op, err)
	}
	return nil
}

// responseError turns a non-2xx response into a TransportError, pulling the
// message from a JSON body when there is one
func responseError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(raw, &payload) == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}

	te := &TransportError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	if resp.StatusCode == http.StatusNotFound {
		te.Err = ErrNotFound
	} else {
		te.Err = fmt.Errorf("status %d", resp.StatusCode)
	}
	return te
}
