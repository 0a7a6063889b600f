// Package courier holds the transport plumbing shared by the courier
// network adapters: a JSON HTTP client that normalizes failures into
// AdapterHTTPError, flexible payload field extraction, webhook signature
// checking, and the queue publisher for parsed updates.
package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"localoffice/internal/pkg/errs"
	"localoffice/internal/pkg/retry"
)

const (
	requestTimeout = 10 * time.Second

	defaultRetries   = 2
	defaultBaseDelay = 100 * time.Millisecond
)

// Client posts to one provider's API and translates every failure into an
// AdapterHTTPError. Network-level failures and 429/5xx responses are marked
// retryable, other statuses are not.
type Client struct {
	provider   string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the provider API at baseURL.
func NewClient(provider, baseURL string) *Client {
	return &Client{
		provider:   provider,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// PostJSON sends body as JSON to path and decodes the response into a
// generic payload map. Headers are applied on top of the JSON content type;
// use them for authorization.
func (c *Client) PostJSON(
	ctx context.Context,
	path string,
	body any,
	headers map[string]string,
) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	return c.do(req)
}

// PostForm sends body as form-encoded data, used by OAuth token endpoints.
func (c *Client) PostForm(ctx context.Context, path, body string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (map[string]any, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewAdapterHTTPErrorWithCause(c.provider, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NewAdapterHTTPErrorWithCause(c.provider, "reading response failed", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, errs.NewAdapterHTTPError(c.provider,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), resp.StatusCode, retryable)
	}

	payload := map[string]any{}
	if len(raw) > 0 {
		if err = json.Unmarshal(raw, &payload); err != nil {
			return nil, errs.NewAdapterHTTPErrorWithCause(c.provider, "decoding response failed", err)
		}
	}

	return payload, nil
}

// RetryPolicy builds the standard outbound-call policy: two re-attempts
// with doubling delay, retrying only failures marked retryable, logging
// each re-attempt.
func RetryPolicy(logger *slog.Logger, operation string) retry.Policy {
	return retry.Policy{
		Retries:     defaultRetries,
		BaseDelay:   defaultBaseDelay,
		ShouldRetry: errs.IsRetryableAdapterError,
		OnRetry: func(err error, attempt int) {
			logger.Warn("retrying provider request",
				"operation", operation, "attempt", attempt, "error", err)
		},
	}
}

// Retry runs op under the standard policy.
func Retry[T any](ctx context.Context, logger *slog.Logger, operation string, op func() (T, error)) (T, error) {
	return retry.Execute(ctx, RetryPolicy(logger, operation), op)
}
