// Package provider defines the uniform gateway to upstream model vendors and
// the registry that holds them.
package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aiproxy/internal/metrics"
	"aiproxy/internal/models"
)

// ErrNoProvider indicates that no provider is registered.
var ErrNoProvider = errors.New("no provider configured")

// ErrTransport indicates the upstream exchange failed before a response arrived.
var ErrTransport = errors.New("transport error")

// ErrUpstream indicates the upstream answered with a non-success status.
var ErrUpstream = errors.New("provider error")

const maxErrorBody = 64 * 1024

// Common header values shared by every vendor.
const (
	ContentTypeJSON = "application/json"
	UserAgent       = "aiproxy/0.1"
)

// Provider exchanges one raw JSON request for one raw JSON response in the
// provider's own schema.
type Provider interface {
	Name() string
	Protocol() models.Protocol
	ChatCompletion(ctx context.Context, payload []byte) ([]byte, error)
}

// UpstreamError carries a non-2xx upstream reply.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// TransportError wraps network, timeout and body read failures.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// Post sends payload to target and returns the response body of a 2xx reply.
func Post(ctx context.Context, client *http.Client, name, target string, header http.Header, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("construct request: %w", redactURL(err))
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := client.Do(req)
	metrics.ProviderLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(name, "error").Inc()
		return nil, &TransportError{Provider: name, Err: redactURL(err)}
	}
	defer resp.Body.Close()

	metrics.ProviderRequestsTotal.WithLabelValues(name, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(name, resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Provider: name, Err: fmt.Errorf("read response body: %w", err)}
	}
	return body, nil
}

func parseAPIError(name string, resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		slog.Debug("failed to read upstream error body", "provider", name, "status", resp.StatusCode, "error", err)
	}
	return &UpstreamError{
		Provider:   name,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// redactURL strips the query string from URLs embedded in err. Some vendors
// take the API key as a query parameter.
func redactURL(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	u, parseErr := url.Parse(urlErr.URL)
	if parseErr != nil {
		return &url.Error{Op: urlErr.Op, URL: "[redacted]", Err: urlErr.Err}
	}
	if u.RawQuery == "" {
		return err
	}
	u.RawQuery = ""
	return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
}

// BaseHeader returns the JSON headers every vendor sends.
func BaseHeader() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", ContentTypeJSON)
	h.Set("Accept", ContentTypeJSON)
	h.Set("User-Agent", UserAgent)
	return h
}
