package spotify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Transport executes a single HTTP exchange and returns the raw response body.
//
// Implementations decide how non-2xx statuses are reported; [HTTPTransport]
// turns them into errors. The client never retries a failed exchange.
type Transport interface {
	Execute(ctx context.Context, method, url string, header http.Header, body string) (string, error)
}

// HTTPTransportOpts contains configuration options for creating an HTTPTransport.
type HTTPTransportOpts struct {
	Client    *http.Client
	Timeout   time.Duration // per-request timeout, ignored when Client is provided
	RateLimit float64       // requests per second, 0 disables limiting
}

// HTTPTransport is the production [Transport] backed by net/http with an
// optional request rate limit.
type HTTPTransport struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPTransport creates an HTTPTransport with the provided options.
func NewHTTPTransport(opts HTTPTransportOpts) *HTTPTransport {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &HTTPTransport{client: client, limiter: limiter}
}

// Execute performs the HTTP request and returns the response body text.
// Non-2xx responses are returned as errors carrying the status code.
func (t *HTTPTransport) Execute(ctx context.Context, method, url string, header http.Header, body string) (string, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait cancelled: %w", err)
		}
	}

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for name, values := range header {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("spotify API error: status %d", resp.StatusCode)
	}

	return string(data), nil
}
