package httpx

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Client wraps an http.Client with an explicit retry policy. The policy is
// supplied by the caller at construction; nothing retries implicitly.
type Client struct {
	httpClient *http.Client
	policy     RetryPolicy
}

// New builds a Client with a tuned transport. A non-positive timeout is
// normalized to 30 seconds.
func New(timeout time.Duration, policy RetryPolicy) *Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: tr},
		policy:     policy,
	}
}

// NewWithHTTPClient builds a Client from an existing http.Client (tests).
func NewWithHTTPClient(httpClient *http.Client, policy RetryPolicy) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient, policy: policy}
}

// Do executes req under the client's retry policy. Retryable transport errors
// and HTTP 5xx/429 responses are retried; everything else stops immediately.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	resp, err := retryOperation(ctx, c.policy, func() (*http.Response, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if isRetryableError(err) {
				return nil, err
			}
			return nil, &permanentError{err: err}
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("retryable status: %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return nil, unwrapPermanent(err)
	}
	return resp, nil
}

// Get sends a GET with optional headers and returns the response.
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(req)
}

// GetText sends a GET request and returns status code plus text body.
func (c *Client) GetText(ctx context.Context, rawURL string, headers map[string]string) (int, string, error) {
	status, body, err := c.GetBytes(ctx, rawURL, headers)
	return status, string(body), err
}

// GetBytes sends a GET request and returns status code plus raw body.
func (c *Client) GetBytes(ctx context.Context, rawURL string, headers map[string]string) (int, []byte, error) {
	resp, err := c.Get(ctx, rawURL, headers)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, b, nil
}

// permanentError marks failures that should bypass the retry loop.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func unwrapPermanent(err error) error {
	if p, ok := err.(*permanentError); ok {
		return p.err
	}
	return err
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "connection reset") || strings.Contains(s, "timeout") || strings.Contains(s, "eof")
}
