package radiko

import (
	"log/slog"
	"time"

	"aircheck/internal/httpx"
	"aircheck/internal/logging"
)

const (
	defaultBaseURL       = "https://radiko.jp"
	defaultStreamBaseURL = "https://f-radiko.smartstream.ne.jp"

	// DefaultAreaID is the Tokyo region, the upstream default.
	DefaultAreaID = "JP13"

	authTokenHeader = "X-Radiko-AuthToken"
)

// Client talks to the radiko API: authentication, station listings, program
// schedules, search, and stream resolution.
type Client struct {
	http          *httpx.Client
	logger        *slog.Logger
	baseURL       string
	streamBaseURL string
	now           func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithStreamBaseURL overrides the live playlist host (tests).
func WithStreamBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.streamBaseURL = baseURL
		}
	}
}

// WithLogger attaches a logger; a nil logger keeps the no-op default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "radiko")
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New constructs a radiko client on top of the shared HTTP client. The retry
// behavior is whatever policy httpClient was built with; nothing here retries
// on its own.
func New(httpClient *httpx.Client, opts ...Option) *Client {
	c := &Client{
		http:          httpClient,
		logger:        logging.NewNop(),
		baseURL:       defaultBaseURL,
		streamBaseURL: defaultStreamBaseURL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
