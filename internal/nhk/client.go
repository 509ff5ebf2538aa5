package nhk

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"aircheck/internal/httpx"
	"aircheck/internal/logging"
	"aircheck/internal/services"
)

const defaultBaseURL = "https://www.nhk.or.jp/radioondemand/json"

// Client reads the ondemand JSON catalog. No authentication is involved;
// episode payloads carry their stream URLs directly.
type Client struct {
	http    *httpx.Client
	logger  *slog.Logger
	baseURL string
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the catalog base URL (tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithLogger attaches a logger; a nil logger keeps the no-op default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "nhk")
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

// New constructs an ondemand client on top of the shared HTTP client.
func New(httpClient *httpx.Client, opts ...Option) *Client {
	c := &Client{
		http:    httpClient,
		logger:  logging.NewNop(),
		baseURL: defaultBaseURL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Corner is one entry in the new-arrivals or by-date listings. It identifies
// a series but carries no stream; Series fetches the playable episodes.
type Corner struct {
	Title          string `json:"title"`
	RadioBroadcast string `json:"radio_broadcast"`
	OnairDate      string `json:"onair_date"`
	SeriesSiteID   string `json:"series_site_id"`
	CornerSiteID   string `json:"corner_site_id"`
	ThumbnailURL   string `json:"thumbnail_url"`
}

type cornersPayload struct {
	OnairDate string   `json:"onair_date"`
	Corners   []Corner `json:"corners"`
}

// Episode is one playable recording inside a series detail payload.
type Episode struct {
	ProgramTitle    string `json:"program_title"`
	ProgramSubTitle string `json:"program_sub_title"`
	OnairDate       string `json:"onair_date"`
	ClosedAt        string `json:"closed_at"`
	StreamURL       string `json:"stream_url"`
}

// Series is the detail payload for one series/corner pair.
type Series struct {
	Title          string    `json:"title"`
	RadioBroadcast string    `json:"radio_broadcast"`
	Schedule       string    `json:"schedule"`
	ThumbnailURL   string    `json:"thumbnail_url"`
	Episodes       []Episode `json:"episodes"`
}

// NewArrivals lists recently published corners.
func (c *Client) NewArrivals(ctx context.Context) ([]Corner, error) {
	var payload cornersPayload
	if err := c.fetchJSON(ctx, c.baseURL+"/new_arrivals.json", "fetch new arrivals", &payload); err != nil {
		return nil, err
	}
	return payload.Corners, nil
}

// CornersByDate lists the corners broadcast on one day. date is the 8-digit
// YYYYMMDD form.
func (c *Client) CornersByDate(ctx context.Context, date string) ([]Corner, error) {
	url := fmt.Sprintf("%s/corners-%s.json", c.baseURL, date)
	var payload cornersPayload
	if err := c.fetchJSON(ctx, url, "fetch corners by date", &payload); err != nil {
		return nil, err
	}
	return payload.Corners, nil
}

// Series fetches the detail payload for one series/corner pair, episodes and
// stream URLs included.
func (c *Client) Series(ctx context.Context, siteID, cornerSiteID string) (Series, error) {
	url := fmt.Sprintf("%s/%s-%s.json", c.baseURL, siteID, cornerSiteID)
	var payload Series
	if err := c.fetchJSON(ctx, url, "fetch series detail", &payload); err != nil {
		return Series{}, err
	}
	return payload, nil
}

func (c *Client) fetchJSON(ctx context.Context, url, operation string, out any) error {
	status, body, err := c.http.GetBytes(ctx, url, nil)
	if err != nil {
		return services.Wrap(services.ErrStreamHTTP, "ondemand", operation, "", err)
	}
	if status < 200 || status >= 300 {
		return services.Wrap(services.ErrStreamHTTP, "ondemand", operation, fmt.Sprintf("status %d", status), nil)
	}
	if err := requireJSONObject(body); err != nil {
		return services.Wrap(services.ErrNormalization, "ondemand", operation, "top-level payload is not an object", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return services.Wrap(services.ErrNormalization, "ondemand", operation, "", err)
	}
	return nil
}
