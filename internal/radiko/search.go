package radiko

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"aircheck/internal/program"
	"aircheck/internal/services"
	"aircheck/internal/timetext"
)

// TimeFilter narrows search results by broadcast time.
type TimeFilter string

const (
	FilterPast   TimeFilter = "past"
	FilterToday  TimeFilter = "today"
	FilterFuture TimeFilter = "future"
)

type searchRecord struct {
	Title       string `json:"title"`
	StationID   string `json:"station_id"`
	Performer   string `json:"performer"`
	Description string `json:"description"`
	Info        string `json:"info"`
	ImageURL    string `json:"img"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type searchResponse struct {
	Data []searchRecord `json:"data"`
}

// Search queries the program search endpoint by keyword and normalizes each
// match into a Program. The search API reports times as
// "YYYY-MM-DD HH:MM:SS"; they are canonicalized here.
func (c *Client) Search(ctx context.Context, keyword string, filter TimeFilter, areaID string) ([]program.Program, error) {
	query := url.Values{}
	query.Set("keyword", keyword)
	query.Set("time_filter", string(filter))
	query.Set("area_id", areaID)
	endpoint := c.baseURL + "/v3/api/program/search?" + query.Encode()

	status, body, err := c.http.GetBytes(ctx, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrStreamHTTP, "search", "query programs", "", err)
	}
	if status < 200 || status >= 300 {
		return nil, services.Wrap(services.ErrStreamHTTP, "search", "query programs", fmt.Sprintf("status %d", status), nil)
	}

	if err := requireJSONObject(body); err != nil {
		return nil, services.Wrap(services.ErrNormalization, "search", "decode response", "top-level payload is not an object", err)
	}
	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, services.Wrap(services.ErrNormalization, "search", "decode response", "", err)
	}

	ref := c.now()
	programs := make([]program.Program, 0, len(parsed.Data))
	for _, rec := range parsed.Data {
		programs = append(programs, program.Program{
			Title:       rec.Title,
			Station:     rec.StationID,
			Area:        areaID,
			Source:      program.SourceRadiko,
			StartTime:   timetext.CanonicalAt(rec.StartTime, timetext.ServiceRadiko, ref),
			EndTime:     timetext.CanonicalAt(rec.EndTime, timetext.ServiceRadiko, ref),
			Performer:   rec.Performer,
			Description: rec.Description,
			Info:        rec.Info,
			ImageURL:    rec.ImageURL,
		})
	}
	return programs, nil
}

// requireJSONObject rejects payloads whose top level is not a JSON object.
// Missing keys inside the object are tolerated; a list or scalar is not.
func requireJSONObject(body []byte) error {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("expected JSON object")
	}
	return nil
}
