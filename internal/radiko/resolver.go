package radiko

import (
	"context"
	"fmt"
	"strings"

	"aircheck/internal/logging"
	"aircheck/internal/services"
)

// StreamReference is the resolved (URL, header) pair a capture needs. It is
// owned by the call that requested it and must not be cached: the backing
// token is time-limited.
type StreamReference struct {
	URL     string
	Headers map[string]string
}

// subPlaylistMarker is the substring that identifies a resolvable sub-playlist
// line inside the live master playlist. Upstream does not document this
// format; treat it as a heuristic guarded by the resolver tests.
const subPlaylistMarker = "chunklist"

// ResolveLive fetches the station's master playlist with the session token and
// extracts the first resolvable sub-playlist line.
func (c *Client) ResolveLive(ctx context.Context, station string, session Session) (StreamReference, error) {
	playlistURL := fmt.Sprintf("%s/%s/_definst_/simul-stream.stream/playlist.m3u8", c.streamBaseURL, station)
	headers := map[string]string{authTokenHeader: session.Token}

	status, body, err := c.http.GetText(ctx, playlistURL, headers)
	if err != nil {
		return StreamReference{}, services.Wrap(services.ErrStreamHTTP, "resolve", "fetch live playlist", "", err)
	}
	if status < 200 || status >= 300 {
		return StreamReference{}, services.Wrap(services.ErrStreamHTTP, "resolve", "fetch live playlist", fmt.Sprintf("status %d", status), nil)
	}

	resolved, ok := extractSubPlaylist(body, playlistURL)
	if !ok {
		return StreamReference{}, services.Wrap(services.ErrStreamFormat, "resolve", "scan live playlist", "no sub-playlist line found", nil)
	}

	c.logger.Debug("resolved live stream", logging.Args(logging.String("station", station))...)
	return StreamReference{URL: resolved, Headers: headers}, nil
}

// ResolveTimefree builds the deterministic time-windowed playback URL. No
// fetch happens here; the URL is playable as soon as it is accompanied by the
// session token header.
func (c *Client) ResolveTimefree(station, ft, to string, session Session) StreamReference {
	url := fmt.Sprintf("%s/v2/api/ts/playlist.m3u8?station_id=%s&l=15&ft=%s&to=%s", c.baseURL, station, ft, to)
	return StreamReference{
		URL:     url,
		Headers: map[string]string{authTokenHeader: session.Token},
	}
}

// extractSubPlaylist scans playlist lines for the first non-comment line
// carrying the sub-playlist marker. Relative lines resolve against the
// directory component of the playlist URL.
func extractSubPlaylist(body, playlistURL string) (string, bool) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, subPlaylistMarker) {
			continue
		}
		if strings.HasPrefix(line, "http") {
			return line, true
		}
		base := playlistURL
		if idx := strings.LastIndex(base, "/"); idx >= 0 {
			base = base[:idx]
		}
		return base + "/" + line, true
	}
	return "", false
}
