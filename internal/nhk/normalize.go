package nhk

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"aircheck/internal/program"
	"aircheck/internal/timetext"
)

// defaultStation is used when a payload carries no broadcast channel.
const defaultStation = "NHK"

// Programs merges a series payload with each of its episodes into the unified
// entity. The merged title is the series title, episode title, and optional
// subtitle joined with spaces; the start time is canonicalized from the
// Japanese broadcast fragment. Episodes carry no end timestamp, so the end
// mirrors the start and the caller supplies the capture duration.
func Programs(series Series, ref time.Time) []program.Program {
	station := series.RadioBroadcast
	if station == "" {
		station = defaultStation
	}

	programs := make([]program.Program, 0, len(series.Episodes))
	for _, ep := range series.Episodes {
		start := timetext.CanonicalAt(ep.OnairDate, timetext.ServiceNHK, ref)
		programs = append(programs, program.Program{
			Title:       mergedTitle(series.Title, ep.ProgramTitle, ep.ProgramSubTitle),
			Station:     station,
			Source:      program.SourceNHK,
			StartTime:   start,
			EndTime:     start,
			Subtitle:    ep.ProgramSubTitle,
			ImageURL:    series.ThumbnailURL,
			StreamURL:   ep.StreamURL,
			OnairDate:   ep.OnairDate,
			ClosedAt:    ep.ClosedAt,
			Description: series.Schedule,
		})
	}
	return programs
}

// FromCorner maps one listing entry to a browse-only Program. Listings carry
// no stream, so the result is never recordable; the series/corner ids let the
// caller requery the full detail payload.
func FromCorner(corner Corner, ref time.Time) program.Program {
	station := corner.RadioBroadcast
	if station == "" {
		station = defaultStation
	}
	return program.Program{
		Title:        corner.Title,
		Station:      station,
		Source:       program.SourceNHK,
		StartTime:    timetext.CanonicalAt(corner.OnairDate, timetext.ServiceNHK, ref),
		ImageURL:     corner.ThumbnailURL,
		OnairDate:    corner.OnairDate,
		SeriesSiteID: corner.SeriesSiteID,
		CornerSiteID: corner.CornerSiteID,
	}
}

func mergedTitle(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
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
