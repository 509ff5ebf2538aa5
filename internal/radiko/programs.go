package radiko

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"

	"aircheck/internal/program"
	"aircheck/internal/services"
)

// Station is one id/name pair from the per-area station list.
type Station struct {
	ID   string `xml:"id"`
	Name string `xml:"name"`
}

type stationListXML struct {
	Stations []Station `xml:"station"`
}

type scheduleXML struct {
	Stations []struct {
		ID    string     `xml:"id,attr"`
		Progs []progElem `xml:"progs>prog"`
	} `xml:"stations>station"`
}

// progElem is one raw program element. Every child element is optional; only
// the attributes are guaranteed by upstream.
type progElem struct {
	FT    string `xml:"ft,attr"`
	To    string `xml:"to,attr"`
	Dur   string `xml:"dur,attr"`
	Title string `xml:"title"`
	Pfm   string `xml:"pfm"`
	Desc  string `xml:"desc"`
	Info  string `xml:"info"`
	Img   string `xml:"img"`
	URL   string `xml:"url"`
}

// StationList fetches the id/name pairs available in the given area.
func (c *Client) StationList(ctx context.Context, areaID string) ([]Station, error) {
	url := fmt.Sprintf("%s/v3/station/list/%s.xml", c.baseURL, areaID)
	status, body, err := c.http.GetBytes(ctx, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrStreamHTTP, "stations", "fetch station list", "", err)
	}
	if status < 200 || status >= 300 {
		return nil, services.Wrap(services.ErrStreamHTTP, "stations", "fetch station list", fmt.Sprintf("status %d", status), nil)
	}
	var list stationListXML
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, services.Wrap(services.ErrNormalization, "stations", "decode station list", "", err)
	}
	return list.Stations, nil
}

// IsStationAvailable reports whether station appears in the area's listing.
func (c *Client) IsStationAvailable(ctx context.Context, station, areaID string) (bool, error) {
	stations, err := c.StationList(ctx, areaID)
	if err != nil {
		return false, err
	}
	for _, s := range stations {
		if s.ID == station {
			return true, nil
		}
	}
	return false, nil
}

// ProgramsByDate returns the station's schedule for one day. date is the
// 8-digit YYYYMMDD form.
func (c *Client) ProgramsByDate(ctx context.Context, station, date, areaID string) ([]program.Program, error) {
	url := fmt.Sprintf("%s/v3/program/station/date/%s/%s.xml", c.baseURL, date, station)
	status, body, err := c.http.GetBytes(ctx, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrStreamHTTP, "programs", "fetch schedule", "", err)
	}
	if status < 200 || status >= 300 {
		return nil, services.Wrap(services.ErrStreamHTTP, "programs", "fetch schedule", fmt.Sprintf("status %d", status), nil)
	}

	var schedule scheduleXML
	if err := xml.Unmarshal(body, &schedule); err != nil {
		return nil, services.Wrap(services.ErrNormalization, "programs", "decode schedule", "", err)
	}

	var programs []program.Program
	for _, s := range schedule.Stations {
		if s.ID != station {
			continue
		}
		for _, elem := range s.Progs {
			programs = append(programs, fromProgElement(elem, station, areaID))
		}
	}
	return programs, nil
}

// ProgramAt finds the program whose window contains the given canonical
// timestamp. Missing program metadata is a soft condition upstream, so the
// not-found case is a tagged ErrNotFound the caller may downgrade to a warning.
func (c *Client) ProgramAt(ctx context.Context, station, at, areaID string) (program.Program, error) {
	if len(at) < 8 {
		return program.Program{}, services.Wrap(services.ErrValidation, "programs", "lookup", fmt.Sprintf("timestamp %q too short", at), nil)
	}
	programs, err := c.ProgramsByDate(ctx, station, at[:8], areaID)
	if err != nil {
		return program.Program{}, err
	}
	for _, p := range programs {
		if p.StartTime <= at && at < p.EndTime {
			return p, nil
		}
	}
	return program.Program{}, services.Wrap(services.ErrNotFound, "programs", "lookup", fmt.Sprintf("no program on %s at %s", station, at), nil)
}

// NowProgram returns the program currently on air for the station.
func (c *Client) NowProgram(ctx context.Context, station, areaID string) (program.Program, error) {
	return c.ProgramAt(ctx, station, c.now().Format("20060102150405"), areaID)
}

// fromProgElement maps one raw XML program element to the unified entity.
// Missing child elements yield empty fields, never an error; start/end arrive
// already canonical in the ft/to attributes.
func fromProgElement(elem progElem, station, areaID string) program.Program {
	durSeconds, _ := strconv.Atoi(elem.Dur)
	return program.Program{
		Title:       elem.Title,
		Station:     station,
		Area:        areaID,
		Source:      program.SourceRadiko,
		StartTime:   elem.FT,
		EndTime:     elem.To,
		Duration:    durSeconds / 60,
		Performer:   elem.Pfm,
		Description: elem.Desc,
		Info:        elem.Info,
		ImageURL:    elem.Img,
		PageURL:     elem.URL,
	}
}
