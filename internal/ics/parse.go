package ics

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "eventsmd/internal/log"
	"eventsmd/internal/model"
)

// ErrMissingStart is wrapped by ParseEvents when a VEVENT has no usable DTSTART.
var ErrMissingStart = errors.New("missing DTSTART")

var linkPattern = regexp.MustCompile(`https?://[^\s">]+`)

// ParseEvents parses an ICS payload and returns its VEVENTs in document
// order. Other component types are ignored. Unlike a best-effort reader,
// any VEVENT without a parseable DTSTART fails the whole payload.
func ParseEvents(body string) ([]model.Event, error) {
	cal, err := ical.ParseCalendar(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	vevents := cal.Events()
	events := make([]model.Event, 0, len(vevents))
	for i, ve := range vevents {
		ev, err := parseVEvent(ve)
		if err != nil {
			return nil, fmt.Errorf("vevent #%d (uid %q): %w", i, ev.UID, err)
		}
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (model.Event, error) {
	var out model.Event

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	out.Link = ExtractLink(out.Description)

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || strings.TrimSpace(dtStart.Value) == "" {
		return out, ErrMissingStart
	}
	start, err := parseTimeProp(dtStart)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrMissingStart, err)
	}
	out.Start = start

	if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil && strings.TrimSpace(dtEnd.Value) != "" {
		end, err := parseTimeProp(dtEnd)
		if err != nil {
			return out, fmt.Errorf("DTEND: %w", err)
		}
		out.End = &end
	}

	return out, nil
}

// ExtractLink returns the first http(s) URL in description, or "".
// First match wins; the URL is not validated.
func ExtractLink(description string) string {
	if description == "" {
		return ""
	}
	return linkPattern.FindString(description)
}

// parseTimeProp turns a DTSTART/DTEND property into an instant.
//
//   - TZID parameter: wall time in that zone, or UTC when the ID is not
//     an IANA name (e.g. Outlook's "Eastern Standard Time")
//   - trailing Z: UTC
//   - date only (VALUE=DATE): midnight UTC
//   - floating date-time: UTC
func parseTimeProp(p *ical.IANAProperty) (time.Time, error) {
	v := strings.TrimSpace(p.Value)

	loc := time.UTC
	if tzs, ok := p.ICalParameters[string(ical.ParameterTzid)]; ok && len(tzs) > 0 && tzs[0] != "" {
		if l, err := time.LoadLocation(strings.Trim(tzs[0], `"`)); err == nil {
			loc = l
		} else {
			appLog.Warn("ics unknown TZID; reading wall time as UTC", "tzid", tzs[0])
		}
	}

	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, time.UTC)
	}
}
