// Package convert turns an ICS feed into the markdown events page.
package convert

import (
	"time"

	"eventsmd/internal/ics"
	"eventsmd/internal/model"
)

// ICSToAgenda parses body and classifies its events against now.
func ICSToAgenda(body string, now time.Time) (model.Agenda, error) {
	events, err := ics.ParseEvents(body)
	if err != nil {
		return model.Agenda{}, err
	}
	return Classify(events, now), nil
}

// ICSToMarkdown parses, classifies and renders in one step. No partial
// document is returned on error.
func ICSToMarkdown(body string, now time.Time, header Header) (string, error) {
	agenda, err := ICSToAgenda(body, now)
	if err != nil {
		return "", err
	}
	return Render(agenda, header), nil
}
