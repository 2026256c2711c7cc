package model

import "time"

// Event is a single VEVENT as needed for the markdown agenda.
type Event struct {
	UID string

	Summary     string
	Description string

	// Link is the first http(s) URL found in Description, or "".
	Link string

	// Start is always set. End is nil when the VEVENT has no DTEND.
	Start time.Time
	End   *time.Time
}

// HasEnd reports whether the event carries an end instant.
func (e Event) HasEnd() bool {
	return e.End != nil
}

// Agenda holds events bucketed relative to a reference instant, each
// bucket in feed order.
type Agenda struct {
	// Now is the reference instant used for classification.
	Now time.Time
	// NextMonth is Now shifted forward by one calendar month.
	NextMonth time.Time

	Current []Event
	Future  []Event
}
