package convert

import (
	"time"

	"eventsmd/internal/model"
)

// NextMonth shifts t forward by one calendar month. The day of month is
// clamped to the last day of the target month, so Jan 31 becomes Feb 28
// (or 29) rather than rolling into March as time.AddDate would.
func NextMonth(t time.Time) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+1, 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(firstOfTarget); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}

// Classify buckets events relative to now, preserving input order.
//
// The future test runs first: now <= start < next month. Only events that
// fail it are tested as current: start <= now and (no end or now <= end).
// Everything else is dropped.
func Classify(events []model.Event, now time.Time) model.Agenda {
	agenda := model.Agenda{
		Now:       now,
		NextMonth: NextMonth(now),
		Current:   []model.Event{},
		Future:    []model.Event{},
	}

	for _, ev := range events {
		switch {
		case isFuture(ev, now, agenda.NextMonth):
			agenda.Future = append(agenda.Future, ev)
		case isCurrent(ev, now):
			agenda.Current = append(agenda.Current, ev)
		}
	}
	return agenda
}

func isFuture(ev model.Event, now, nextMonth time.Time) bool {
	return !ev.Start.Before(now) && ev.Start.Before(nextMonth)
}

func isCurrent(ev model.Event, now time.Time) bool {
	if ev.Start.After(now) {
		return false
	}
	return ev.End == nil || !now.After(*ev.End)
}
