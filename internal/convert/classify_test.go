package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eventsmd/internal/model"
)

var refNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time { return &t }

func event(summary string, start time.Time, end *time.Time) model.Event {
	return model.Event{Summary: summary, Start: start, End: end}
}

func summaries(events []model.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Summary)
	}
	return out
}

func TestNextMonth(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"MidMonth", time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC), time.Date(2024, 4, 5, 8, 30, 0, 0, time.UTC)},
		{"ClampLeap", time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)},
		{"ClampNonLeap", time.Date(2023, 1, 30, 0, 0, 0, 0, time.UTC), time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"Clamp30", time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)},
		{"YearRollover", time.Date(2024, 12, 15, 23, 59, 59, 0, time.UTC), time.Date(2025, 1, 15, 23, 59, 59, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextMonth(tt.in))
		})
	}
}

func TestClassifyBuckets(t *testing.T) {
	events := []model.Event{
		event("ongoing-no-end", refNow.Add(-48*time.Hour), nil),
		event("ongoing-with-end", refNow.Add(-24*time.Hour), at(refNow.Add(24*time.Hour))),
		event("ended", refNow.Add(-72*time.Hour), at(refNow.Add(-48*time.Hour))),
		event("soon", refNow.Add(72*time.Hour), nil),
		event("too-far", refNow.AddDate(0, 2, 0), nil),
		event("starts-now", refNow, at(refNow.Add(time.Hour))),
		event("ends-now", refNow.Add(-time.Hour), at(refNow)),
		event("at-next-month", NextMonth(refNow), nil),
	}

	agenda := Classify(events, refNow)

	assert.Equal(t, []string{"ongoing-no-end", "ongoing-with-end", "ends-now"}, summaries(agenda.Current))
	assert.Equal(t, []string{"soon", "starts-now"}, summaries(agenda.Future))
	assert.Equal(t, refNow, agenda.Now)
	assert.Equal(t, time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC), agenda.NextMonth)
}

func TestClassifyFutureCheckedFirst(t *testing.T) {
	// Starts exactly now: satisfies both predicates, must only be future.
	ev := event("both", refNow, nil)

	agenda := Classify([]model.Event{ev}, refNow)

	assert.Empty(t, agenda.Current)
	assert.Equal(t, []string{"both"}, summaries(agenda.Future))
}

func TestClassifyComparesInstantsAcrossZones(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2024-03-01 18:00 JST is 09:00 UTC, one hour before refNow.
	ev := event("tokyo", time.Date(2024, 3, 1, 18, 0, 0, 0, tokyo), nil)

	agenda := Classify([]model.Event{ev}, refNow)

	assert.Equal(t, []string{"tokyo"}, summaries(agenda.Current))
}

func TestClassifyEmpty(t *testing.T) {
	agenda := Classify(nil, refNow)

	assert.NotNil(t, agenda.Current)
	assert.NotNil(t, agenda.Future)
	assert.Empty(t, agenda.Current)
	assert.Empty(t, agenda.Future)
}
