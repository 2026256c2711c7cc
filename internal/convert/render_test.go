package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eventsmd/internal/model"
)

func TestFormatEvent(t *testing.T) {
	start := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "* [PyCon](https://pycon.org) 5 Mar\n",
		FormatEvent(start, nil, "PyCon", "https://pycon.org"))
	assert.Equal(t, "* [PyCon](https://pycon.org) 5 Mar - 12 Mar\n",
		FormatEvent(start, at(start.AddDate(0, 0, 7)), "PyCon", "https://pycon.org"))
}

func TestFormatEventEmptyLink(t *testing.T) {
	start := time.Date(2024, 11, 23, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "* [Sprint]() 23 Nov\n", FormatEvent(start, nil, "Sprint", ""))
}

func TestFormatEventUsesEventLocation(t *testing.T) {
	// 23:30 on the 4th in New York is already the 5th in UTC.
	ny := time.FixedZone("EST", -5*3600)
	start := time.Date(2024, 3, 4, 23, 30, 0, 0, ny)

	assert.Equal(t, "4 Mar", DateRange(start, nil))
}

func TestRenderEmpty(t *testing.T) {
	doc := Render(Classify(nil, refNow), DefaultHeader)

	want := "[Full Events Calendar](https://www.python.org/events/python-events)\n\n" +
		"### Current Events\n" +
		"\n### Future Events\n"
	assert.Equal(t, want, doc)
}

func TestRenderBuckets(t *testing.T) {
	agenda := model.Agenda{
		Current: []model.Event{
			{Summary: "EuroPython", Link: "https://ep.org", Start: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), End: at(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))},
		},
		Future: []model.Event{
			{Summary: "DjangoCon", Link: "", Start: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
			{Summary: "PyData", Link: "https://pydata.org", Start: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		},
	}

	doc := Render(agenda, Header{Title: "All events", URL: "https://example.org/events"})

	want := "[All events](https://example.org/events)\n\n" +
		"### Current Events\n" +
		"* [EuroPython](https://ep.org) 28 Feb - 3 Mar\n" +
		"\n### Future Events\n" +
		"* [DjangoCon]() 10 Mar\n" +
		"* [PyData](https://pydata.org) 5 Mar\n"
	assert.Equal(t, want, doc)
}

func TestRenderIsDeterministic(t *testing.T) {
	events := []model.Event{
		event("a", refNow.Add(-time.Hour), nil),
		event("b", refNow.Add(time.Hour), at(refNow.Add(2*time.Hour))),
	}

	first := Render(Classify(events, refNow), DefaultHeader)
	second := Render(Classify(events, refNow), DefaultHeader)

	assert.Equal(t, first, second)
}
