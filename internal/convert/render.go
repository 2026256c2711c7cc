package convert

import (
	"strings"
	"time"

	"eventsmd/internal/model"
)

// DateLayout renders day of month without padding and a short month, e.g. "5 Mar".
const DateLayout = "2 Jan"

// Header is the link placed at the top of the document.
type Header struct {
	Title string
	URL   string
}

// DefaultHeader points at the canonical events page.
var DefaultHeader = Header{
	Title: "Full Events Calendar",
	URL:   "https://www.python.org/events/python-events",
}

// FormatEvent renders one bullet, newline terminated:
//
//	* [summary](link) 5 Mar
//	* [summary](link) 5 Mar - 7 Mar
//
// Dates are formatted in the location carried by start and end.
func FormatEvent(start time.Time, end *time.Time, summary, link string) string {
	return "* [" + summary + "](" + link + ") " + DateRange(start, end) + "\n"
}

// DateRange renders "5 Mar" or "5 Mar - 7 Mar" when an end is present.
func DateRange(start time.Time, end *time.Time) string {
	if end == nil {
		return start.Format(DateLayout)
	}
	return start.Format(DateLayout) + " - " + end.Format(DateLayout)
}

// Render builds the markdown document for an agenda. Empty buckets keep
// their heading.
func Render(agenda model.Agenda, header Header) string {
	var b strings.Builder
	b.WriteString("[" + header.Title + "](" + header.URL + ")\n\n")
	b.WriteString("### Current Events\n")
	writeBullets(&b, agenda.Current)
	b.WriteString("\n### Future Events\n")
	writeBullets(&b, agenda.Future)
	return b.String()
}

func writeBullets(b *strings.Builder, events []model.Event) {
	for _, ev := range events {
		b.WriteString(FormatEvent(ev.Start, ev.End, ev.Summary, ev.Link))
	}
}
