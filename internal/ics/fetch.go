package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	appLog "eventsmd/internal/log"
)

// ErrFetchFailed matches any *FetchFailedError via errors.Is.
var ErrFetchFailed = errors.New("fetch failed")

// FetchFailedError is returned when the feed endpoint answers with anything
// other than 200 OK.
type FetchFailedError struct {
	StatusCode int
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("fetch failed: status code: %d", e.StatusCode)
}

func (e *FetchFailedError) Is(target error) bool {
	return target == ErrFetchFailed
}

// Fetcher downloads a single ICS feed.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher. A nil client means a plain http.Client
// with transport defaults: no overall timeout and up to 10 redirects
// followed. Callers bound the request through ctx.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{client: client}
}

// Fetch issues one GET against url and returns the body as text.
// Transport errors are returned as-is; a non-200 status yields
// *FetchFailedError. There is no retry and no caching.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	appLog.Info("ics fetch start", "url", redactURL(url))

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		appLog.Warn("ics fetch non-OK", "url", redactURL(url), "status", resp.StatusCode)
		return "", &FetchFailedError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	appLog.Info("ics fetch success", "url", redactURL(url), "status", resp.StatusCode, "bytes", len(body))
	return string(body), nil
}

// redactURL keeps only scheme and host so calendar IDs and tokens do not
// end up in logs.
//
//	https://example.com/calendar/ical/abc/public/basic.ics
//	-> https://example.com/...(redacted)
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := strings.Index(u, "://")
	if i == -1 {
		return "ics://...(redacted)"
	}
	rest := u[i+3:]
	if j := strings.IndexAny(rest, "/?#"); j != -1 {
		rest = rest[:j]
	}
	return u[:i+3] + rest + redactedSuffix
}
