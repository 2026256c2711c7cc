package pipeline

import (
	"context"
	"fmt"
	"time"

	"eventsmd/internal/convert"
	appLog "eventsmd/internal/log"
	"eventsmd/internal/model"
	"eventsmd/internal/output"
)

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock, optionally in a fixed location.
type RealClock struct {
	Location *time.Location
}

func (c RealClock) Now() time.Time {
	if c.Location != nil {
		return time.Now().In(c.Location)
	}
	return time.Now()
}

// Fetcher is satisfied by *ics.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// WriteFunc persists the rendered document. output.WriteFile by default.
type WriteFunc func(path, content string) error

// Runner performs one fetch, convert and write cycle.
type Runner struct {
	Fetcher    Fetcher
	Clock      Clock
	Write      WriteFunc
	FeedURL    string
	OutputPath string
	Header     convert.Header
}

// Result describes a completed run.
type Result struct {
	Agenda   model.Agenda
	Markdown string
	Path     string
}

// Run executes the steps strictly in order. Any failure aborts the run
// before the write step, so no file is touched unless a complete
// document was produced.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Fetcher == nil {
		return Result{}, fmt.Errorf("pipeline: fetcher is nil")
	}
	clock := r.Clock
	if clock == nil {
		clock = RealClock{}
	}
	write := r.Write
	if write == nil {
		write = output.WriteFile
	}

	body, err := r.Fetcher.Fetch(ctx, r.FeedURL)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	agenda, err := convert.ICSToAgenda(body, clock.Now())
	if err != nil {
		return Result{}, err
	}
	doc := convert.Render(agenda, r.Header)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := write(r.OutputPath, doc); err != nil {
		return Result{}, err
	}

	appLog.Info("events written",
		"path", r.OutputPath,
		"current", len(agenda.Current),
		"future", len(agenda.Future),
	)
	return Result{Agenda: agenda, Markdown: doc, Path: r.OutputPath}, nil
}
