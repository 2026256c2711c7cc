package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "eventsmd/internal/log"
)

// Job is one scheduled unit of work. Errors are logged and the schedule
// continues; there is no retry before the next tick.
type Job func(ctx context.Context) error

// cronLogger routes cron's own messages through appLog.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...interface{}) {
	appLog.Debug("cron: "+msg, kv...)
}

func (cronLogger) Error(err error, msg string, kv ...interface{}) {
	appLog.Error("cron: "+msg, err, kv...)
}

// Run executes job once immediately and then on every tick of the
// standard 5-field cron spec, evaluated in loc. Overlapping ticks are
// skipped. Run blocks until ctx is cancelled and waits for a running job
// to finish before returning.
func Run(ctx context.Context, spec string, loc *time.Location, job Job) error {
	if job == nil {
		return errors.New("schedule: job is nil")
	}
	if loc == nil {
		loc = time.Local
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
	)

	runJob := func() {
		start := time.Now()
		if err := job(ctx); err != nil {
			appLog.Error("scheduled run failed", err, "duration", time.Since(start))
			return
		}
		appLog.Debug("scheduled run finished", "duration", time.Since(start))
	}

	if _, err := c.AddFunc(spec, runJob); err != nil {
		return fmt.Errorf("schedule: invalid spec %q: %w", spec, err)
	}

	runJob()

	c.Start()
	appLog.Info("scheduler started", "spec", spec, "timezone", loc.String())

	<-ctx.Done()
	<-c.Stop().Done()
	appLog.Info("scheduler stopped")
	return nil
}
