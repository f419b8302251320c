package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const sweepTimeout = 10 * time.Minute

// Sweeper dipenuhi oleh *service.Generator.
type Sweeper interface {
	SweepOverdue(ctx context.Context, now time.Time) (int, error)
}

// ── ENTRYPOINT: panggil dari main.go setelah DB siap.
// Return cron yang sudah jalan; caller wajib Stop() saat shutdown.
func StartOverdueReminderCron(sw Sweeper, schedule string, log logrus.FieldLogger) (*cron.Cron, error) {
	log = log.WithField("component", "overdue_reminder")

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))),
	)
	if _, err := c.AddFunc(schedule, func() { RunOnce(sw, log) }); err != nil {
		return nil, fmt.Errorf("invalid overdue reminder schedule %q: %w", schedule, err)
	}
	c.Start()
	log.WithField("schedule", schedule).Info("overdue reminder scheduled")
	return c, nil
}

// RunOnce: satu putaran sweep, dibatasi sweepTimeout.
func RunOnce(sw Sweeper, log logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	n, err := sw.SweepOverdue(ctx, time.Now().UTC())
	entry := log.WithFields(logrus.Fields{"notified": n, "elapsed": time.Since(start).String()})
	if err != nil {
		entry.WithError(err).Error("overdue sweep failed")
		return
	}
	entry.Info("overdue sweep done")
}
