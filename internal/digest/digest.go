// Package digest logs the day's agenda on a cron schedule while the
// server is running.
package digest

import (
	"time"

	"github.com/robfig/cron/v3"

	appLog "github.com/ASLaskin/CalenAI/internal/log"
	"github.com/ASLaskin/CalenAI/internal/store"
)

// Scheduler runs the agenda digest job.
type Scheduler struct {
	cron *cron.Cron
}

// Start schedules a digest of today's events at the given cron spec.
// An empty spec disables the digest and returns a nil Scheduler, which
// Stop tolerates.
func Start(spec string, st *store.Store) (*Scheduler, error) {
	if spec == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		today := time.Now().Format("2006-01-02")
		events := st.EventsForDay(today)
		appLog.Info("agenda digest", "date", today, "event_count", len(events))
		for _, ev := range events {
			appLog.Info("agenda entry",
				"start", ev.StartTime,
				"end", ev.EndTime,
				"title", ev.Title,
			)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	appLog.Info("agenda digest scheduled", "spec", spec)
	return &Scheduler{cron: c}, nil
}

// Stop halts the schedule, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	if s == nil || s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
