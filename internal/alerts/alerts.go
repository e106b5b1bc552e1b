// Package alerts emails subscribers a digest of recently posted jobs on a
// cron schedule.
package alerts

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/silvertalent/backend/internal/mailer"
	"github.com/silvertalent/backend/pkg/repository"
)

const digestWindow = 24 * time.Hour

type Digest struct {
	jobRepo  repository.JobRepo
	subRepo  repository.SubscriptionRepo
	notifier mailer.Notifier
	logger   *slog.Logger
	cron     *cron.Cron
}

func NewDigest(jr repository.JobRepo, sr repository.SubscriptionRepo, n mailer.Notifier, logger *slog.Logger) *Digest {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Digest{jobRepo: jr, subRepo: sr, notifier: n, logger: logger}
}

// Start schedules the digest. It refuses to run when the notifier cannot
// send; callers should check Ready first but this guards against misuse.
func (d *Digest) Start(schedule string) error {
	if !d.notifier.Ready() {
		d.logger.Warn("job alert digest disabled, email not configured")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		d.Run(ctx)
	}); err != nil {
		return err
	}
	c.Start()
	d.cron = c
	d.logger.Info("job alert digest scheduled", "schedule", schedule)
	return nil
}

func (d *Digest) Stop() {
	if d.cron != nil {
		d.cron.Stop()
	}
}

// Run sends one digest pass. Per-recipient failures are logged and skipped so
// one bad address never blocks the rest.
func (d *Digest) Run(ctx context.Context) {
	since := time.Now().Add(-digestWindow).UTC().UnixMilli()
	jobs, err := d.jobRepo.ListJobsPostedSince(ctx, since)
	if err != nil {
		d.logger.Error("digest: list recent jobs", "err", err)
		return
	}
	if len(jobs) == 0 {
		d.logger.Info("digest: no new jobs, skipping")
		return
	}

	subs, err := d.subRepo.ListSubscriptions(ctx)
	if err != nil {
		d.logger.Error("digest: list subscriptions", "err", err)
		return
	}

	sent := 0
	for _, s := range subs {
		if err := d.notifier.Send(ctx, mailer.JobAlertDigest(s.Email, jobs)); err != nil {
			d.logger.Warn("digest: send failed", "to", s.Email, "err", err)
			continue
		}
		sent++
	}
	d.logger.Info("digest: pass complete", "jobs", len(jobs), "recipients", len(subs), "sent", sent)
}
