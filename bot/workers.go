package bot

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// startWorkers launches the background sweeps: expiring overdue
// suggestions, ending due giveaways and purging stale configuration
// sessions. All three stop when ctx is cancelled.
func (b *Bot) startWorkers(ctx context.Context) {
	go b.runSweep(ctx, "suggestion expiry", func(now time.Time) {
		if _, err := b.suggestionService.SweepExpired(ctx, now); err != nil {
			log.WithError(err).Error("Suggestion expiry sweep failed")
		}
	})

	go b.runSweep(ctx, "giveaway end", func(now time.Time) {
		if _, err := b.giveawayService.EndDue(ctx, now); err != nil {
			log.WithError(err).Error("Giveaway end sweep failed")
		}
	})

	go b.runSweep(ctx, "session purge", func(time.Time) {
		if purged := b.sessions.PurgeExpired(); purged > 0 {
			log.WithField("count", purged).Debug("Purged expired sessions")
		}
	})
}

func (b *Bot) runSweep(ctx context.Context, name string, sweep func(now time.Time)) {
	ticker := time.NewTicker(b.config.SweepInterval)
	defer ticker.Stop()

	log.WithField("sweep", name).Debug("Background sweep started")
	for {
		select {
		case <-ctx.Done():
			log.WithField("sweep", name).Debug("Background sweep stopped")
			return
		case now := <-ticker.C:
			sweep(now)
		}
	}
}
