package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/foodgram/foodgram-server/internal/logger"
	"github.com/foodgram/foodgram-server/internal/service"
)

// sessionCleanupInterval is how often expired sessions are purged.
const sessionCleanupInterval = time.Hour

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessions := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	job := &SessionCleanupJob{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(job.done)

		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()

		cleanup := func() {
			count, err := sessions.CleanupExpiredSessions(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn("session cleanup failed", "error", err)
				}
				return
			}
			if count > 0 {
				log.Info("session cleanup completed", "deleted", count)
			}
		}

		cleanup()
		for {
			select {
			case <-ticker.C:
				cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("session cleanup job started", "interval", sessionCleanupInterval)

	return job, nil
}
