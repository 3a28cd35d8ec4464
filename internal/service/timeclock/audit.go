package timeclock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
)

// AuditRecorder writes audit events in the background. Failures are logged
// and never reach the caller.
type AuditRecorder struct {
	repo audit.Repository
	wg   sync.WaitGroup
}

func NewAuditRecorder(repo audit.Repository) *AuditRecorder {
	return &AuditRecorder{repo: repo}
}

// Record queues event for writing. The request context's cancellation does
// not apply to the write.
func (r *AuditRecorder) Record(ctx context.Context, event audit.Event) {
	if r == nil || r.repo == nil {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	detached := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.repo.Create(detached, event); err != nil {
			slog.Error("Failed to write audit event",
				"action", event.Action,
				"entity_id", event.EntityID,
				"actor_id", event.ActorID,
				"error", err,
			)
		}
	}()
}

// Wait blocks until every queued event has been written or has failed.
func (r *AuditRecorder) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
}

func (r *AuditRecorder) entryEvent(ctx context.Context, action audit.Action, actorID string, before, after timeclock.Entry, meta map[string]any) {
	var beforeStatus *string
	if before.ID != "" {
		s := string(timeclock.StateOf(before))
		beforeStatus = &s
	}
	afterStatus := string(timeclock.StateOf(after))

	r.Record(ctx, audit.Event{
		Action:     action,
		ActorID:    actorID,
		EntityType: "timeclock_entry",
		EntityID:   after.ID,
		Before:     beforeStatus,
		After:      &afterStatus,
		Metadata:   meta,
	})
}
