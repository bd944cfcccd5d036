// Package cooldown implements the process-wide stale-read flag from
// spec.md §4.8/§7, grounded on
// original_source/crates/domain_schedule_cooldown/src/lib.rs.
package cooldown

import (
	"sync"
	"time"

	"github.com/mpeix-go/schedule-backend/internal/metrics"
)

// Repository tracks whether the upstream cooldown window is active.
type Repository struct {
	mu            sync.Mutex
	duration      time.Duration
	lastErrorTime *time.Time
}

// New builds a Repository with the given cooldown duration (spec.md §6's
// SCHEDULE_COOLDOWN_DURATION_MIN, default 1 minute).
func New(duration time.Duration) *Repository {
	return &Repository{duration: duration}
}

// Activate starts (or restarts) the cooldown window from now.
func (r *Repository) Activate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastErrorTime = &now
	metrics.CooldownActive.Set(1)
}

// IsActive reports whether the cooldown window is still in effect.
func (r *Repository) IsActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastErrorTime == nil {
		return false
	}
	active := r.lastErrorTime.Add(r.duration).After(time.Now())
	if !active {
		metrics.CooldownActive.Set(0)
	}
	return active
}
