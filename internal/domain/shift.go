package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ShiftState is the derived lifecycle state of a resource. It is never
// stored; it is recomputed from ClosedAt and the last pause interval so the
// record can't drift out of sync with a cached flag.
type ShiftState string

const (
	ShiftStateNone   ShiftState = "none"
	ShiftStateOpen   ShiftState = "open"
	ShiftStatePaused ShiftState = "paused"
)

// PauseInterval is one interruption within a shift. End is nil while the
// pause is still active. Intervals are stored embedded in the shift record,
// in chronological order; they have no identity of their own.
type PauseInterval struct {
	Reason string     `json:"reason,omitempty"`
	Start  time.Time  `json:"start"`
	End    *time.Time `json:"end,omitempty"`
}

// Shift is one open-to-closed work period for an operational resource
// (kitchen queue, cashier till). Shifts are append-only history: they are
// created, mutated through lifecycle commands while open, and never deleted.
type Shift struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	ResourceID uuid.UUID
	OpenedBy   uuid.UUID
	StartedAt  time.Time
	ClosedAt   *time.Time // nil while the shift is open
	Pauses     []PauseInterval
	Version    int64 // optimistic-concurrency token, bumped on every Replace
	CreatedAt  time.Time
}

// State derives the lifecycle state from the raw record.
func (s *Shift) State() ShiftState {
	if s == nil || s.ClosedAt != nil {
		return ShiftStateNone
	}
	if n := len(s.Pauses); n > 0 && s.Pauses[n-1].End == nil {
		return ShiftStatePaused
	}
	return ShiftStateOpen
}

// ActivePause returns the pause interval with no end, if any.
func (s *Shift) ActivePause() *PauseInterval {
	if s == nil || len(s.Pauses) == 0 {
		return nil
	}
	last := &s.Pauses[len(s.Pauses)-1]
	if last.End == nil {
		return last
	}
	return nil
}

// effectiveEnd is the instant duration accounting runs up to: ClosedAt for a
// closed shift, the caller's asOf otherwise.
func (s *Shift) effectiveEnd(asOf time.Time) time.Time {
	if s.ClosedAt != nil {
		return *s.ClosedAt
	}
	return asOf
}

// PausedDuration sums all pause intervals as of the given instant. An
// interval without an end runs to the effective end of the shift.
func (s *Shift) PausedDuration(asOf time.Time) time.Duration {
	end := s.effectiveEnd(asOf)

	var total time.Duration
	for _, p := range s.Pauses {
		pauseEnd := end
		if p.End != nil {
			pauseEnd = *p.End
		}
		total += pauseEnd.Sub(p.Start)
	}

	return total
}

// ActiveDuration is total shift duration minus paused duration as of the
// given instant. A negative result means the stored intervals are impossible
// (corrupted or hand-edited records); it is reported via ErrDataIntegrity,
// never clamped.
func (s *Shift) ActiveDuration(asOf time.Time) (time.Duration, error) {
	active := s.effectiveEnd(asOf).Sub(s.StartedAt) - s.PausedDuration(asOf)
	if active < 0 {
		return 0, fmt.Errorf("shift %s: active duration %s is negative: %w", s.ID, active, ErrDataIntegrity)
	}

	return active, nil
}

// Clone returns a deep copy so lifecycle logic can mutate a value snapshot
// without touching the record the caller read.
func (s *Shift) Clone() *Shift {
	if s == nil {
		return nil
	}

	c := *s
	if s.ClosedAt != nil {
		closed := *s.ClosedAt
		c.ClosedAt = &closed
	}
	c.Pauses = make([]PauseInterval, len(s.Pauses))
	for i, p := range s.Pauses {
		c.Pauses[i] = p
		if p.End != nil {
			end := *p.End
			c.Pauses[i].End = &end
		}
	}

	return &c
}

// ShiftRepository owns durable shift state. Writes are serialized per
// (tenantID, resourceID): CreateIfNoneOpen and Replace are conditional writes
// that return ErrConflict instead of overwriting concurrent changes.
type ShiftRepository interface {
	// Latest returns the most recent shift for the resource (started_at
	// descending, id as tie-break) or ErrNotFound when no shift exists.
	Latest(ctx context.Context, tenantID, resourceID uuid.UUID) (*Shift, error)
	// CreateIfNoneOpen atomically inserts the shift iff no open shift exists
	// for the same (tenantID, resourceID). Returns ErrConflict otherwise.
	CreateIfNoneOpen(ctx context.Context, s *Shift) error
	// Replace persists a mutated shift iff the stored version still matches
	// s.Version, then increments it. Returns ErrConflict on a stale version.
	Replace(ctx context.Context, s *Shift) error
	// History lists shifts newest-first.
	History(ctx context.Context, tenantID, resourceID uuid.UUID, limit, offset int) ([]*Shift, error)
	CountByResource(ctx context.Context, tenantID, resourceID uuid.UUID) (int64, error)
}
