// Package shift implements the work-shift lifecycle for operational
// resources: open, pause, resume, close, with non-overlapping pause
// intervals and duration accounting.
//
// The transition logic is a pure function over (latest shift, command, now).
// It never touches storage and never mutates the snapshot it is handed, so
// no locking is needed around it; all contention is resolved at the
// repository boundary via conditional writes.
package shift

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/platea/platea/internal/domain"
)

// Rejection reasons surfaced to callers on guard failures.
const (
	ReasonPreviousNotClosed  = "previous instance is not closed yet"
	ReasonAlreadyPaused      = "instance is already paused"
	ReasonNothingToResume    = "nothing to resume"
	ReasonNothingOpenToClose = "no instance open to close"
)

// Open creates a new shift iff the resource has no open shift. latest is the
// most recent shift for the resource, or nil when no shift exists yet.
func Open(latest *domain.Shift, tenantID, resourceID, actorID uuid.UUID, now time.Time) (*domain.Shift, error) {
	if latest.State() != domain.ShiftStateNone {
		return nil, fmt.Errorf("shift: %s: %w", ReasonPreviousNotClosed, domain.ErrInvalidTransition)
	}

	return &domain.Shift{
		ID:         uuid.New(),
		TenantID:   tenantID,
		ResourceID: resourceID,
		OpenedBy:   actorID,
		StartedAt:  now,
		CreatedAt:  now,
	}, nil
}

// Pause appends an active pause interval to an open shift. Returns an
// updated copy; the snapshot passed in is left untouched.
func Pause(latest *domain.Shift, reason string, now time.Time) (*domain.Shift, error) {
	switch latest.State() {
	case domain.ShiftStateNone:
		return nil, fmt.Errorf("shift: no open instance: %w", domain.ErrNotFound)
	case domain.ShiftStatePaused:
		return nil, fmt.Errorf("shift: %s: %w", ReasonAlreadyPaused, domain.ErrInvalidTransition)
	}

	next := latest.Clone()
	next.Pauses = append(next.Pauses, domain.PauseInterval{
		Reason: reason,
		Start:  now,
	})

	return next, nil
}

// Resume ends the active pause interval of a paused shift.
func Resume(latest *domain.Shift, now time.Time) (*domain.Shift, error) {
	switch latest.State() {
	case domain.ShiftStateNone:
		return nil, fmt.Errorf("shift: no open instance: %w", domain.ErrNotFound)
	case domain.ShiftStateOpen:
		return nil, fmt.Errorf("shift: %s: %w", ReasonNothingToResume, domain.ErrInvalidTransition)
	}

	next := latest.Clone()
	end := now
	next.Pauses[len(next.Pauses)-1].End = &end

	return next, nil
}

// Close closes an open or paused shift. A pause that is still active keeps a
// nil end; duration accounting runs it up to ClosedAt.
func Close(latest *domain.Shift, now time.Time) (*domain.Shift, error) {
	if latest == nil {
		return nil, fmt.Errorf("shift: no instance: %w", domain.ErrNotFound)
	}
	if latest.State() == domain.ShiftStateNone {
		return nil, fmt.Errorf("shift: %s: %w", ReasonNothingOpenToClose, domain.ErrInvalidTransition)
	}

	next := latest.Clone()
	closed := now
	next.ClosedAt = &closed

	return next, nil
}
