package shift

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/platea/platea/internal/domain"
)

// EventPublisher fans shift lifecycle events out to live dashboards.
// *redis.PubSub satisfies this interface.
type EventPublisher interface {
	PublishShiftEvent(ctx context.Context, tenantID, resourceID uuid.UUID, payload []byte) error
}

// Event is the payload published on every accepted lifecycle command.
type Event struct {
	Action     string    `json:"action"` // "started", "paused", "resumed", "closed"
	TenantID   uuid.UUID `json:"tenant_id"`
	ResourceID uuid.UUID `json:"resource_id"`
	ShiftID    uuid.UUID `json:"shift_id"`
	State      string    `json:"state"`
	At         time.Time `json:"at"`
}

// Service orchestrates the lifecycle engine and the shift repository. It is
// safe for concurrent use: all shared state lives behind the repository,
// which serializes conflicting writes per (tenant, resource) with
// conditional writes. On a conflict the whole read-decide-write cycle is
// retried exactly once; domain rejections are never retried.
type Service struct {
	shifts    domain.ShiftRepository
	resources domain.ResourceRepository
	audit     domain.AuditRepository
	events    EventPublisher
	clock     Clock
}

// NewService creates a lifecycle service. audit and events may be nil
// (disabled); clock defaults to the system clock when nil.
func NewService(shifts domain.ShiftRepository, resources domain.ResourceRepository, audit domain.AuditRepository, events EventPublisher, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		shifts:    shifts,
		resources: resources,
		audit:     audit,
		events:    events,
		clock:     clock,
	}
}

// Start opens a new shift for the resource.
func (s *Service) Start(ctx context.Context, tenantID, resourceID, actorID uuid.UUID) (*domain.Shift, error) {
	if err := s.checkResource(ctx, tenantID, resourceID); err != nil {
		return nil, fmt.Errorf("shift.Start: %w", err)
	}

	created, err := s.transition(ctx, tenantID, resourceID, func(latest *domain.Shift, now time.Time) (*domain.Shift, error) {
		return Open(latest, tenantID, resourceID, actorID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("shift.Start: %w", err)
	}

	s.record(ctx, tenantID, actorID.String(), "shift.started", created)
	s.publish(ctx, "started", created)

	return created, nil
}

// Pause suspends the open shift with an optional reason.
func (s *Service) Pause(ctx context.Context, tenantID, resourceID, actorID uuid.UUID, reason string) (*domain.Shift, error) {
	updated, err := s.transition(ctx, tenantID, resourceID, func(latest *domain.Shift, now time.Time) (*domain.Shift, error) {
		return Pause(latest, reason, now)
	})
	if err != nil {
		return nil, fmt.Errorf("shift.Pause: %w", err)
	}

	s.record(ctx, tenantID, actorID.String(), "shift.paused", updated)
	s.publish(ctx, "paused", updated)

	return updated, nil
}

// Resume ends the active pause of the open shift.
func (s *Service) Resume(ctx context.Context, tenantID, resourceID, actorID uuid.UUID) (*domain.Shift, error) {
	updated, err := s.transition(ctx, tenantID, resourceID, Resume)
	if err != nil {
		return nil, fmt.Errorf("shift.Resume: %w", err)
	}

	s.record(ctx, tenantID, actorID.String(), "shift.resumed", updated)
	s.publish(ctx, "resumed", updated)

	return updated, nil
}

// Close closes the open shift.
func (s *Service) Close(ctx context.Context, tenantID, resourceID, actorID uuid.UUID) (*domain.Shift, error) {
	updated, err := s.transition(ctx, tenantID, resourceID, Close)
	if err != nil {
		return nil, fmt.Errorf("shift.Close: %w", err)
	}

	s.record(ctx, tenantID, actorID.String(), "shift.closed", updated)
	s.publish(ctx, "closed", updated)

	return updated, nil
}

// Current returns the open shift for the resource, or ErrNotFound when the
// latest shift is closed or no shift exists.
func (s *Service) Current(ctx context.Context, tenantID, resourceID uuid.UUID) (*domain.Shift, error) {
	latest, err := s.shifts.Latest(ctx, tenantID, resourceID)
	if err != nil {
		return nil, fmt.Errorf("shift.Current: %w", err)
	}
	if latest.State() == domain.ShiftStateNone {
		return nil, fmt.Errorf("shift.Current: no open shift: %w", domain.ErrNotFound)
	}

	return latest, nil
}

// History returns the resource's shifts newest-first plus the total count.
func (s *Service) History(ctx context.Context, tenantID, resourceID uuid.UUID, limit, offset int) ([]*domain.Shift, int64, error) {
	shifts, err := s.shifts.History(ctx, tenantID, resourceID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("shift.History: %w", err)
	}

	total, err := s.shifts.CountByResource(ctx, tenantID, resourceID)
	if err != nil {
		return nil, 0, fmt.Errorf("shift.History: %w", err)
	}

	return shifts, total, nil
}

// transition runs one read-decide-write cycle and retries it once when the
// conditional write loses a race. The second conflict is surfaced as-is.
func (s *Service) transition(ctx context.Context, tenantID, resourceID uuid.UUID, decide func(latest *domain.Shift, now time.Time) (*domain.Shift, error)) (*domain.Shift, error) {
	const attempts = 2

	var lastErr error
	for i := 0; i < attempts; i++ {
		latest, err := s.shifts.Latest(ctx, tenantID, resourceID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}

		next, err := decide(latest, s.clock.Now())
		if err != nil {
			return nil, err
		}

		if latest == nil || next.ID != latest.ID {
			err = s.shifts.CreateIfNoneOpen(ctx, next)
		} else {
			err = s.shifts.Replace(ctx, next)
		}
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}

		lastErr = err
		log.Debug().
			Str("tenant_id", tenantID.String()).
			Str("resource_id", resourceID.String()).
			Int("attempt", i+1).
			Msg("shift transition lost write race, re-reading")
	}

	return nil, lastErr
}

func (s *Service) checkResource(ctx context.Context, tenantID, resourceID uuid.UUID) error {
	if s.resources == nil {
		return nil
	}

	res, err := s.resources.GetByID(ctx, tenantID, resourceID)
	if err != nil {
		return err
	}
	if !res.Active {
		return fmt.Errorf("resource %s is deactivated: %w", resourceID, domain.ErrInvalidTransition)
	}

	return nil
}

// record writes an audit entry. Failures are logged, never surfaced; the
// shift log itself is the durable audit trail.
func (s *Service) record(ctx context.Context, tenantID uuid.UUID, actorID, action string, sh *domain.Shift) {
	if s.audit == nil {
		return
	}

	entry := &domain.AuditEntry{
		ID:         uuid.New(),
		TenantID:   tenantID,
		ActorType:  "user",
		ActorID:    actorID,
		Action:     action,
		Resource:   "shift",
		ResourceID: sh.ID,
		Details:    map[string]any{"resource_id": sh.ResourceID.String(), "state": string(sh.State())},
		CreatedAt:  s.clock.Now(),
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("shift: audit record failed")
	}
}

func (s *Service) publish(ctx context.Context, action string, sh *domain.Shift) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(Event{
		Action:     action,
		TenantID:   sh.TenantID,
		ResourceID: sh.ResourceID,
		ShiftID:    sh.ID,
		State:      string(sh.State()),
		At:         s.clock.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("shift: marshal event failed")
		return
	}

	if err := s.events.PublishShiftEvent(ctx, sh.TenantID, sh.ResourceID, payload); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("shift: publish event failed")
	}
}
