package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/platea/platea/internal/domain"
	"github.com/platea/platea/internal/server/middleware"
)

// ShiftView is the API representation of a shift: the raw record plus the
// derived state and duration accounting as of the time of the request.
type ShiftView struct {
	ID            uuid.UUID              `json:"id"`
	ResourceID    uuid.UUID              `json:"resource_id"`
	OpenedBy      uuid.UUID              `json:"opened_by"`
	State         string                 `json:"state"`
	StartedAt     time.Time              `json:"started_at"`
	ClosedAt      *time.Time             `json:"closed_at,omitempty"`
	Pauses        []domain.PauseInterval `json:"pauses"`
	ActiveSeconds float64                `json:"active_seconds"`
	PausedSeconds float64                `json:"paused_seconds"`
	Version       int64                  `json:"version"`
}

// newShiftView computes the derived fields. A negative active duration means
// the stored record is corrupt and is surfaced as a 500.
func newShiftView(s *domain.Shift, asOf time.Time) (*ShiftView, error) {
	active, err := s.ActiveDuration(asOf)
	if err != nil {
		return nil, err
	}

	pauses := s.Pauses
	if pauses == nil {
		pauses = []domain.PauseInterval{}
	}

	return &ShiftView{
		ID:            s.ID,
		ResourceID:    s.ResourceID,
		OpenedBy:      s.OpenedBy,
		State:         string(s.State()),
		StartedAt:     s.StartedAt,
		ClosedAt:      s.ClosedAt,
		Pauses:        pauses,
		ActiveSeconds: active.Seconds(),
		PausedSeconds: s.PausedDuration(asOf).Seconds(),
		Version:       s.Version,
	}, nil
}

type StartShiftInput struct {
	ID uuid.UUID `path:"id" doc:"Resource ID"`
}

type PauseShiftInput struct {
	ID   uuid.UUID `path:"id" doc:"Resource ID"`
	Body struct {
		Reason string `json:"reason,omitempty" maxLength:"255" doc:"Why the shift is being paused"`
	}
}

type ResumeShiftInput struct {
	ID uuid.UUID `path:"id" doc:"Resource ID"`
}

type CloseShiftInput struct {
	ID uuid.UUID `path:"id" doc:"Resource ID"`
}

type ShiftOutput struct {
	Body *ShiftView
}

type CurrentShiftInput struct {
	ID uuid.UUID `path:"id" doc:"Resource ID"`
}

type ListShiftsInput struct {
	ID     uuid.UUID `path:"id" doc:"Resource ID"`
	Limit  int       `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Max results"`
	Offset int       `query:"offset" minimum:"0" default:"0" doc:"Offset for pagination"`
}

type ListShiftsOutput struct {
	Body struct {
		Shifts []*ShiftView `json:"shifts"`
		Total  int64        `json:"total"`
	}
}

// mapShiftError translates domain errors into HTTP responses: missing shift
// or resource is 404, a rejected lifecycle command is 400, a lost write race
// that persisted through the retry is 409, a corrupt record is 500.
func mapShiftError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound("no open shift for resource")
	case errors.Is(err, domain.ErrInvalidTransition):
		return huma.Error400BadRequest(rejectionReason(err))
	case errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict("shift state changed concurrently, retry the request")
	case errors.Is(err, domain.ErrDataIntegrity):
		return huma.Error500InternalServerError("shift record failed integrity check", err)
	default:
		return huma.Error500InternalServerError("shift operation failed", err)
	}
}

// rejectionReason strips the service/engine prefixes and the sentinel suffix
// from a rejection, leaving the human-readable reason for the client.
func rejectionReason(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "+domain.ErrInvalidTransition.Error()); i >= 0 {
		msg = msg[:i]
	}
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	return msg
}

func RegisterShiftRoutes(api huma.API, svc ShiftService) {
	huma.Register(api, huma.Operation{
		OperationID: "start-shift",
		Method:      http.MethodPost,
		Path:        "/resources/{id}/shift/start",
		Summary:     "Start a shift on a resource",
		Tags:        []string{"Shifts"},
	}, func(ctx context.Context, input *StartShiftInput) (*ShiftOutput, error) {
		tenantID, userID, err := writer(ctx)
		if err != nil {
			return nil, err
		}

		sh, err := svc.Start(ctx, tenantID, input.ID, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("resource not found")
			}
			return nil, mapShiftError(err)
		}

		return shiftOutput(sh)
	})

	huma.Register(api, huma.Operation{
		OperationID: "pause-shift",
		Method:      http.MethodPost,
		Path:        "/resources/{id}/shift/pause",
		Summary:     "Pause the open shift on a resource",
		Tags:        []string{"Shifts"},
	}, func(ctx context.Context, input *PauseShiftInput) (*ShiftOutput, error) {
		tenantID, userID, err := writer(ctx)
		if err != nil {
			return nil, err
		}

		sh, err := svc.Pause(ctx, tenantID, input.ID, userID, input.Body.Reason)
		if err != nil {
			return nil, mapShiftError(err)
		}

		return shiftOutput(sh)
	})

	huma.Register(api, huma.Operation{
		OperationID: "resume-shift",
		Method:      http.MethodPost,
		Path:        "/resources/{id}/shift/resume",
		Summary:     "Resume the paused shift on a resource",
		Tags:        []string{"Shifts"},
	}, func(ctx context.Context, input *ResumeShiftInput) (*ShiftOutput, error) {
		tenantID, userID, err := writer(ctx)
		if err != nil {
			return nil, err
		}

		sh, err := svc.Resume(ctx, tenantID, input.ID, userID)
		if err != nil {
			return nil, mapShiftError(err)
		}

		return shiftOutput(sh)
	})

	huma.Register(api, huma.Operation{
		OperationID: "close-shift",
		Method:      http.MethodPost,
		Path:        "/resources/{id}/shift/close",
		Summary:     "Close the open shift on a resource",
		Tags:        []string{"Shifts"},
	}, func(ctx context.Context, input *CloseShiftInput) (*ShiftOutput, error) {
		tenantID, userID, err := writer(ctx)
		if err != nil {
			return nil, err
		}

		sh, err := svc.Close(ctx, tenantID, input.ID, userID)
		if err != nil {
			return nil, mapShiftError(err)
		}

		return shiftOutput(sh)
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-current-shift",
		Method:      http.MethodGet,
		Path:        "/resources/{id}/shift",
		Summary:     "Get the current open shift on a resource",
		Tags:        []string{"Shifts"},
	}, func(ctx context.Context, input *CurrentShiftInput) (*ShiftOutput, error) {
		tenantID, _, err := actor(ctx)
		if err != nil {
			return nil, err
		}

		sh, err := svc.Current(ctx, tenantID, input.ID)
		if err != nil {
			return nil, mapShiftError(err)
		}

		return shiftOutput(sh)
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-shifts",
		Method:      http.MethodGet,
		Path:        "/resources/{id}/shifts",
		Summary:     "List shift history for a resource",
		Tags:        []string{"Shifts"},
	}, func(ctx context.Context, input *ListShiftsInput) (*ListShiftsOutput, error) {
		tenantID, _, err := actor(ctx)
		if err != nil {
			return nil, err
		}

		shifts, total, err := svc.History(ctx, tenantID, input.ID, input.Limit, input.Offset)
		if err != nil {
			return nil, mapShiftError(err)
		}

		now := time.Now()
		views := make([]*ShiftView, 0, len(shifts))
		for _, sh := range shifts {
			view, viewErr := newShiftView(sh, now)
			if viewErr != nil {
				return nil, huma.Error500InternalServerError("shift record failed integrity check", viewErr)
			}
			views = append(views, view)
		}

		out := &ListShiftsOutput{}
		out.Body.Shifts = views
		out.Body.Total = total
		return out, nil
	})
}

// actor extracts the authenticated tenant and user from the request context.
func actor(ctx context.Context) (tenantID, userID uuid.UUID, err error) {
	id, ok := middleware.IdentityFrom(ctx)
	if !ok || id.UserID == uuid.Nil {
		return uuid.Nil, uuid.Nil, huma.Error401Unauthorized("missing user context")
	}
	if id.TenantID == uuid.Nil {
		return uuid.Nil, uuid.Nil, huma.Error403Forbidden("missing tenant context")
	}

	return id.TenantID, id.UserID, nil
}

// writer is actor plus the read-only check: viewers can inspect shifts but
// never drive the lifecycle.
func writer(ctx context.Context) (tenantID, userID uuid.UUID, err error) {
	tenantID, userID, err = actor(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	if id, ok := middleware.IdentityFrom(ctx); ok && id.Role == middleware.RoleViewer {
		return uuid.Nil, uuid.Nil, huma.Error403Forbidden("insufficient permissions")
	}

	return tenantID, userID, nil
}

func shiftOutput(sh *domain.Shift) (*ShiftOutput, error) {
	view, err := newShiftView(sh, time.Now())
	if err != nil {
		return nil, huma.Error500InternalServerError("shift record failed integrity check", err)
	}

	return &ShiftOutput{Body: view}, nil
}
