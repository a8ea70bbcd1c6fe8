package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platea/platea/internal/domain"
)

var shiftStart = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func ts(offset time.Duration) *time.Time {
	t := shiftStart.Add(offset)
	return &t
}

func TestShiftState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		shift *domain.Shift
		want  domain.ShiftState
	}{
		{
			name:  "nil shift",
			shift: nil,
			want:  domain.ShiftStateNone,
		},
		{
			name:  "open with no pauses",
			shift: &domain.Shift{StartedAt: shiftStart},
			want:  domain.ShiftStateOpen,
		},
		{
			name: "open with only ended pauses",
			shift: &domain.Shift{
				StartedAt: shiftStart,
				Pauses: []domain.PauseInterval{
					{Start: shiftStart.Add(time.Hour), End: ts(2 * time.Hour)},
				},
			},
			want: domain.ShiftStateOpen,
		},
		{
			name: "last pause still active",
			shift: &domain.Shift{
				StartedAt: shiftStart,
				Pauses: []domain.PauseInterval{
					{Start: shiftStart.Add(time.Hour), End: ts(2 * time.Hour)},
					{Start: shiftStart.Add(3 * time.Hour)},
				},
			},
			want: domain.ShiftStatePaused,
		},
		{
			name: "closed shift with a dangling pause",
			shift: &domain.Shift{
				StartedAt: shiftStart,
				ClosedAt:  ts(4 * time.Hour),
				Pauses: []domain.PauseInterval{
					{Start: shiftStart.Add(3 * time.Hour)},
				},
			},
			want: domain.ShiftStateNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.shift.State())
		})
	}
}

func TestShiftActivePause(t *testing.T) {
	t.Parallel()

	t.Run("nil shift", func(t *testing.T) {
		t.Parallel()
		var s *domain.Shift
		assert.Nil(t, s.ActivePause())
	})

	t.Run("no pauses", func(t *testing.T) {
		t.Parallel()
		s := &domain.Shift{StartedAt: shiftStart}
		assert.Nil(t, s.ActivePause())
	})

	t.Run("last pause ended", func(t *testing.T) {
		t.Parallel()
		s := &domain.Shift{
			Pauses: []domain.PauseInterval{
				{Start: shiftStart, End: ts(time.Hour)},
			},
		}
		assert.Nil(t, s.ActivePause())
	})

	t.Run("active pause", func(t *testing.T) {
		t.Parallel()
		s := &domain.Shift{
			Pauses: []domain.PauseInterval{
				{Reason: "delivery", Start: shiftStart},
			},
		}
		p := s.ActivePause()
		require.NotNil(t, p)
		assert.Equal(t, "delivery", p.Reason)
	})
}

func TestShiftDurations(t *testing.T) {
	t.Parallel()

	t.Run("open shift with one ended pause", func(t *testing.T) {
		t.Parallel()

		s := &domain.Shift{
			StartedAt: shiftStart,
			Pauses: []domain.PauseInterval{
				{Start: shiftStart.Add(10 * time.Minute), End: ts(25 * time.Minute)},
			},
		}
		asOf := shiftStart.Add(time.Hour)

		assert.Equal(t, 15*time.Minute, s.PausedDuration(asOf))

		active, err := s.ActiveDuration(asOf)
		require.NoError(t, err)
		assert.Equal(t, 45*time.Minute, active)
	})

	t.Run("active pause runs to asOf", func(t *testing.T) {
		t.Parallel()

		s := &domain.Shift{
			StartedAt: shiftStart,
			Pauses: []domain.PauseInterval{
				{Start: shiftStart.Add(30 * time.Minute)},
			},
		}
		asOf := shiftStart.Add(time.Hour)

		assert.Equal(t, 30*time.Minute, s.PausedDuration(asOf))
	})

	t.Run("closed shift ignores asOf", func(t *testing.T) {
		t.Parallel()

		s := &domain.Shift{
			StartedAt: shiftStart,
			ClosedAt:  ts(2 * time.Hour),
			Pauses: []domain.PauseInterval{
				{Start: shiftStart.Add(90 * time.Minute)}, // dangling, runs to ClosedAt
			},
		}
		asOf := shiftStart.Add(100 * time.Hour)

		assert.Equal(t, 30*time.Minute, s.PausedDuration(asOf))

		active, err := s.ActiveDuration(asOf)
		require.NoError(t, err)
		assert.Equal(t, 90*time.Minute, active)
	})

	t.Run("impossible intervals report data integrity", func(t *testing.T) {
		t.Parallel()

		// Pause longer than the whole shift: only possible via corrupted or
		// hand-edited records.
		s := &domain.Shift{
			ID:        uuid.New(),
			StartedAt: shiftStart,
			ClosedAt:  ts(time.Hour),
			Pauses: []domain.PauseInterval{
				{Start: shiftStart.Add(-2 * time.Hour), End: ts(time.Hour)},
			},
		}

		_, err := s.ActiveDuration(shiftStart.Add(time.Hour))

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDataIntegrity)
		assert.ErrorContains(t, err, s.ID.String())
	})
}

func TestShiftClone(t *testing.T) {
	t.Parallel()

	t.Run("nil shift", func(t *testing.T) {
		t.Parallel()
		var s *domain.Shift
		assert.Nil(t, s.Clone())
	})

	t.Run("deep copy", func(t *testing.T) {
		t.Parallel()

		orig := &domain.Shift{
			ID:        uuid.New(),
			StartedAt: shiftStart,
			ClosedAt:  ts(8 * time.Hour),
			Pauses: []domain.PauseInterval{
				{Reason: "break", Start: shiftStart.Add(time.Hour), End: ts(2 * time.Hour)},
			},
			Version: 3,
		}

		c := orig.Clone()

		require.Equal(t, orig, c)
		assert.NotSame(t, orig.ClosedAt, c.ClosedAt)
		assert.NotSame(t, orig.Pauses[0].End, c.Pauses[0].End)

		// Mutating the clone leaves the original alone.
		end := c.Pauses[0].End.Add(time.Hour)
		c.Pauses[0].End = &end
		c.Pauses = append(c.Pauses, domain.PauseInterval{Start: shiftStart.Add(3 * time.Hour)})

		assert.Len(t, orig.Pauses, 1)
		assert.Equal(t, shiftStart.Add(2*time.Hour), *orig.Pauses[0].End)
	})
}
