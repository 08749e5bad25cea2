//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"probook/internal/domain/schedule"
	"probook/internal/infra"
	"probook/internal/pkg/errs"
	"probook/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

type stubScheduleStore struct {
	hours    map[int]*schedule.BusinessHours
	holidays []*schedule.Holiday
}

func (s *stubScheduleStore) BusinessHoursFor(_ context.Context, _ uuid.UUID, dayOfWeek int) (*schedule.BusinessHours, error) {
	h, ok := s.hours[dayOfWeek]
	if !ok {
		return nil, infra.WrapRepoErr("business hours not found", nil, infra.KindNotFound)
	}
	return h, nil
}

func (s *stubScheduleStore) HolidayOn(_ context.Context, _ uuid.UUID, date time.Time) (*schedule.Holiday, error) {
	for _, h := range s.holidays {
		if h.Matches(date) {
			return h, nil
		}
	}
	return nil, infra.WrapRepoErr("holiday not found", nil, infra.KindNotFound)
}

type stubOccupancyStore struct {
	occupancies []queries.OccupancyView
	err         error
}

func (s *stubOccupancyStore) OccupanciesOn(context.Context, uuid.UUID, time.Time) ([]queries.OccupancyView, error) {
	return s.occupancies, s.err
}

func mustMinute(t *testing.T, v string) schedule.MinuteOfDay {
	t.Helper()
	m, err := schedule.ParseMinuteOfDay(v)
	require.NoError(t, err)
	return m
}

// mondayHours: 09:00-18:00 with a 12:00-13:00 break.
func mondayHours(t *testing.T, professionalID uuid.UUID) *schedule.BusinessHours {
	t.Helper()
	breakStart := mustMinute(t, "12:00")
	breakEnd := mustMinute(t, "13:00")
	h, err := schedule.NewBusinessHours(
		uuid.New(),
		professionalID,
		1,
		mustMinute(t, "09:00"),
		mustMinute(t, "18:00"),
		&breakStart,
		&breakEnd,
		true,
	)
	require.NoError(t, err)
	return h
}

func newAvailability(t *testing.T, scheduleStore queries.ScheduleReadStore, occupancyStore queries.OccupancyReadStore) queries.AvailabilityQueries {
	t.Helper()
	planner, err := schedule.NewPlanner(30 * time.Minute)
	require.NoError(t, err)
	return queries.NewAvailabilityQueries(scheduleStore, occupancyStore, planner)
}

func TestAvailabilityQueries_DaySchedule(t *testing.T) {
	ctx := context.Background()
	professionalID := uuid.New()

	t.Run("grid spans opening to closing minus the break", func(t *testing.T) {
		q := newAvailability(t,
			&stubScheduleStore{hours: map[int]*schedule.BusinessHours{1: mondayHours(t, professionalID)}},
			&stubOccupancyStore{},
		)

		view, err := q.DaySchedule(ctx, professionalID, monday)
		require.NoError(t, err)

		// 18 half-hour slots in 09:00-18:00 minus the two break slots.
		require.Len(t, view.Slots, 16)
		assert.Equal(t, 30, view.SlotWidthMin)
		assert.False(t, view.IsHoliday)
		assert.False(t, view.IsClosed)

		assert.Equal(t, monday.Add(9*time.Hour), view.Slots[0].Start)

		wantLabels := []string{
			"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
			"13:00", "13:30", "14:00", "14:30", "15:00", "15:30",
			"16:00", "16:30", "17:00", "17:30",
		}
		gotLabels := make([]string, len(view.Slots))
		for i, s := range view.Slots {
			gotLabels[i] = s.Label
			assert.True(t, s.Available)
		}
		assert.Empty(t, cmp.Diff(wantLabels, gotLabels))
	})

	t.Run("existing booking marks its slot occupied", func(t *testing.T) {
		q := newAvailability(t,
			&stubScheduleStore{hours: map[int]*schedule.BusinessHours{1: mondayHours(t, professionalID)}},
			&stubOccupancyStore{occupancies: []queries.OccupancyView{{
				BookingID:    uuid.New(),
				StartTime:    monday.Add(10 * time.Hour),
				ClientName:   "Ada",
				ServiceNames: []string{"Haircut"},
			}}},
		)

		view, err := q.DaySchedule(ctx, professionalID, monday)
		require.NoError(t, err)

		var taken, free int
		for _, s := range view.Slots {
			if s.Available {
				free++
				continue
			}
			taken++
			assert.Equal(t, "10:00", s.Label)
			assert.Equal(t, "Ada", s.ClientName)
			assert.Equal(t, []string{"Haircut"}, s.ServiceNames)
		}
		assert.Equal(t, 1, taken)
		assert.Equal(t, 15, free)
	})

	t.Run("holiday short-circuits before occupancies are read", func(t *testing.T) {
		q := newAvailability(t,
			&stubScheduleStore{
				hours:    map[int]*schedule.BusinessHours{1: mondayHours(t, professionalID)},
				holidays: []*schedule.Holiday{schedule.NewHoliday(uuid.New(), professionalID, monday, "Staff retreat")},
			},
			&stubOccupancyStore{err: errs.New("must not be consulted")},
		)

		view, err := q.DaySchedule(ctx, professionalID, monday)
		require.NoError(t, err)

		assert.True(t, view.IsHoliday)
		assert.Equal(t, "Staff retreat", view.HolidayReason)
		assert.Empty(t, view.Slots)
		assert.NotNil(t, view.Slots)
	})

	t.Run("weekday without hours reads as closed", func(t *testing.T) {
		q := newAvailability(t,
			&stubScheduleStore{hours: map[int]*schedule.BusinessHours{}},
			&stubOccupancyStore{},
		)

		view, err := q.DaySchedule(ctx, professionalID, monday)
		require.NoError(t, err)

		assert.True(t, view.IsClosed)
		assert.Empty(t, view.Slots)
	})

	t.Run("occupancy read failure surfaces", func(t *testing.T) {
		q := newAvailability(t,
			&stubScheduleStore{hours: map[int]*schedule.BusinessHours{1: mondayHours(t, professionalID)}},
			&stubOccupancyStore{err: errs.New("connection reset")},
		)

		_, err := q.DaySchedule(ctx, professionalID, monday)
		assert.True(t, errs.Is(err, queries.ErrAvailabilityFailed))
	})
}
