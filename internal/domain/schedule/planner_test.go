//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"probook/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMinute(t *testing.T, s string) schedule.MinuteOfDay {
	t.Helper()
	m, err := schedule.ParseMinuteOfDay(s)
	require.NoError(t, err)
	return m
}

func workday(t *testing.T, opens, closes string, breakStart, breakEnd string) *schedule.BusinessHours {
	t.Helper()
	var bs, be *schedule.MinuteOfDay
	if breakStart != "" {
		s := mustMinute(t, breakStart)
		e := mustMinute(t, breakEnd)
		bs, be = &s, &e
	}
	h, err := schedule.NewBusinessHours(uuid.New(), uuid.New(), 1, mustMinute(t, opens), mustMinute(t, closes), bs, be, true)
	require.NoError(t, err)
	return h
}

func TestParseMinuteOfDay(t *testing.T) {
	testCases := []struct {
		in      string
		minutes int
		wantErr bool
	}{
		{in: "08:00", minutes: 480},
		{in: "00:00", minutes: 0},
		{in: "23:59", minutes: 1439},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "garbage", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			m, err := schedule.ParseMinuteOfDay(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.minutes, m.Minutes())
		})
	}
}

func TestBusinessHoursValidation(t *testing.T) {
	opens := mustMinute(t, "09:00")
	closes := mustMinute(t, "18:00")

	t.Run("open must precede close", func(t *testing.T) {
		_, err := schedule.NewBusinessHours(uuid.New(), uuid.New(), 1, closes, opens, nil, nil, true)
		assert.ErrorIs(t, err, schedule.ErrOpenNotBeforeClose)
	})

	t.Run("break needs both ends", func(t *testing.T) {
		bs := mustMinute(t, "12:00")
		_, err := schedule.NewBusinessHours(uuid.New(), uuid.New(), 1, opens, closes, &bs, nil, true)
		assert.ErrorIs(t, err, schedule.ErrBreakHalfSet)
	})

	t.Run("break end after break start", func(t *testing.T) {
		bs := mustMinute(t, "13:00")
		be := mustMinute(t, "12:00")
		_, err := schedule.NewBusinessHours(uuid.New(), uuid.New(), 1, opens, closes, &bs, &be, true)
		assert.ErrorIs(t, err, schedule.ErrInvalidBreakWindow)
	})

	t.Run("weekday bounds", func(t *testing.T) {
		_, err := schedule.NewBusinessHours(uuid.New(), uuid.New(), 7, opens, closes, nil, nil, true)
		assert.ErrorIs(t, err, schedule.ErrInvalidWeekday)
	})
}

func TestPlanDay(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	newPlanner := func(t *testing.T, width time.Duration) *schedule.Planner {
		t.Helper()
		p, err := schedule.NewPlanner(width)
		require.NoError(t, err)
		return p
	}

	t.Run("eight hour day with lunch break yields 16 half-hour slots", func(t *testing.T) {
		p := newPlanner(t, 30*time.Minute)
		hours := workday(t, "08:00", "17:00", "12:00", "13:00")

		day := p.PlanDay(date, hours, nil)

		require.Len(t, day.Slots, 16)
		assert.Equal(t, "08:00", day.Slots[0].Label)
		assert.Equal(t, "16:30", day.Slots[len(day.Slots)-1].Label)
		for _, s := range day.Slots {
			assert.True(t, s.Available)
			assert.NotEqual(t, "12:00", s.Label)
			assert.NotEqual(t, "12:30", s.Label)
		}
	})

	t.Run("day without break has no gaps", func(t *testing.T) {
		p := newPlanner(t, 30*time.Minute)
		hours := workday(t, "08:00", "12:00", "", "")

		day := p.PlanDay(date, hours, nil)

		require.Len(t, day.Slots, 8)
		for i := 1; i < len(day.Slots); i++ {
			assert.Equal(t, 30*time.Minute, day.Slots[i].Start.Sub(day.Slots[i-1].Start))
		}
	})

	t.Run("slot width is configuration, not a constant", func(t *testing.T) {
		p := newPlanner(t, 10*time.Minute)
		hours := workday(t, "08:00", "09:00", "", "")

		day := p.PlanDay(date, hours, nil)
		assert.Len(t, day.Slots, 6)
	})

	t.Run("booking starting on a slot boundary marks it taken", func(t *testing.T) {
		p := newPlanner(t, 30*time.Minute)
		hours := workday(t, "08:00", "12:00", "", "")
		occ := []schedule.Occupancy{{
			Start:        time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
			ClientName:   "Ana Souza",
			ServiceNames: []string{"Haircut", "Beard trim"},
		}}

		day := p.PlanDay(date, hours, occ)

		var taken *schedule.Slot
		for i := range day.Slots {
			if day.Slots[i].Label == "09:00" {
				taken = &day.Slots[i]
			} else {
				assert.True(t, day.Slots[i].Available, day.Slots[i].Label)
			}
		}
		require.NotNil(t, taken)
		assert.False(t, taken.Available)
		assert.Equal(t, "Ana Souza", taken.ClientName)
		assert.Equal(t, []string{"Haircut", "Beard trim"}, taken.ServiceNames)
	})

	t.Run("occupancy in another location still marks its slot taken", func(t *testing.T) {
		p := newPlanner(t, 30*time.Minute)
		hours := workday(t, "08:00", "12:00", "", "")
		// Same instant as 09:00 UTC, expressed in a different zone, the
		// way a driver may hand timestamps back.
		occ := []schedule.Occupancy{{
			Start:      time.Date(2025, 3, 10, 6, 0, 0, 0, time.FixedZone("UTC-3", -3*60*60)),
			ClientName: "Ana Souza",
		}}

		day := p.PlanDay(date, hours, occ)

		for _, s := range day.Slots {
			if s.Label == "09:00" {
				require.False(t, s.Available)
				assert.Equal(t, "Ana Souza", s.ClientName)
			} else {
				assert.True(t, s.Available, s.Label)
			}
		}
	})

	t.Run("off-grid booking is not matched to a slot", func(t *testing.T) {
		p := newPlanner(t, 30*time.Minute)
		hours := workday(t, "08:00", "12:00", "", "")
		occ := []schedule.Occupancy{{Start: time.Date(2025, 3, 10, 9, 10, 0, 0, time.UTC), ClientName: "Ana"}}

		day := p.PlanDay(date, hours, occ)
		for _, s := range day.Slots {
			assert.True(t, s.Available)
		}
	})

	t.Run("inactive hours produce a closed day", func(t *testing.T) {
		p := newPlanner(t, 30*time.Minute)
		h, err := schedule.NewBusinessHours(uuid.New(), uuid.New(), 1, mustMinute(t, "08:00"), mustMinute(t, "17:00"), nil, nil, false)
		require.NoError(t, err)

		day := p.PlanDay(date, h, nil)
		assert.True(t, day.IsClosed)
		assert.Empty(t, day.Slots)
	})

	t.Run("absent hours produce a closed day", func(t *testing.T) {
		p := newPlanner(t, 30*time.Minute)
		day := p.PlanDay(date, nil, nil)
		assert.True(t, day.IsClosed)
		assert.Empty(t, day.Slots)
	})

	t.Run("holiday schedule carries the reason", func(t *testing.T) {
		p := newPlanner(t, 30*time.Minute)
		day := p.HolidaySchedule(date, "Carnival")
		assert.True(t, day.IsHoliday)
		assert.Equal(t, "Carnival", day.Reason)
		assert.Empty(t, day.Slots)
	})
}

func TestHolidayMatches(t *testing.T) {
	holiday := schedule.NewHoliday(uuid.New(), uuid.New(), time.Date(2025, 12, 25, 10, 30, 0, 0, time.UTC), "Christmas")

	assert.True(t, holiday.Matches(time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)))
	assert.True(t, holiday.Matches(time.Date(2025, 12, 25, 23, 59, 0, 0, time.UTC)))
	assert.False(t, holiday.Matches(time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC)))
}
