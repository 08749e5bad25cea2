package queries

import (
	"context"
	"time"

	"probook/internal/domain/schedule"
	"probook/internal/infra"
	"probook/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrAvailabilityFailed = errs.New("failed to compute availability")

// ScheduleReadStore exposes a professional's calendar rules.
type ScheduleReadStore interface {
	BusinessHoursFor(ctx context.Context, professionalID uuid.UUID, dayOfWeek int) (*schedule.BusinessHours, error)
	HolidayOn(ctx context.Context, professionalID uuid.UUID, date time.Time) (*schedule.Holiday, error)
}

// OccupancyReadStore lists the active bookings occupying a professional's day.
type OccupancyReadStore interface {
	OccupanciesOn(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]OccupancyView, error)
}

type AvailabilityQueries interface {
	// DaySchedule is read-only and idempotent; it never mutates state.
	DaySchedule(ctx context.Context, professionalID uuid.UUID, date time.Time) (*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	scheduleStore  ScheduleReadStore
	occupancyStore OccupancyReadStore
	planner        *schedule.Planner
}

func NewAvailabilityQueries(
	scheduleStore ScheduleReadStore,
	occupancyStore OccupancyReadStore,
	planner *schedule.Planner,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		scheduleStore:  scheduleStore,
		occupancyStore: occupancyStore,
		planner:        planner,
	}
}

func (q *availabilityQueriesImpl) DaySchedule(ctx context.Context, professionalID uuid.UUID, date time.Time) (*AvailabilityView, error) {
	holiday, err := q.scheduleStore.HolidayOn(ctx, professionalID, date)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrAvailabilityFailed)
	}
	if holiday != nil {
		return q.toView(professionalID, q.planner.HolidaySchedule(date, holiday.Reason())), nil
	}

	hours, err := q.scheduleStore.BusinessHoursFor(ctx, professionalID, int(date.Weekday()))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return q.toView(professionalID, q.planner.ClosedSchedule(date)), nil
		}
		return nil, errs.Mark(err, ErrAvailabilityFailed)
	}

	occupancies, err := q.occupancyStore.OccupanciesOn(ctx, professionalID, date)
	if err != nil {
		return nil, errs.Mark(err, ErrAvailabilityFailed)
	}

	occupied := make([]schedule.Occupancy, len(occupancies))
	for i, o := range occupancies {
		occupied[i] = schedule.Occupancy{
			Start:        o.StartTime,
			ClientName:   o.ClientName,
			ServiceNames: o.ServiceNames,
		}
	}

	return q.toView(professionalID, q.planner.PlanDay(date, hours, occupied)), nil
}

func (q *availabilityQueriesImpl) toView(professionalID uuid.UUID, day schedule.DaySchedule) *AvailabilityView {
	slots := make([]SlotView, len(day.Slots))
	for i, s := range day.Slots {
		slots[i] = SlotView{
			Start:        s.Start,
			Label:        s.Label,
			Available:    s.Available,
			ClientName:   s.ClientName,
			ServiceNames: s.ServiceNames,
		}
	}
	return &AvailabilityView{
		ProfessionalID: professionalID,
		Date:           day.Date,
		IsHoliday:      day.IsHoliday,
		HolidayReason:  day.Reason,
		IsClosed:       day.IsClosed,
		SlotWidthMin:   int(q.planner.SlotWidth() / time.Minute),
		Slots:          slots,
	}
}
