package readstore

import (
	"context"
	"time"

	"probook/internal/domain/schedule"
	"probook/internal/infra"
	"probook/internal/infra/db"
	"probook/internal/pkg/pgconv"
	"probook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ScheduleReadStore struct {
	db db.DBTX
}

func NewScheduleReadStore(dbtx db.DBTX) *ScheduleReadStore {
	return &ScheduleReadStore{db: dbtx}
}

type businessHoursRow struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	DayOfWeek      int32
	OpensAt        pgtype.Time
	ClosesAt       pgtype.Time
	BreakStart     pgtype.Time
	BreakEnd       pgtype.Time
	Active         bool
	UpdatedAt      time.Time
}

// Duplicate weekday rows resolve to the most recently updated one; id
// breaks the remaining tie deterministically.
const businessHoursQuery = `
	SELECT id, professional_id, day_of_week, opens_at, closes_at,
	       break_start, break_end, active, updated_at
	FROM business_hours
	WHERE professional_id = $1 AND day_of_week = $2
	ORDER BY updated_at DESC, id DESC
	LIMIT 1`

func (r *ScheduleReadStore) findBusinessHours(ctx context.Context, professionalID uuid.UUID, dayOfWeek int) (*businessHoursRow, error) {
	var row businessHoursRow
	err := r.db.QueryRow(ctx, businessHoursQuery, professionalID, int32(dayOfWeek)).Scan(
		&row.ID, &row.ProfessionalID, &row.DayOfWeek, &row.OpensAt, &row.ClosesAt,
		&row.BreakStart, &row.BreakEnd, &row.Active, &row.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("business hours not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find business hours", err)
	}
	return &row, nil
}

func (r *ScheduleReadStore) BusinessHoursFor(ctx context.Context, professionalID uuid.UUID, dayOfWeek int) (*schedule.BusinessHours, error) {
	row, err := r.findBusinessHours(ctx, professionalID, dayOfWeek)
	if err != nil {
		return nil, err
	}
	return toBusinessHours(row)
}

func (r *ScheduleReadStore) BusinessHoursSnapshotFor(ctx context.Context, professionalID uuid.UUID, dayOfWeek int) (*shared.BusinessHoursSnapshot, error) {
	row, err := r.findBusinessHours(ctx, professionalID, dayOfWeek)
	if err != nil {
		return nil, err
	}

	opens, err := minuteLabel(row.OpensAt)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid business hours row", err)
	}
	closes, err := minuteLabel(row.ClosesAt)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid business hours row", err)
	}

	snap := &shared.BusinessHoursSnapshot{
		ID:             row.ID,
		ProfessionalID: row.ProfessionalID,
		DayOfWeek:      int(row.DayOfWeek),
		OpensAt:        opens,
		ClosesAt:       closes,
		Active:         row.Active,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.BreakStart.Valid && row.BreakEnd.Valid {
		bs, err := minuteLabel(row.BreakStart)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid business hours row", err)
		}
		be, err := minuteLabel(row.BreakEnd)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid business hours row", err)
		}
		snap.BreakStart, snap.BreakEnd = &bs, &be
	}
	return snap, nil
}

const holidayQuery = `
	SELECT id, professional_id, date, reason
	FROM holidays
	WHERE professional_id = $1 AND date = $2::date
	LIMIT 1`

func (r *ScheduleReadStore) HolidayOn(ctx context.Context, professionalID uuid.UUID, date time.Time) (*schedule.Holiday, error) {
	var (
		id     uuid.UUID
		proID  uuid.UUID
		day    time.Time
		reason string
	)
	err := r.db.QueryRow(ctx, holidayQuery, professionalID, date).Scan(&id, &proID, &day, &reason)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("holiday not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find holiday", err)
	}
	return schedule.NewHoliday(id, proID, day, reason), nil
}

func (r *ScheduleReadStore) HolidaySnapshotOn(ctx context.Context, professionalID uuid.UUID, date time.Time) (*shared.HolidaySnapshot, error) {
	holiday, err := r.HolidayOn(ctx, professionalID, date)
	if err != nil {
		return nil, err
	}
	return &shared.HolidaySnapshot{
		ID:             holiday.ID(),
		ProfessionalID: holiday.ProfessionalID(),
		Date:           holiday.Date(),
		Reason:         holiday.Reason(),
	}, nil
}

func toBusinessHours(row *businessHoursRow) (*schedule.BusinessHours, error) {
	opens, err := minuteOfDay(row.OpensAt)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid business hours row", err)
	}
	closes, err := minuteOfDay(row.ClosesAt)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid business hours row", err)
	}

	var breakStart, breakEnd *schedule.MinuteOfDay
	if row.BreakStart.Valid && row.BreakEnd.Valid {
		bs, err := minuteOfDay(row.BreakStart)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid business hours row", err)
		}
		be, err := minuteOfDay(row.BreakEnd)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid business hours row", err)
		}
		breakStart, breakEnd = &bs, &be
	}

	hours, err := schedule.NewBusinessHours(
		row.ID, row.ProfessionalID, int(row.DayOfWeek),
		opens, closes, breakStart, breakEnd, row.Active,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid business hours row", err)
	}
	return hours, nil
}

func minuteOfDay(t pgtype.Time) (schedule.MinuteOfDay, error) {
	return schedule.MinuteOfDayFromMinutes(int(t.Microseconds / int64(time.Minute/time.Microsecond)))
}

func minuteLabel(t pgtype.Time) (string, error) {
	m, err := minuteOfDay(t)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}
