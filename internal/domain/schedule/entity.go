package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidWeekday     = errors.New("day of week must be between 0 and 6")
	ErrOpenNotBeforeClose = errors.New("opening time must be before closing time")
	ErrInvalidBreakWindow = errors.New("break end must be after break start")
	ErrBreakHalfSet       = errors.New("break start and break end must be set together")
)

// BusinessHours is one weekday's working window for a professional,
// with an optional break during which no slots are offered.
type BusinessHours struct {
	id             uuid.UUID
	professionalID uuid.UUID
	dayOfWeek      time.Weekday
	opensAt        MinuteOfDay
	closesAt       MinuteOfDay
	breakStart     *MinuteOfDay
	breakEnd       *MinuteOfDay
	active         bool
}

func NewBusinessHours(
	id, professionalID uuid.UUID,
	dayOfWeek int,
	opensAt, closesAt MinuteOfDay,
	breakStart, breakEnd *MinuteOfDay,
	active bool,
) (*BusinessHours, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, ErrInvalidWeekday
	}
	if !opensAt.Before(closesAt) {
		return nil, ErrOpenNotBeforeClose
	}
	if (breakStart == nil) != (breakEnd == nil) {
		return nil, ErrBreakHalfSet
	}
	if breakStart != nil && !breakStart.Before(*breakEnd) {
		return nil, ErrInvalidBreakWindow
	}

	return &BusinessHours{
		id:             id,
		professionalID: professionalID,
		dayOfWeek:      time.Weekday(dayOfWeek),
		opensAt:        opensAt,
		closesAt:       closesAt,
		breakStart:     breakStart,
		breakEnd:       breakEnd,
		active:         active,
	}, nil
}

func (h *BusinessHours) ID() uuid.UUID             { return h.id }
func (h *BusinessHours) ProfessionalID() uuid.UUID { return h.professionalID }
func (h *BusinessHours) DayOfWeek() time.Weekday   { return h.dayOfWeek }
func (h *BusinessHours) OpensAt() MinuteOfDay      { return h.opensAt }
func (h *BusinessHours) ClosesAt() MinuteOfDay     { return h.closesAt }
func (h *BusinessHours) IsActive() bool            { return h.active }

func (h *BusinessHours) HasBreak() bool {
	return h.breakStart != nil && h.breakEnd != nil
}

// InBreak reports whether a minute falls within [breakStart, breakEnd).
func (h *BusinessHours) InBreak(m MinuteOfDay) bool {
	if !h.HasBreak() {
		return false
	}
	return !m.Before(*h.breakStart) && m.Before(*h.breakEnd)
}

func (h *BusinessHours) BreakStart() *MinuteOfDay { return h.breakStart }
func (h *BusinessHours) BreakEnd() *MinuteOfDay   { return h.breakEnd }

// Holiday is a full-day closure for one professional. Matching is done at
// day granularity; times of day on either side are ignored.
type Holiday struct {
	id             uuid.UUID
	professionalID uuid.UUID
	date           time.Time
	reason         string
}

func NewHoliday(id, professionalID uuid.UUID, date time.Time, reason string) *Holiday {
	return &Holiday{
		id:             id,
		professionalID: professionalID,
		date:           date,
		reason:         reason,
	}
}

func (h *Holiday) ID() uuid.UUID             { return h.id }
func (h *Holiday) ProfessionalID() uuid.UUID { return h.professionalID }
func (h *Holiday) Date() time.Time           { return h.date }
func (h *Holiday) Reason() string            { return h.reason }

func (h *Holiday) Matches(date time.Time) bool {
	return SameCalendarDay(h.date, date)
}
