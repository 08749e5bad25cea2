package schedule

import (
	"errors"
	"time"
)

var ErrInvalidSlotWidth = errors.New("slot width must be positive")

// Slot is one fixed-width interval of a professional's working day.
type Slot struct {
	Start        time.Time
	Label        string
	Available    bool
	ClientName   string
	ServiceNames []string
}

// Occupancy is the minimal view of an existing booking the planner needs
// to mark a slot as taken.
type Occupancy struct {
	Start        time.Time
	ClientName   string
	ServiceNames []string
}

// DaySchedule is the computed free/busy grid for one professional and date.
type DaySchedule struct {
	Date      time.Time
	IsHoliday bool
	Reason    string
	IsClosed  bool
	Slots     []Slot
}

// Planner builds day schedules. It is stateless and safe for concurrent use;
// the slot width comes from configuration, never a constant.
type Planner struct {
	slotWidth time.Duration
}

func NewPlanner(slotWidth time.Duration) (*Planner, error) {
	if slotWidth <= 0 {
		return nil, ErrInvalidSlotWidth
	}
	return &Planner{slotWidth: slotWidth}, nil
}

func (p *Planner) SlotWidth() time.Duration {
	return p.slotWidth
}

// HolidaySchedule short-circuits the grid for a matching holiday.
func (p *Planner) HolidaySchedule(date time.Time, reason string) DaySchedule {
	return DaySchedule{Date: date, IsHoliday: true, Reason: reason, Slots: []Slot{}}
}

// ClosedSchedule is the result for a weekday with absent or inactive hours.
func (p *Planner) ClosedSchedule(date time.Time) DaySchedule {
	return DaySchedule{Date: date, IsClosed: true, Slots: []Slot{}}
}

// PlanDay walks from opening to closing time in fixed increments, skipping
// slots whose start falls inside the break window, and marks a slot occupied
// when an existing booking starts exactly on the slot boundary.
//
// A booking that starts off-grid will not be matched to "its" slot; the grid
// is an approximation for irregular-duration bookings, not an exact busy map.
func (p *Planner) PlanDay(date time.Time, hours *BusinessHours, occupied []Occupancy) DaySchedule {
	if hours == nil || !hours.IsActive() {
		return p.ClosedSchedule(date)
	}

	// Keyed by the instant, not the time.Time value: occupancy starts come
	// back from the database in whatever location the driver chose, and
	// map equality on time.Time is sensitive to the location field.
	byStart := make(map[int64]Occupancy, len(occupied))
	for _, o := range occupied {
		byStart[o.Start.UnixNano()] = o
	}

	widthMin := int(p.slotWidth / time.Minute)
	slots := []Slot{}
	for cursor := hours.OpensAt().Minutes(); cursor+widthMin <= hours.ClosesAt().Minutes(); cursor += widthMin {
		m, err := MinuteOfDayFromMinutes(cursor)
		if err != nil {
			break
		}
		if hours.InBreak(m) {
			continue
		}

		start := m.At(date)
		slot := Slot{
			Start:     start,
			Label:     m.String(),
			Available: true,
		}
		if occ, taken := byStart[start.UnixNano()]; taken {
			slot.Available = false
			slot.ClientName = occ.ClientName
			slot.ServiceNames = occ.ServiceNames
		}
		slots = append(slots, slot)
	}

	return DaySchedule{Date: date, Slots: slots}
}
