package schedule

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeOfDay = errors.New("time of day must be HH:MM between 00:00 and 23:59")

// MinuteOfDay is a wall-clock time within a day, parsed from "HH:MM".
type MinuteOfDay struct {
	minutes int
}

func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return MinuteOfDay{}, ErrInvalidTimeOfDay
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return MinuteOfDay{}, ErrInvalidTimeOfDay
	}
	return MinuteOfDay{minutes: h*60 + m}, nil
}

func MinuteOfDayFromMinutes(minutes int) (MinuteOfDay, error) {
	if minutes < 0 || minutes >= 24*60 {
		return MinuteOfDay{}, ErrInvalidTimeOfDay
	}
	return MinuteOfDay{minutes: minutes}, nil
}

func (m MinuteOfDay) Minutes() int {
	return m.minutes
}

func (m MinuteOfDay) Before(other MinuteOfDay) bool {
	return m.minutes < other.minutes
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", m.minutes/60, m.minutes%60)
}

// At anchors the minute-of-day onto a calendar date in that date's location.
func (m MinuteOfDay) At(date time.Time) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, m.minutes/60, m.minutes%60, 0, 0, date.Location())
}

// SameCalendarDay compares two instants at day granularity, ignoring
// time-of-day entirely.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
