package booking

import (
	"errors"
	"fmt"
	"time"
)

// TimeRange is a half-open interval [start, end).
type TimeRange struct {
	start time.Time
	end   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !start.Before(end) {
		return TimeRange{}, errors.New("start time must be before end time")
	}
	return TimeRange{start: start, end: end}, nil
}

func (tr TimeRange) Start() time.Time {
	return tr.start
}

func (tr TimeRange) End() time.Time {
	return tr.end
}

func (tr TimeRange) Duration() time.Duration {
	return tr.end.Sub(tr.start)
}

// Overlaps reports whether two half-open intervals intersect.
// An interval starting exactly where another ends does not overlap.
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.start.Before(other.end) && other.start.Before(tr.end)
}

func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.start) && t.Before(tr.end)
}

func (tr TimeRange) String() string {
	return fmt.Sprintf("[%s,%s)", tr.start.Format(time.RFC3339), tr.end.Format(time.RFC3339))
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{cents: cents}, nil
}

func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub clamps at zero; a discount can never push an amount negative.
func (m Money) Sub(cents int64) Money {
	remaining := m.cents - cents
	if remaining < 0 {
		remaining = 0
	}
	return Money{cents: remaining}
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

type Note struct {
	value string
}

func NewNote(value string) Note {
	return Note{value: value}
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}
