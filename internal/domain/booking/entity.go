package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoItems             = errors.New("booking requires at least one service item")
	ErrInvalidItem         = errors.New("booking item must have positive duration and non-negative price")
	ErrInvalidTransition   = errors.New("invalid booking status transition")
	ErrNotOwnedByActor     = errors.New("booking does not belong to the acting party")
	ErrDurationMismatch    = errors.New("booking span must equal the sum of item durations")
	ErrAlreadyCompleted    = errors.New("booking is already completed")
	ErrAlreadyCanceled     = errors.New("booking is already canceled")
	ErrStartTimeInThePast  = errors.New("booking cannot start in the past")
	ErrZeroDurationBooking = errors.New("booking cannot have zero duration")
)

// Item is a price/duration snapshot taken from a professional's service
// offering at creation time. Later catalog edits must not change it.
type Item struct {
	id          uuid.UUID
	offeringID  uuid.UUID
	serviceID   uuid.UUID
	serviceName string
	priceCents  int64
	duration    time.Duration
}

func NewItem(offeringID, serviceID uuid.UUID, serviceName string, priceCents int64, duration time.Duration) (Item, error) {
	if duration <= 0 || priceCents < 0 {
		return Item{}, ErrInvalidItem
	}
	return Item{
		id:          uuid.New(),
		offeringID:  offeringID,
		serviceID:   serviceID,
		serviceName: serviceName,
		priceCents:  priceCents,
		duration:    duration,
	}, nil
}

func ReconstructItem(id, offeringID, serviceID uuid.UUID, serviceName string, priceCents int64, duration time.Duration) Item {
	return Item{
		id:          id,
		offeringID:  offeringID,
		serviceID:   serviceID,
		serviceName: serviceName,
		priceCents:  priceCents,
		duration:    duration,
	}
}

func (i Item) ID() uuid.UUID           { return i.id }
func (i Item) OfferingID() uuid.UUID   { return i.offeringID }
func (i Item) ServiceID() uuid.UUID    { return i.serviceID }
func (i Item) ServiceName() string     { return i.serviceName }
func (i Item) PriceCents() int64       { return i.priceCents }
func (i Item) Duration() time.Duration { return i.duration }

type Booking struct {
	id             uuid.UUID
	clientID       uuid.UUID
	professionalID uuid.UUID
	timeRange      TimeRange
	status         Status
	items          []Item
	finalPrice     *Money
	note           Note
	confirmedAt    *time.Time
	canceledAt     *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

// NewBooking derives the end of the time range from the summed item
// durations, so the span invariant holds by construction.
func NewBooking(
	clientID, professionalID uuid.UUID,
	start time.Time,
	items []Item,
	finalPrice Money,
	note Note,
	now time.Time,
) (*Booking, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if start.Before(now) {
		return nil, ErrStartTimeInThePast
	}

	var total time.Duration
	for _, it := range items {
		total += it.duration
	}
	if total <= 0 {
		return nil, ErrZeroDurationBooking
	}

	tr, err := NewTimeRange(start, start.Add(total))
	if err != nil {
		return nil, err
	}

	price := finalPrice
	return &Booking{
		id:             uuid.New(),
		clientID:       clientID,
		professionalID: professionalID,
		timeRange:      tr,
		status:         StatusPending,
		items:          items,
		finalPrice:     &price,
		note:           note,
	}, nil
}

func Reconstruct(
	id, clientID, professionalID uuid.UUID,
	timeRange TimeRange,
	status Status,
	items []Item,
	finalPrice *Money,
	note Note,
	confirmedAt, canceledAt *time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:             id,
		clientID:       clientID,
		professionalID: professionalID,
		timeRange:      timeRange,
		status:         status,
		items:          items,
		finalPrice:     finalPrice,
		note:           note,
		confirmedAt:    confirmedAt,
		canceledAt:     canceledAt,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Confirm is a professional-only transition.
func (b *Booking) Confirm(actingProfessionalID uuid.UUID, now time.Time) error {
	if b.professionalID != actingProfessionalID {
		return ErrNotOwnedByActor
	}
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return b.transitionError(StatusConfirmed)
	}
	b.status = StatusConfirmed
	b.confirmedAt = &now
	return nil
}

// Cancel is allowed to the owning client or the owning professional,
// from PENDING or CONFIRMED only.
func (b *Booking) Cancel(actorID uuid.UUID, now time.Time) error {
	if b.clientID != actorID && b.professionalID != actorID {
		return ErrNotOwnedByActor
	}
	if !b.status.CanTransitionTo(StatusCanceled) {
		return b.transitionError(StatusCanceled)
	}
	b.status = StatusCanceled
	b.canceledAt = &now
	return nil
}

// Complete reports true when the transition actually fired, so the caller
// earns loyalty points exactly once; a repeat call on a COMPLETED booking
// is rejected rather than silently re-earning.
func (b *Booking) Complete(actingProfessionalID uuid.UUID) (bool, error) {
	if b.professionalID != actingProfessionalID {
		return false, ErrNotOwnedByActor
	}
	if b.status == StatusCompleted {
		return false, ErrAlreadyCompleted
	}
	if !b.status.CanTransitionTo(StatusCompleted) {
		return false, b.transitionError(StatusCompleted)
	}
	b.status = StatusCompleted
	return true, nil
}

func (b *Booking) transitionError(next Status) error {
	switch b.status {
	case StatusCanceled:
		return ErrAlreadyCanceled
	case StatusCompleted:
		if next == StatusCompleted {
			return ErrAlreadyCompleted
		}
		return ErrInvalidTransition
	default:
		return ErrInvalidTransition
	}
}

// ValidateSpan checks the stored range against the item durations;
// useful when reconstructing from storage.
func (b *Booking) ValidateSpan() error {
	var total time.Duration
	for _, it := range b.items {
		total += it.duration
	}
	if b.timeRange.Duration() != total {
		return ErrDurationMismatch
	}
	return nil
}

// BlocksCalendar reports whether this booking participates in overlap checks.
func (b *Booking) BlocksCalendar() bool {
	return b.status != StatusCanceled
}

func (b *Booking) ID() uuid.UUID             { return b.id }
func (b *Booking) ClientID() uuid.UUID       { return b.clientID }
func (b *Booking) ProfessionalID() uuid.UUID { return b.professionalID }
func (b *Booking) TimeRange() TimeRange      { return b.timeRange }
func (b *Booking) Status() Status            { return b.status }
func (b *Booking) Items() []Item             { return b.items }
func (b *Booking) FinalPrice() *Money        { return b.finalPrice }
func (b *Booking) Note() Note                { return b.note }
func (b *Booking) ConfirmedAt() *time.Time   { return b.confirmedAt }
func (b *Booking) CanceledAt() *time.Time    { return b.canceledAt }
func (b *Booking) CreatedAt() time.Time      { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time      { return b.updatedAt }
