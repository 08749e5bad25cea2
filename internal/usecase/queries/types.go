package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type SlotView struct {
	Start        time.Time `json:"start"`
	Label        string    `json:"label"`
	Available    bool      `json:"available"`
	ClientName   string    `json:"client_name,omitempty"`
	ServiceNames []string  `json:"service_names,omitempty"`
}

type AvailabilityView struct {
	ProfessionalID uuid.UUID  `json:"professional_id"`
	Date           time.Time  `json:"date"`
	IsHoliday      bool       `json:"is_holiday"`
	HolidayReason  string     `json:"holiday_reason,omitempty"`
	IsClosed       bool       `json:"is_closed"`
	SlotWidthMin   int        `json:"slot_width_min"`
	Slots          []SlotView `json:"slots"`
}

type BookingItemView struct {
	ID          uuid.UUID `json:"id"`
	ServiceID   uuid.UUID `json:"service_id"`
	ServiceName string    `json:"service_name"`
	PriceCents  int64     `json:"price_cents"`
	DurationMin int32     `json:"duration_min"`
}

type BookingView struct {
	ID               uuid.UUID         `json:"id"`
	ClientID         uuid.UUID         `json:"client_id"`
	ClientName       string            `json:"client_name"`
	ProfessionalID   uuid.UUID         `json:"professional_id"`
	ProfessionalName string            `json:"professional_name"`
	StartTime        time.Time         `json:"start_time"`
	EndTime          time.Time         `json:"end_time"`
	Status           string            `json:"status"`
	FinalPriceCents  *int64            `json:"final_price_cents,omitempty"`
	CouponCode       *string           `json:"coupon_code,omitempty"`
	Note             *string           `json:"note,omitempty"`
	Items            []BookingItemView `json:"items"`
	ConfirmedAt      *time.Time        `json:"confirmed_at,omitempty"`
	CanceledAt       *time.Time        `json:"canceled_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type BookingListItem struct {
	ID               uuid.UUID `json:"id"`
	ProfessionalID   uuid.UUID `json:"professional_id"`
	ProfessionalName string    `json:"professional_name"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Status           string    `json:"status"`
	FinalPriceCents  *int64    `json:"final_price_cents,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// OccupancyView feeds the availability grid: an active booking on the date
// with whose name and which services it occupies the slot.
type OccupancyView struct {
	BookingID    uuid.UUID
	StartTime    time.Time
	ClientName   string
	ServiceNames []string
}
