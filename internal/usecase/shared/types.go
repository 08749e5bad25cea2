package shared

import (
	"time"

	"github.com/google/uuid"
)

// Write-side snapshots keep command code off the read-side query types.

// ProfessionalSnapshot is the provider profile. Its ID doubles as the
// owning user's ID, so token subjects compare directly against booking
// ownership.
type ProfessionalSnapshot struct {
	ID        uuid.UUID
	Name      string
	Specialty string
	Active    bool
}

// OfferingSnapshot is a professional's price/duration for one catalog
// service, captured onto booking items at commit time.
type OfferingSnapshot struct {
	ID          uuid.UUID
	ServiceID   uuid.UUID
	ServiceName string
	PriceCents  int64
	DurationMin int32
	Active      bool
}

type CouponSnapshot struct {
	ID             uuid.UUID
	Code           string
	Type           string
	Value          int64
	Scope          string
	ServiceID      *uuid.UUID
	ProfessionalID *uuid.UUID
	MaxUses        *int32
	Uses           int32
	StartDate      time.Time
	EndDate        *time.Time
	MinValueCents  *int64
	Active         bool
}

type BusinessHoursSnapshot struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	DayOfWeek      int
	OpensAt        string
	ClosesAt       string
	BreakStart     *string
	BreakEnd       *string
	Active         bool
	UpdatedAt      time.Time
}

type HolidaySnapshot struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	Date           time.Time
	Reason         string
}

type BookingItemSnapshot struct {
	ID          uuid.UUID
	OfferingID  uuid.UUID
	ServiceID   uuid.UUID
	ServiceName string
	PriceCents  int64
	DurationMin int32
}

type BookingSnapshot struct {
	ID              uuid.UUID
	ClientID        uuid.UUID
	ProfessionalID  uuid.UUID
	StartTime       time.Time
	EndTime         time.Time
	Status          string
	FinalPriceCents *int64
	Note            string
	Items           []BookingItemSnapshot
	ConfirmedAt     *time.Time
	CanceledAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type BonusBalanceSnapshot struct {
	UserID    uuid.UUID
	PointType string
	Points    int64
	ExpiresAt time.Time
}
