//go:build unit || e2e

package builder

import (
	"time"

	"probook/internal/usecase/shared"

	"github.com/google/uuid"
)

type ProfessionalBuilder struct {
	ID        uuid.UUID
	Name      string
	Specialty string
	Active    bool
}

func NewProfessionalBuilder() *ProfessionalBuilder {
	return &ProfessionalBuilder{
		ID:        uuid.New(),
		Name:      "Dr. Smith",
		Specialty: "dermatology",
		Active:    true,
	}
}

func (b *ProfessionalBuilder) With(mutate func(*ProfessionalBuilder)) *ProfessionalBuilder {
	mutate(b)
	return b
}

func (b *ProfessionalBuilder) Build() shared.ProfessionalSnapshot {
	return shared.ProfessionalSnapshot{
		ID:        b.ID,
		Name:      b.Name,
		Specialty: b.Specialty,
		Active:    b.Active,
	}
}

type OfferingBuilder struct {
	ID          uuid.UUID
	ServiceID   uuid.UUID
	ServiceName string
	PriceCents  int64
	DurationMin int32
	Active      bool
}

func NewOfferingBuilder() *OfferingBuilder {
	return &OfferingBuilder{
		ID:          uuid.New(),
		ServiceID:   uuid.New(),
		ServiceName: "Haircut",
		PriceCents:  5000,
		DurationMin: 30,
		Active:      true,
	}
}

func (b *OfferingBuilder) With(mutate func(*OfferingBuilder)) *OfferingBuilder {
	mutate(b)
	return b
}

func (b *OfferingBuilder) Build() shared.OfferingSnapshot {
	return shared.OfferingSnapshot{
		ID:          b.ID,
		ServiceID:   b.ServiceID,
		ServiceName: b.ServiceName,
		PriceCents:  b.PriceCents,
		DurationMin: b.DurationMin,
		Active:      b.Active,
	}
}

type CouponBuilder struct {
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

func NewCouponBuilder(now time.Time) *CouponBuilder {
	return &CouponBuilder{
		ID:        uuid.New(),
		Code:      "WELCOME10",
		Type:      "PERCENTAGE",
		Value:     10,
		Scope:     "GLOBAL",
		StartDate: now.Add(-24 * time.Hour),
		Active:    true,
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) Build() shared.CouponSnapshot {
	return shared.CouponSnapshot{
		ID:             b.ID,
		Code:           b.Code,
		Type:           b.Type,
		Value:          b.Value,
		Scope:          b.Scope,
		ServiceID:      b.ServiceID,
		ProfessionalID: b.ProfessionalID,
		MaxUses:        b.MaxUses,
		Uses:           b.Uses,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		MinValueCents:  b.MinValueCents,
		Active:         b.Active,
	}
}

type BusinessHoursBuilder struct {
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

func NewBusinessHoursBuilder(professionalID uuid.UUID, dayOfWeek int) *BusinessHoursBuilder {
	return &BusinessHoursBuilder{
		ID:             uuid.New(),
		ProfessionalID: professionalID,
		DayOfWeek:      dayOfWeek,
		OpensAt:        "09:00",
		ClosesAt:       "18:00",
		Active:         true,
		UpdatedAt:      time.Now(),
	}
}

func (b *BusinessHoursBuilder) With(mutate func(*BusinessHoursBuilder)) *BusinessHoursBuilder {
	mutate(b)
	return b
}

func (b *BusinessHoursBuilder) Build() shared.BusinessHoursSnapshot {
	return shared.BusinessHoursSnapshot{
		ID:             b.ID,
		ProfessionalID: b.ProfessionalID,
		DayOfWeek:      b.DayOfWeek,
		OpensAt:        b.OpensAt,
		ClosesAt:       b.ClosesAt,
		BreakStart:     b.BreakStart,
		BreakEnd:       b.BreakEnd,
		Active:         b.Active,
		UpdatedAt:      b.UpdatedAt,
	}
}
