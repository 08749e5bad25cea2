package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInactive          = errors.New("coupon is inactive")
	ErrNotYetValid       = errors.New("coupon is not yet valid")
	ErrExpired           = errors.New("coupon has expired")
	ErrExhausted         = errors.New("coupon usage limit reached")
	ErrScopeMismatch     = errors.New("coupon does not apply to this booking")
	ErrBelowMinimumValue = errors.New("booking value is below the coupon minimum")
	ErrNegativeValue     = errors.New("coupon value cannot be negative")
)

type Coupon struct {
	id             uuid.UUID
	code           Code
	couponType     Type
	value          int64
	scope          Scope
	serviceID      *uuid.UUID
	professionalID *uuid.UUID
	maxUses        *int32
	uses           int32
	startDate      time.Time
	endDate        *time.Time
	minValueCents  *int64
	active         bool
}

func New(
	id uuid.UUID,
	code Code,
	couponType Type,
	value int64,
	scope Scope,
	serviceID, professionalID *uuid.UUID,
	maxUses *int32,
	uses int32,
	startDate time.Time,
	endDate *time.Time,
	minValueCents *int64,
	active bool,
) (*Coupon, error) {
	if value < 0 {
		return nil, ErrNegativeValue
	}
	switch scope {
	case ScopeService:
		if serviceID == nil {
			return nil, ErrScopeTargetNeeded
		}
	case ScopeProfessional:
		if professionalID == nil {
			return nil, ErrScopeTargetNeeded
		}
	}

	return &Coupon{
		id:             id,
		code:           code,
		couponType:     couponType,
		value:          value,
		scope:          scope,
		serviceID:      serviceID,
		professionalID: professionalID,
		maxUses:        maxUses,
		uses:           uses,
		startDate:      startDate,
		endDate:        endDate,
		minValueCents:  minValueCents,
		active:         active,
	}, nil
}

// BookingContext is what a coupon is validated against.
type BookingContext struct {
	ProfessionalID uuid.UUID
	ServiceIDs     []uuid.UUID
	BaseCents      int64
}

// Validate runs the usage rules in a fixed order and stops at the first
// failure, so the caller can report the exact rule that rejected the coupon.
func (c *Coupon) Validate(now time.Time, bctx BookingContext) error {
	if !c.active {
		return ErrInactive
	}
	if now.Before(c.startDate) {
		return ErrNotYetValid
	}
	if c.endDate != nil && now.After(*c.endDate) {
		return ErrExpired
	}
	if c.maxUses != nil && c.uses >= *c.maxUses {
		return ErrExhausted
	}
	if !c.appliesTo(bctx) {
		return ErrScopeMismatch
	}
	if c.minValueCents != nil && bctx.BaseCents < *c.minValueCents {
		return ErrBelowMinimumValue
	}
	return nil
}

func (c *Coupon) appliesTo(bctx BookingContext) bool {
	switch c.scope {
	case ScopeGlobal:
		return true
	case ScopeProfessional:
		return c.professionalID != nil && *c.professionalID == bctx.ProfessionalID
	case ScopeService:
		if c.serviceID == nil {
			return false
		}
		for _, id := range bctx.ServiceIDs {
			if id == *c.serviceID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// DiscountCents computes the discount against the base total, never against
// an already discounted amount. The result is capped at the base.
func (c *Coupon) DiscountCents(baseCents int64) int64 {
	var discount int64
	switch c.couponType {
	case TypePercentage:
		discount = baseCents * c.value / 100
	case TypeFixed:
		discount = c.value
	case TypeFree:
		discount = baseCents
	}
	if discount > baseCents {
		discount = baseCents
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

func (c *Coupon) ID() uuid.UUID              { return c.id }
func (c *Coupon) Code() Code                 { return c.code }
func (c *Coupon) Type() Type                 { return c.couponType }
func (c *Coupon) Value() int64               { return c.value }
func (c *Coupon) Scope() Scope               { return c.scope }
func (c *Coupon) ServiceID() *uuid.UUID      { return c.serviceID }
func (c *Coupon) ProfessionalID() *uuid.UUID { return c.professionalID }
func (c *Coupon) MaxUses() *int32            { return c.maxUses }
func (c *Coupon) Uses() int32                { return c.uses }
func (c *Coupon) StartDate() time.Time       { return c.startDate }
func (c *Coupon) EndDate() *time.Time        { return c.endDate }
func (c *Coupon) MinValueCents() *int64      { return c.minValueCents }
func (c *Coupon) IsActive() bool             { return c.active }
