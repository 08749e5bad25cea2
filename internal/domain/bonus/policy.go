package bonus

import (
	"errors"
	"time"
)

var (
	ErrInvalidEarnPercent = errors.New("earn percent must be between 0 and 100")
	ErrInvalidPointValue  = errors.New("point value must be positive")
	ErrInvalidExpiry      = errors.New("expiry months must be positive")
)

// PointType discriminates loyalty ledgers; bookings earn and spend
// BOOKING_POINTS.
type PointType string

const TypeBookingPoints PointType = "BOOKING_POINTS"

func (t PointType) String() string {
	return string(t)
}

// TransactionKind tags rows in the append-only bonus ledger.
type TransactionKind string

const (
	KindEarned   TransactionKind = "EARNED"
	KindRedeemed TransactionKind = "REDEEMED"
)

func (k TransactionKind) String() string {
	return string(k)
}

// Policy fixes the currency conversion and expiry rules for loyalty points.
// All three knobs come from configuration.
type Policy struct {
	earnPercent     int
	pointValueCents int64
	expiryMonths    int
}

func NewPolicy(earnPercent int, pointValueCents int64, expiryMonths int) (*Policy, error) {
	if earnPercent < 0 || earnPercent > 100 {
		return nil, ErrInvalidEarnPercent
	}
	if pointValueCents <= 0 {
		return nil, ErrInvalidPointValue
	}
	if expiryMonths <= 0 {
		return nil, ErrInvalidExpiry
	}
	return &Policy{
		earnPercent:     earnPercent,
		pointValueCents: pointValueCents,
		expiryMonths:    expiryMonths,
	}, nil
}

// PointsEarnedFor converts a paid amount into earned points, rounding down.
func (p *Policy) PointsEarnedFor(paidCents int64) int64 {
	if paidCents <= 0 {
		return 0
	}
	return paidCents * int64(p.earnPercent) / 100 / p.pointValueCents
}

// Redemption caps the spend so the discount never exceeds the amount still
// payable after the coupon discount. Returns points to spend and the
// resulting discount in cents.
func (p *Policy) Redemption(availablePoints, remainingCents int64) (points int64, discountCents int64) {
	if availablePoints <= 0 || remainingCents <= 0 {
		return 0, 0
	}
	maxPoints := remainingCents / p.pointValueCents
	points = availablePoints
	if points > maxPoints {
		points = maxPoints
	}
	return points, points * p.pointValueCents
}

// ExpiryFrom is the expiration applied on every earning write.
func (p *Policy) ExpiryFrom(now time.Time) time.Time {
	return now.AddDate(0, p.expiryMonths, 0)
}

func (p *Policy) EarnPercent() int         { return p.earnPercent }
func (p *Policy) PointValueCents() int64   { return p.pointValueCents }
func (p *Policy) ExpiryMonths() int        { return p.expiryMonths }

// Balance is a user's materialized point balance with its expiry. It is a
// projection of the transaction ledger, not the source of truth for history.
type Balance struct {
	Points    int64
	ExpiresAt time.Time
}

// IsValidAt reports whether the balance is still spendable.
func (b Balance) IsValidAt(now time.Time) bool {
	return b.Points > 0 && now.Before(b.ExpiresAt)
}
