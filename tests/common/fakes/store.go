//go:build unit || e2e

// Package fakes provides deterministic in-memory doubles for the storage
// contracts, so command flows are testable without a database.
package fakes

import (
	"sync"
	"time"

	"probook/internal/usecase/shared"

	"github.com/google/uuid"
)

type balanceKey struct {
	UserID    uuid.UUID
	PointType string
}

type hoursKey struct {
	ProfessionalID uuid.UUID
	DayOfWeek      int
}

type Redemption struct {
	CouponID      uuid.UUID
	UserID        uuid.UUID
	BookingID     uuid.UUID
	DiscountCents int64
}

type BonusTransaction struct {
	UserID      uuid.UUID
	PointType   string
	Kind        string
	Points      int64
	BookingID   *uuid.UUID
	Description string
	ExpiresAt   *time.Time
}

// Store is the shared backing state. Seed it directly in tests; all fake
// repositories and readers operate on the same instance.
type Store struct {
	mu sync.Mutex

	Professionals map[uuid.UUID]shared.ProfessionalSnapshot
	Offerings     map[uuid.UUID][]shared.OfferingSnapshot
	Coupons       map[string]shared.CouponSnapshot
	BusinessHours map[hoursKey][]shared.BusinessHoursSnapshot
	Holidays      map[uuid.UUID][]shared.HolidaySnapshot
	Bookings      map[uuid.UUID]*shared.BookingSnapshot
	Balances      map[balanceKey]shared.BonusBalanceSnapshot
	Redemptions   []Redemption
	Transactions  []BonusTransaction
}

func NewStore() *Store {
	return &Store{
		Professionals: make(map[uuid.UUID]shared.ProfessionalSnapshot),
		Offerings:     make(map[uuid.UUID][]shared.OfferingSnapshot),
		Coupons:       make(map[string]shared.CouponSnapshot),
		BusinessHours: make(map[hoursKey][]shared.BusinessHoursSnapshot),
		Holidays:      make(map[uuid.UUID][]shared.HolidaySnapshot),
		Bookings:      make(map[uuid.UUID]*shared.BookingSnapshot),
		Balances:      make(map[balanceKey]shared.BonusBalanceSnapshot),
	}
}

func (s *Store) SeedProfessional(p shared.ProfessionalSnapshot) {
	s.Professionals[p.ID] = p
}

func (s *Store) SeedOffering(professionalID uuid.UUID, o shared.OfferingSnapshot) {
	s.Offerings[professionalID] = append(s.Offerings[professionalID], o)
}

func (s *Store) SeedCoupon(c shared.CouponSnapshot) {
	s.Coupons[c.Code] = c
}

func (s *Store) SeedBusinessHours(h shared.BusinessHoursSnapshot) {
	k := hoursKey{ProfessionalID: h.ProfessionalID, DayOfWeek: h.DayOfWeek}
	s.BusinessHours[k] = append(s.BusinessHours[k], h)
}

func (s *Store) SeedHoliday(h shared.HolidaySnapshot) {
	s.Holidays[h.ProfessionalID] = append(s.Holidays[h.ProfessionalID], h)
}

func (s *Store) SeedBooking(b shared.BookingSnapshot) {
	s.Bookings[b.ID] = &b
}

func (s *Store) SeedBalance(userID uuid.UUID, pointType string, points int64, expiresAt time.Time) {
	s.Balances[balanceKey{UserID: userID, PointType: pointType}] = shared.BonusBalanceSnapshot{
		UserID:    userID,
		PointType: pointType,
		Points:    points,
		ExpiresAt: expiresAt,
	}
}

func (s *Store) Balance(userID uuid.UUID, pointType string) (shared.BonusBalanceSnapshot, bool) {
	b, ok := s.Balances[balanceKey{UserID: userID, PointType: pointType}]
	return b, ok
}

// snapshot deep-copies the mutable state so a failed transaction can roll
// back to it.
func (s *Store) snapshot() *Store {
	clone := NewStore()
	for k, v := range s.Professionals {
		clone.Professionals[k] = v
	}
	for k, v := range s.Offerings {
		clone.Offerings[k] = append([]shared.OfferingSnapshot(nil), v...)
	}
	for k, v := range s.Coupons {
		clone.Coupons[k] = v
	}
	for k, v := range s.BusinessHours {
		clone.BusinessHours[k] = append([]shared.BusinessHoursSnapshot(nil), v...)
	}
	for k, v := range s.Holidays {
		clone.Holidays[k] = append([]shared.HolidaySnapshot(nil), v...)
	}
	for k, v := range s.Bookings {
		b := *v
		b.Items = append([]shared.BookingItemSnapshot(nil), v.Items...)
		clone.Bookings[k] = &b
	}
	for k, v := range s.Balances {
		clone.Balances[k] = v
	}
	clone.Redemptions = append([]Redemption(nil), s.Redemptions...)
	clone.Transactions = append([]BonusTransaction(nil), s.Transactions...)
	return clone
}

func (s *Store) restore(from *Store) {
	s.Professionals = from.Professionals
	s.Offerings = from.Offerings
	s.Coupons = from.Coupons
	s.BusinessHours = from.BusinessHours
	s.Holidays = from.Holidays
	s.Bookings = from.Bookings
	s.Balances = from.Balances
	s.Redemptions = from.Redemptions
	s.Transactions = from.Transactions
}