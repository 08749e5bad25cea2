//go:build unit || e2e

package fakes

import (
	"context"
	"sort"
	"time"

	"probook/internal/domain/booking"
	"probook/internal/infra"
	"probook/internal/usecase/shared"

	"github.com/google/uuid"
)

// UnitOfWork runs the callback against the shared Store and rolls every
// write back when the callback fails, mirroring the transactional
// all-or-nothing contract.
type UnitOfWork struct {
	Store *Store
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{Store: store}
}

func (u *UnitOfWork) Within(_ context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.Store.mu.Lock()
	defer u.Store.mu.Unlock()

	before := u.Store.snapshot()
	tx := &fakeTx{store: u.Store}
	if err := fn(context.Background(), tx); err != nil {
		u.Store.restore(before)
		return err
	}
	return nil
}

func (u *UnitOfWork) CommandReads() shared.CommandReads {
	return &Reads{Store: u.Store}
}

type fakeTx struct {
	store *Store
}

func (t *fakeTx) Bookings() shared.BookingRepository { return &BookingRepo{Store: t.store} }
func (t *fakeTx) Coupons() shared.CouponRepository   { return &CouponRepo{Store: t.store} }
func (t *fakeTx) Bonus() shared.BonusRepository      { return &BonusRepo{Store: t.store} }
func (t *fakeTx) Reads() shared.CommandReads         { return &Reads{Store: t.store} }

// Reads implements the command-side validation reads over the Store.
type Reads struct {
	Store *Store
}

func (r *Reads) ProfessionalByID(_ context.Context, id uuid.UUID) (*shared.ProfessionalSnapshot, error) {
	p, ok := r.Store.Professionals[id]
	if !ok {
		return nil, infra.WrapRepoErr("professional not found", nil, infra.KindNotFound)
	}
	return &p, nil
}

func (r *Reads) OfferingsFor(_ context.Context, professionalID uuid.UUID, serviceIDs []uuid.UUID) ([]shared.OfferingSnapshot, error) {
	byService := make(map[uuid.UUID]shared.OfferingSnapshot)
	for _, o := range r.Store.Offerings[professionalID] {
		byService[o.ServiceID] = o
	}

	result := make([]shared.OfferingSnapshot, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		o, ok := byService[id]
		if !ok {
			return nil, infra.WrapRepoErr("offering not found for service", nil, infra.KindNotFound)
		}
		result = append(result, o)
	}
	return result, nil
}

func (r *Reads) CouponByCode(_ context.Context, code string) (*shared.CouponSnapshot, error) {
	c, ok := r.Store.Coupons[code]
	if !ok {
		return nil, infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return &c, nil
}

func (r *Reads) BusinessHoursFor(_ context.Context, professionalID uuid.UUID, dayOfWeek int) (*shared.BusinessHoursSnapshot, error) {
	rows := r.Store.BusinessHours[hoursKey{ProfessionalID: professionalID, DayOfWeek: dayOfWeek}]
	if len(rows) == 0 {
		return nil, infra.WrapRepoErr("business hours not found", nil, infra.KindNotFound)
	}

	sorted := append([]shared.BusinessHoursSnapshot(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].UpdatedAt.Equal(sorted[j].UpdatedAt) {
			return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
		}
		return sorted[i].ID.String() > sorted[j].ID.String()
	})
	return &sorted[0], nil
}

func (r *Reads) HolidayOn(_ context.Context, professionalID uuid.UUID, date time.Time) (*shared.HolidaySnapshot, error) {
	for _, h := range r.Store.Holidays[professionalID] {
		hy, hm, hd := h.Date.Date()
		dy, dm, dd := date.Date()
		if hy == dy && hm == dm && hd == dd {
			return &h, nil
		}
	}
	return nil, infra.WrapRepoErr("holiday not found", nil, infra.KindNotFound)
}

func (r *Reads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	b, ok := r.Store.Bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	snap := *b
	snap.Items = append([]shared.BookingItemSnapshot(nil), b.Items...)
	return &snap, nil
}

func (r *Reads) ValidBonusBalance(_ context.Context, userID uuid.UUID, pointType string, now time.Time) (int64, error) {
	b, ok := r.Store.Balance(userID, pointType)
	if !ok || !b.ExpiresAt.After(now) {
		return 0, nil
	}
	return b.Points, nil
}

// BookingRepo is the write side over the Store.
type BookingRepo struct {
	Store *Store
}

func (r *BookingRepo) FindOverlappingForUpdate(_ context.Context, professionalID uuid.UUID, start, end time.Time) (*uuid.UUID, error) {
	var conflict *shared.BookingSnapshot
	for _, b := range r.Store.Bookings {
		if b.ProfessionalID != professionalID || b.Status == "CANCELED" {
			continue
		}
		if b.StartTime.Before(end) && start.Before(b.EndTime) {
			if conflict == nil || b.StartTime.Before(conflict.StartTime) {
				conflict = b
			}
		}
	}
	if conflict == nil {
		return nil, nil
	}
	id := conflict.ID
	return &id, nil
}

func (r *BookingRepo) Create(_ context.Context, b *booking.Booking) (uuid.UUID, error) {
	snap := shared.BookingSnapshot{
		ID:             b.ID(),
		ClientID:       b.ClientID(),
		ProfessionalID: b.ProfessionalID(),
		StartTime:      b.TimeRange().Start(),
		EndTime:        b.TimeRange().End(),
		Status:         b.Status().String(),
		Note:           b.Note().String(),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if price := b.FinalPrice(); price != nil {
		c := price.Cents()
		snap.FinalPriceCents = &c
	}
	for _, item := range b.Items() {
		snap.Items = append(snap.Items, shared.BookingItemSnapshot{
			ID:          item.ID(),
			OfferingID:  item.OfferingID(),
			ServiceID:   item.ServiceID(),
			ServiceName: item.ServiceName(),
			PriceCents:  item.PriceCents(),
			DurationMin: int32(item.Duration().Minutes()),
		})
	}
	r.Store.Bookings[snap.ID] = &snap
	return snap.ID, nil
}

func (r *BookingRepo) UpdateStatus(_ context.Context, b *booking.Booking) error {
	snap, ok := r.Store.Bookings[b.ID()]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	snap.Status = b.Status().String()
	snap.ConfirmedAt = b.ConfirmedAt()
	snap.CanceledAt = b.CanceledAt()
	snap.UpdatedAt = time.Now()
	return nil
}

type CouponRepo struct {
	Store *Store
}

func (r *CouponRepo) Redeem(_ context.Context, couponID, userID, bookingID uuid.UUID, discountCents int64) error {
	for code, c := range r.Store.Coupons {
		if c.ID != couponID {
			continue
		}
		if !c.Active || (c.MaxUses != nil && c.Uses >= *c.MaxUses) {
			return infra.WrapRepoErr("coupon usage limit reached", nil, infra.KindConflict)
		}
		c.Uses++
		r.Store.Coupons[code] = c
		r.Store.Redemptions = append(r.Store.Redemptions, Redemption{
			CouponID:      couponID,
			UserID:        userID,
			BookingID:     bookingID,
			DiscountCents: discountCents,
		})
		return nil
	}
	return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
}

type BonusRepo struct {
	Store *Store
}

func (r *BonusRepo) Consume(_ context.Context, userID uuid.UUID, pointType string, points int64, now time.Time, bookingID uuid.UUID) error {
	k := balanceKey{UserID: userID, PointType: pointType}
	b, ok := r.Store.Balances[k]
	if !ok || b.Points < points || !b.ExpiresAt.After(now) {
		return infra.WrapRepoErr("insufficient bonus balance", nil, infra.KindConflict)
	}
	b.Points -= points
	r.Store.Balances[k] = b

	id := bookingID
	r.Store.Transactions = append(r.Store.Transactions, BonusTransaction{
		UserID:    userID,
		PointType: pointType,
		Kind:      "REDEEMED",
		Points:    -points,
		BookingID: &id,
	})
	return nil
}

func (r *BonusRepo) Earn(_ context.Context, userID uuid.UUID, pointType string, points int64, bookingID uuid.UUID, description string, expiresAt, now time.Time) error {
	k := balanceKey{UserID: userID, PointType: pointType}
	b, ok := r.Store.Balances[k]
	if !ok || !b.ExpiresAt.After(now) {
		b = shared.BonusBalanceSnapshot{UserID: userID, PointType: pointType}
		b.Points = points
	} else {
		b.Points += points
	}
	b.ExpiresAt = expiresAt
	r.Store.Balances[k] = b

	id := bookingID
	exp := expiresAt
	r.Store.Transactions = append(r.Store.Transactions, BonusTransaction{
		UserID:      userID,
		PointType:   pointType,
		Kind:        "EARNED",
		Points:      points,
		BookingID:   &id,
		Description: description,
		ExpiresAt:   &exp,
	})
	return nil
}