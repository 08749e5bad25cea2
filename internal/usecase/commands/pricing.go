package commands

import (
	"context"
	"time"

	"probook/internal/domain/bonus"
	"probook/internal/domain/coupon"
	"probook/internal/infra"
	"probook/internal/pkg/clock"
	"probook/internal/pkg/errs"
	"probook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrNoServicesRequested  = errs.New("at least one service is required")
	ErrProfessionalNotFound = errs.New("professional not found")
	ErrProfessionalInactive = errs.New("professional is not active")
	ErrServiceNotOffered    = errs.New("service is not offered by this professional")
	ErrCouponNotFound       = errs.New("coupon not found")
	ErrInvalidCoupon        = errs.New("invalid coupon")
	ErrPricingFailed        = errs.New("failed to compute price")
)

type PriceRequest struct {
	ClientID       uuid.UUID
	ProfessionalID uuid.UUID
	ServiceIDs     []uuid.UUID
	CouponCode     *string
	RedeemPoints   bool
}

// PriceQuote is the itemized result. The coupon discount is computed
// against the base, the bonus discount against the post-coupon remainder,
// and the total never goes negative.
type PriceQuote struct {
	BaseCents           int64
	CouponDiscountCents int64
	BonusDiscountCents  int64
	TotalCents          int64
	Duration            time.Duration
	PointsToSpend       int64
	CouponID            *uuid.UUID
	Offerings           []shared.OfferingSnapshot
}

// PricingEngine previews the charge for a requested service set. A preview
// performs no writes; point deduction and coupon redemption happen only in
// the booking creation transaction.
type PricingEngine interface {
	Preview(ctx context.Context, req PriceRequest) (*PriceQuote, error)
}

type pricingEngineImpl struct {
	uow    shared.UnitOfWork
	policy *bonus.Policy
	clock  clock.Clock
}

func NewPricingEngine(uow shared.UnitOfWork, policy *bonus.Policy, clock clock.Clock) PricingEngine {
	return &pricingEngineImpl{
		uow:    uow,
		policy: policy,
		clock:  clock,
	}
}

func (p *pricingEngineImpl) Preview(ctx context.Context, req PriceRequest) (*PriceQuote, error) {
	return quote(ctx, p.uow.CommandReads(), p.policy, p.clock.Now(), req)
}

// quote is shared between the preview path and the creation transaction,
// which re-runs it against transactional reads so a stale preview can never
// fix the charge.
func quote(ctx context.Context, reads shared.CommandReads, policy *bonus.Policy, now time.Time, req PriceRequest) (*PriceQuote, error) {
	if len(req.ServiceIDs) == 0 {
		return nil, ErrNoServicesRequested
	}

	prof, err := reads.ProfessionalByID(ctx, req.ProfessionalID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProfessionalNotFound
		}
		return nil, errs.Mark(err, ErrPricingFailed)
	}
	if !prof.Active {
		return nil, ErrProfessionalInactive
	}

	offerings, err := reads.OfferingsFor(ctx, req.ProfessionalID, req.ServiceIDs)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotOffered
		}
		return nil, errs.Mark(err, ErrPricingFailed)
	}
	if len(offerings) != len(req.ServiceIDs) {
		return nil, ErrServiceNotOffered
	}

	var baseCents int64
	var durationMin int32
	for _, o := range offerings {
		if !o.Active {
			return nil, ErrServiceNotOffered
		}
		baseCents += o.PriceCents
		durationMin += o.DurationMin
	}

	q := &PriceQuote{
		BaseCents: baseCents,
		Duration:  time.Duration(durationMin) * time.Minute,
		Offerings: offerings,
	}

	if req.CouponCode != nil {
		couponEntity, err := loadCoupon(ctx, reads, *req.CouponCode)
		if err != nil {
			return nil, err
		}

		bctx := coupon.BookingContext{
			ProfessionalID: req.ProfessionalID,
			ServiceIDs:     req.ServiceIDs,
			BaseCents:      baseCents,
		}
		if err := couponEntity.Validate(now, bctx); err != nil {
			return nil, errs.Mark(err, ErrInvalidCoupon)
		}

		q.CouponDiscountCents = couponEntity.DiscountCents(baseCents)
		id := couponEntity.ID()
		q.CouponID = &id
	}

	remaining := baseCents - q.CouponDiscountCents
	if remaining < 0 {
		remaining = 0
	}

	if req.RedeemPoints {
		available, err := reads.ValidBonusBalance(ctx, req.ClientID, bonus.TypeBookingPoints.String(), now)
		if err != nil {
			return nil, errs.Mark(err, ErrPricingFailed)
		}
		q.PointsToSpend, q.BonusDiscountCents = policy.Redemption(available, remaining)
	}

	q.TotalCents = remaining - q.BonusDiscountCents
	if q.TotalCents < 0 {
		q.TotalCents = 0
	}
	return q, nil
}

func loadCoupon(ctx context.Context, reads shared.CommandReads, code string) (*coupon.Coupon, error) {
	normalized, err := coupon.NewCode(code)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}

	snap, err := reads.CouponByCode(ctx, normalized.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Mark(err, ErrPricingFailed)
	}

	return couponFromSnapshot(snap)
}

func couponFromSnapshot(snap *shared.CouponSnapshot) (*coupon.Coupon, error) {
	code, err := coupon.NewCode(snap.Code)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}
	couponType, err := coupon.NewType(snap.Type)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}
	scope, err := coupon.NewScope(snap.Scope)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}

	entity, err := coupon.New(
		snap.ID,
		code,
		couponType,
		snap.Value,
		scope,
		snap.ServiceID,
		snap.ProfessionalID,
		snap.MaxUses,
		snap.Uses,
		snap.StartDate,
		snap.EndDate,
		snap.MinValueCents,
		snap.Active,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}
	return entity, nil
}
