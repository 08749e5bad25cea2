package repository

import (
	"context"

	"probook/internal/infra"
	"probook/internal/infra/db"
	"probook/internal/usecase/shared"

	"github.com/google/uuid"
)

type CouponRepository struct {
	db db.DBTX
}

func NewCouponRepository(dbtx db.DBTX) shared.CouponRepository {
	return &CouponRepository{db: dbtx}
}

// Redeem increments the usage counter only while it is still under the
// limit, in the same statement that guards it. Zero affected rows means a
// concurrent redemption exhausted the coupon first.
func (r *CouponRepository) Redeem(ctx context.Context, couponID, userID, bookingID uuid.UUID, discountCents int64) error {
	const increment = `
		UPDATE coupons
		SET uses = uses + 1
		WHERE id = $1
		  AND active
		  AND (max_uses IS NULL OR uses < max_uses)`

	tag, err := r.db.Exec(ctx, increment, couponID)
	if err != nil {
		return infra.WrapRepoErr("failed to increment coupon uses", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon usage limit reached", nil, infra.KindConflict)
	}

	const insertRedemption = `
		INSERT INTO coupon_redemptions (
			id, coupon_id, user_id, booking_id, discount_cents, redeemed_at
		)
		VALUES ($1, $2, $3, $4, $5, now())`

	_, err = r.db.Exec(ctx, insertRedemption, uuid.New(), couponID, userID, bookingID, discountCents)
	if err != nil {
		return infra.WrapRepoErr("failed to record coupon redemption", err)
	}
	return nil
}
