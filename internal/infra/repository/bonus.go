package repository

import (
	"context"
	"time"

	"probook/internal/domain/bonus"
	"probook/internal/infra"
	"probook/internal/infra/db"
	"probook/internal/usecase/shared"

	"github.com/google/uuid"
)

type BonusRepository struct {
	db db.DBTX
}

func NewBonusRepository(dbtx db.DBTX) shared.BonusRepository {
	return &BonusRepository{db: dbtx}
}

// Consume decrements the balance only while it still covers the amount and
// has not expired. Zero affected rows means a concurrent spend or an expiry
// got there first; the caller aborts the transaction.
func (r *BonusRepository) Consume(ctx context.Context, userID uuid.UUID, pointType string, points int64, now time.Time, bookingID uuid.UUID) error {
	const decrement = `
		UPDATE bonus_balances
		SET points = points - $3,
		    updated_at = now()
		WHERE user_id = $1
		  AND point_type = $2
		  AND points >= $3
		  AND expires_at > $4`

	tag, err := r.db.Exec(ctx, decrement, userID, pointType, points, now)
	if err != nil {
		return infra.WrapRepoErr("failed to consume bonus points", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insufficient bonus balance", nil, infra.KindConflict)
	}

	return r.appendTransaction(ctx, userID, pointType, bonus.KindRedeemed, -points, &bookingID, "Points redeemed on booking", nil)
}

// Earn appends the ledger row and upserts the balance projection. An
// expired balance is overwritten rather than extended; a live one is
// incremented and its expiry pushed out.
func (r *BonusRepository) Earn(ctx context.Context, userID uuid.UUID, pointType string, points int64, bookingID uuid.UUID, description string, expiresAt, now time.Time) error {
	const upsert = `
		INSERT INTO bonus_balances (user_id, point_type, points, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id, point_type) DO UPDATE
		SET points = CASE
				WHEN bonus_balances.expires_at <= $5 THEN EXCLUDED.points
				ELSE bonus_balances.points + EXCLUDED.points
			END,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = now()`

	_, err := r.db.Exec(ctx, upsert, userID, pointType, points, expiresAt, now)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert bonus balance", err)
	}

	return r.appendTransaction(ctx, userID, pointType, bonus.KindEarned, points, &bookingID, description, &expiresAt)
}

func (r *BonusRepository) appendTransaction(ctx context.Context, userID uuid.UUID, pointType string, kind bonus.TransactionKind, points int64, bookingID *uuid.UUID, description string, expiresAt *time.Time) error {
	const insert = `
		INSERT INTO bonus_transactions (
			id, user_id, point_type, kind, points, booking_id,
			description, expires_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`

	_, err := r.db.Exec(ctx, insert, uuid.New(), userID, pointType, kind.String(), points, bookingID, description, expiresAt)
	if err != nil {
		return infra.WrapRepoErr("failed to append bonus transaction", err)
	}
	return nil
}
