package readstore

import (
	"context"
	"strings"

	"probook/internal/infra"
	"probook/internal/infra/db"
	"probook/internal/pkg/pgconv"
	"probook/internal/usecase/shared"
)

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(dbtx db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: dbtx}
}

const couponByCodeQuery = `
	SELECT id, code, type, value, scope, service_id, professional_id,
	       max_uses, uses, start_date, end_date, min_value_cents, active
	FROM coupons
	WHERE code = $1`

// FindByCode matches case-insensitively; codes are stored uppercased.
func (r *CouponReadStore) FindByCode(ctx context.Context, code string) (*shared.CouponSnapshot, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	var snap shared.CouponSnapshot
	err := r.db.QueryRow(ctx, couponByCodeQuery, normalized).Scan(
		&snap.ID, &snap.Code, &snap.Type, &snap.Value, &snap.Scope,
		&snap.ServiceID, &snap.ProfessionalID,
		&snap.MaxUses, &snap.Uses, &snap.StartDate, &snap.EndDate,
		&snap.MinValueCents, &snap.Active,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return &snap, nil
}
