package readstore

import (
	"context"
	"time"

	"probook/internal/infra"
	"probook/internal/infra/db"
	"probook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type BonusReadStore struct {
	db db.DBTX
}

func NewBonusReadStore(dbtx db.DBTX) *BonusReadStore {
	return &BonusReadStore{db: dbtx}
}

const validBalanceQuery = `
	SELECT points
	FROM bonus_balances
	WHERE user_id = $1
	  AND point_type = $2
	  AND expires_at > $3`

// ValidBalance reads the non-expired balance. An expired or absent row is
// a zero balance, not an error.
func (r *BonusReadStore) ValidBalance(ctx context.Context, userID uuid.UUID, pointType string, now time.Time) (int64, error) {
	var points int64
	err := r.db.QueryRow(ctx, validBalanceQuery, userID, pointType, now).Scan(&points)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, nil
		}
		return 0, infra.WrapRepoErr("failed to read bonus balance", err)
	}
	return points, nil
}
