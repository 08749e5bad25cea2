package readstore

import (
	"context"

	"probook/internal/infra"
	"probook/internal/infra/db"
	"probook/internal/pkg/pgconv"
	"probook/internal/usecase/shared"

	"github.com/google/uuid"
)

// CatalogReadStore resolves professionals and their service offerings.
type CatalogReadStore struct {
	db db.DBTX
}

func NewCatalogReadStore(dbtx db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: dbtx}
}

const professionalByIDQuery = `
	SELECT id, name, specialty, active
	FROM professionals
	WHERE id = $1`

func (r *CatalogReadStore) FindProfessionalByID(ctx context.Context, id uuid.UUID) (*shared.ProfessionalSnapshot, error) {
	var snap shared.ProfessionalSnapshot
	err := r.db.QueryRow(ctx, professionalByIDQuery, id).Scan(
		&snap.ID, &snap.Name, &snap.Specialty, &snap.Active,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("professional not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find professional", err)
	}
	return &snap, nil
}

const offeringsQuery = `
	SELECT o.id, o.service_id, s.name, o.price_cents, o.duration_min, o.active
	FROM offerings o
	JOIN services s ON s.id = o.service_id
	WHERE o.professional_id = $1
	  AND o.service_id = ANY($2)`

// FindOfferings returns the professional's offering for each requested
// service. A service the professional does not offer is reported as
// NotFound rather than silently skipped.
func (r *CatalogReadStore) FindOfferings(ctx context.Context, professionalID uuid.UUID, serviceIDs []uuid.UUID) ([]shared.OfferingSnapshot, error) {
	rows, err := r.db.Query(ctx, offeringsQuery, professionalID, serviceIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list offerings", err)
	}
	defer rows.Close()

	byService := make(map[uuid.UUID]shared.OfferingSnapshot, len(serviceIDs))
	for rows.Next() {
		var snap shared.OfferingSnapshot
		if err := rows.Scan(&snap.ID, &snap.ServiceID, &snap.ServiceName, &snap.PriceCents, &snap.DurationMin, &snap.Active); err != nil {
			return nil, infra.WrapRepoErr("failed to scan offering row", err)
		}
		byService[snap.ServiceID] = snap
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate offerings", err)
	}

	// Preserve request order so item snapshots line up with the input.
	result := make([]shared.OfferingSnapshot, 0, len(serviceIDs))
	for _, serviceID := range serviceIDs {
		snap, ok := byService[serviceID]
		if !ok {
			return nil, infra.WrapRepoErr("offering not found for service", nil, infra.KindNotFound)
		}
		result = append(result, snap)
	}
	return result, nil
}
