package readstore

import (
	"context"
	"time"

	"probook/internal/infra"
	"probook/internal/infra/db"
	"probook/internal/pkg/pgconv"
	"probook/internal/usecase/queries"
	"probook/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const bookingByIDQuery = `
	SELECT b.id, b.client_id, cu.name, b.professional_id, p.name,
	       b.start_time, b.end_time, b.status, b.final_price_cents,
	       cp.code, b.note, b.confirmed_at, b.canceled_at,
	       b.created_at, b.updated_at
	FROM bookings b
	JOIN users cu ON cu.id = b.client_id
	JOIN professionals p ON p.id = b.professional_id
	LEFT JOIN coupon_redemptions cr ON cr.booking_id = b.id
	LEFT JOIN coupons cp ON cp.id = cr.coupon_id
	WHERE b.id = $1`

const bookingItemsQuery = `
	SELECT id, service_id, service_name, price_cents, duration_min
	FROM booking_items
	WHERE booking_id = $1
	ORDER BY service_name, id`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		view queries.BookingView
		note string
	)
	err := r.db.QueryRow(ctx, bookingByIDQuery, id).Scan(
		&view.ID, &view.ClientID, &view.ClientName,
		&view.ProfessionalID, &view.ProfessionalName,
		&view.StartTime, &view.EndTime, &view.Status, &view.FinalPriceCents,
		&view.CouponCode, &note, &view.ConfirmedAt, &view.CanceledAt,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	if note != "" {
		view.Note = &note
	}

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}
	view.Items = items
	return &view, nil
}

func (r *BookingReadStore) findItems(ctx context.Context, bookingID uuid.UUID) ([]queries.BookingItemView, error) {
	rows, err := r.db.Query(ctx, bookingItemsQuery, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking items", err)
	}
	defer rows.Close()

	var items []queries.BookingItemView
	for rows.Next() {
		var item queries.BookingItemView
		if err := rows.Scan(&item.ID, &item.ServiceID, &item.ServiceName, &item.PriceCents, &item.DurationMin); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking items", err)
	}
	return items, nil
}

const bookingListByClientQuery = `
	SELECT b.id, b.professional_id, p.name, b.start_time, b.end_time,
	       b.status, b.final_price_cents, b.created_at
	FROM bookings b
	JOIN professionals p ON p.id = b.professional_id
	WHERE b.client_id = $1
	ORDER BY b.start_time DESC`

const bookingListByProfessionalQuery = `
	SELECT b.id, b.professional_id, p.name, b.start_time, b.end_time,
	       b.status, b.final_price_cents, b.created_at
	FROM bookings b
	JOIN professionals p ON p.id = b.professional_id
	WHERE b.professional_id = $1
	ORDER BY b.start_time DESC`

func (r *BookingReadStore) FindByClient(ctx context.Context, clientID uuid.UUID) ([]*queries.BookingListItem, error) {
	return r.list(ctx, bookingListByClientQuery, clientID)
}

func (r *BookingReadStore) FindByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*queries.BookingListItem, error) {
	return r.list(ctx, bookingListByProfessionalQuery, professionalID)
}

func (r *BookingReadStore) list(ctx context.Context, query string, ownerID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(
			&item.ID, &item.ProfessionalID, &item.ProfessionalName,
			&item.StartTime, &item.EndTime, &item.Status,
			&item.FinalPriceCents, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return result, nil
}

const bookingSnapshotQuery = `
	SELECT id, client_id, professional_id, start_time, end_time, status,
	       final_price_cents, note, confirmed_at, canceled_at,
	       created_at, updated_at
	FROM bookings
	WHERE id = $1`

const bookingItemSnapshotQuery = `
	SELECT id, offering_id, service_id, service_name, price_cents, duration_min
	FROM booking_items
	WHERE booking_id = $1
	ORDER BY id`

// SnapshotByID is the write-side read used to rebuild the aggregate for a
// status transition.
func (r *BookingReadStore) SnapshotByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var snap shared.BookingSnapshot
	err := r.db.QueryRow(ctx, bookingSnapshotQuery, id).Scan(
		&snap.ID, &snap.ClientID, &snap.ProfessionalID,
		&snap.StartTime, &snap.EndTime, &snap.Status,
		&snap.FinalPriceCents, &snap.Note, &snap.ConfirmedAt, &snap.CanceledAt,
		&snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	rows, err := r.db.Query(ctx, bookingItemSnapshotQuery, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item shared.BookingItemSnapshot
		if err := rows.Scan(&item.ID, &item.OfferingID, &item.ServiceID, &item.ServiceName, &item.PriceCents, &item.DurationMin); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking item", err)
		}
		snap.Items = append(snap.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking items", err)
	}
	return &snap, nil
}

const occupanciesQuery = `
	SELECT b.id, b.start_time, cu.name,
	       COALESCE(array_agg(bi.service_name ORDER BY bi.service_name), '{}')
	FROM bookings b
	JOIN users cu ON cu.id = b.client_id
	LEFT JOIN booking_items bi ON bi.booking_id = b.id
	WHERE b.professional_id = $1
	  AND b.status <> 'CANCELED'
	  AND b.start_time >= $2
	  AND b.start_time < $3
	GROUP BY b.id, b.start_time, cu.name
	ORDER BY b.start_time`

// OccupanciesOn lists the active bookings whose start falls on the local
// calendar day of date.
func (r *BookingReadStore) OccupanciesOn(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]queries.OccupancyView, error) {
	y, m, d := date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := r.db.Query(ctx, occupanciesQuery, professionalID, dayStart, dayEnd)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list occupancies", err)
	}
	defer rows.Close()

	var result []queries.OccupancyView
	for rows.Next() {
		var occ queries.OccupancyView
		if err := rows.Scan(&occ.BookingID, &occ.StartTime, &occ.ClientName, &occ.ServiceNames); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupancy row", err)
		}
		result = append(result, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate occupancies", err)
	}
	return result, nil
}
