package repository

import (
	"context"
	"errors"
	"time"

	"probook/internal/domain/booking"
	"probook/internal/infra"
	"probook/internal/infra/db"
	"probook/internal/pkg/pgconv"
	"probook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeExclusionViolation = "23P01"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) shared.BookingRepository {
	return &BookingRepository{db: dbtx}
}

// FindOverlappingForUpdate locks the professional's calendar rows that
// intersect the half-open [start, end) candidate. Canceled bookings do not
// block. The lock holds until the enclosing transaction ends, which closes
// the window between this check and the insert.
func (r *BookingRepository) FindOverlappingForUpdate(ctx context.Context, professionalID uuid.UUID, start, end time.Time) (*uuid.UUID, error) {
	const query = `
		SELECT id
		FROM bookings
		WHERE professional_id = $1
		  AND status <> 'CANCELED'
		  AND start_time < $3
		  AND $2 < end_time
		ORDER BY start_time
		LIMIT 1
		FOR UPDATE`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query, professionalID, start, end).Scan(&id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to check booking overlap", err)
	}
	return &id, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error) {
	const insertBooking = `
		INSERT INTO bookings (
			id, client_id, professional_id, start_time, end_time,
			status, final_price_cents, note, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING id`

	var priceCents *int64
	if price := b.FinalPrice(); price != nil {
		c := price.Cents()
		priceCents = &c
	}

	var id uuid.UUID
	err := r.db.QueryRow(ctx, insertBooking,
		b.ID(),
		b.ClientID(),
		b.ProfessionalID(),
		b.TimeRange().Start(),
		b.TimeRange().End(),
		b.Status().String(),
		priceCents,
		b.Note().String(),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgErrCodeUniqueViolation:
				return uuid.Nil, infra.WrapRepoErr("booking already exists", err, infra.KindDuplicateKey)
			case pgErrCodeExclusionViolation:
				// The calendar exclusion constraint backstops the overlap
				// check under concurrency.
				return uuid.Nil, infra.WrapRepoErr("booking overlaps an existing one", err, infra.KindConflict)
			}
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}

	const insertItem = `
		INSERT INTO booking_items (
			id, booking_id, offering_id, service_id, service_name,
			price_cents, duration_min
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, item := range b.Items() {
		_, err := r.db.Exec(ctx, insertItem,
			item.ID(),
			id,
			item.OfferingID(),
			item.ServiceID(),
			item.ServiceName(),
			item.PriceCents(),
			int32(item.Duration()/time.Minute),
		)
		if err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to create booking item", err)
		}
	}

	return id, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	const query = `
		UPDATE bookings
		SET status = $2,
		    confirmed_at = $3,
		    canceled_at = $4,
		    updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		b.ID(),
		b.Status().String(),
		pgconv.TimePtrToPgtype(b.ConfirmedAt()),
		pgconv.TimePtrToPgtype(b.CanceledAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}
