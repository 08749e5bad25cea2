package shared

import (
	"context"
	"time"

	"probook/internal/domain/booking"

	"github.com/google/uuid"
)

// UnitOfWork is the storage transaction boundary. Every cross-entity write
// of the booking engine runs inside Within; consistency comes from the
// storage layer, not in-memory locking.
type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: validation reads outside a transaction (price previews).
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Coupons() CouponRepository
	Bonus() BonusRepository
	Reads() CommandReads
}

// CommandReads is the read surface the commands validate against.
type CommandReads interface {
	ProfessionalByID(ctx context.Context, id uuid.UUID) (*ProfessionalSnapshot, error)
	// OfferingsFor resolves the professional's offering for each requested
	// service; a missing offering is a NotFound repository error.
	OfferingsFor(ctx context.Context, professionalID uuid.UUID, serviceIDs []uuid.UUID) ([]OfferingSnapshot, error)
	CouponByCode(ctx context.Context, code string) (*CouponSnapshot, error)
	// BusinessHoursFor returns the rule for the weekday; duplicates resolve
	// to the most recently updated row.
	BusinessHoursFor(ctx context.Context, professionalID uuid.UUID, dayOfWeek int) (*BusinessHoursSnapshot, error)
	HolidayOn(ctx context.Context, professionalID uuid.UUID, date time.Time) (*HolidaySnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	// ValidBonusBalance returns the non-expired balance; an expired or
	// absent row reads as zero.
	ValidBonusBalance(ctx context.Context, userID uuid.UUID, pointType string, now time.Time) (int64, error)
}

type BookingRepository interface {
	// FindOverlappingForUpdate locks the professional's active bookings
	// that intersect the half-open [start, end) candidate and returns the
	// first conflicting booking id, or nil. Must run inside the same
	// transaction as Create.
	FindOverlappingForUpdate(ctx context.Context, professionalID uuid.UUID, start, end time.Time) (*uuid.UUID, error)
	Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error)
	// UpdateStatus persists a status transition and its timestamps.
	UpdateStatus(ctx context.Context, b *booking.Booking) error
}

type CouponRepository interface {
	// Redeem records the redemption audit row and increments the coupon's
	// uses counter in one conditional statement; a concurrent exhaustion
	// surfaces as a Conflict repository error.
	Redeem(ctx context.Context, couponID, userID, bookingID uuid.UUID, discountCents int64) error
}

type BonusRepository interface {
	// Consume decrements the balance only when it still covers the amount;
	// zero affected rows surfaces as a Conflict repository error and the
	// enclosing transaction aborts.
	Consume(ctx context.Context, userID uuid.UUID, pointType string, points int64, now time.Time, bookingID uuid.UUID) error
	// Earn appends the ledger row and upserts the balance projection:
	// overwrite when expired, increment and extend otherwise.
	Earn(ctx context.Context, userID uuid.UUID, pointType string, points int64, bookingID uuid.UUID, description string, expiresAt, now time.Time) error
}
