package queries

import (
	"context"

	"probook/internal/infra"
	"probook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrAccessDenied    = errs.New("booking does not belong to the caller")
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]*BookingListItem, error)
	FindByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*BookingListItem, error)
}

type BookingQueries interface {
	// GetByID enforces ownership: only the booking's client or professional
	// may read it.
	GetByID(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem bypasses the ownership check for internal read-after-write.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*BookingListItem, error)
	ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*BookingView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.ClientID != actorID && view.ProfessionalID != actorID {
		return nil, ErrAccessDenied
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*BookingListItem, error) {
	return q.store.FindByClient(ctx, clientID)
}

func (q *bookingQueriesImpl) ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*BookingListItem, error) {
	return q.store.FindByProfessional(ctx, professionalID)
}
