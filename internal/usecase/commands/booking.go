package commands

import (
	"context"
	"fmt"
	"time"

	"probook/internal/domain/bonus"
	"probook/internal/domain/booking"
	"probook/internal/domain/schedule"
	"probook/internal/infra"
	"probook/internal/pkg/clock"
	"probook/internal/pkg/errs"
	"probook/internal/usecase/queries"
	"probook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrHolidayClosed           = errs.New("professional is closed for a holiday")
	ErrOutOfBusinessHours      = errs.New("requested time is outside business hours")
	ErrBookingConflict         = errs.New("time slot is no longer available")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrNotOwner                = errs.New("booking does not belong to the acting party")
	ErrInvalidTransition       = errs.New("booking status does not allow this transition")
	ErrInsufficientPoints      = errs.New("insufficient bonus points")
	ErrCouponExhausted         = errs.New("coupon usage limit reached")
	ErrInvalidStartTime        = errs.New("invalid start time")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type CreateBookingParams struct {
	ClientID       uuid.UUID
	ProfessionalID uuid.UUID
	StartTime      time.Time
	ServiceIDs     []uuid.UUID
	CouponCode     *string
	RedeemPoints   bool
	Note           string
}

type CreateBookingResult struct {
	Booking *queries.BookingView
	Quote   *PriceQuote
}

type BookingCommands interface {
	// Create runs the whole creation pipeline as one transaction: calendar
	// validation, overlap check, authoritative pricing, persistence, coupon
	// redemption and point consumption. Any failure leaves nothing behind.
	Create(ctx context.Context, params CreateBookingParams) (*CreateBookingResult, error)
	Confirm(ctx context.Context, bookingID, actingProfessionalID uuid.UUID) (*queries.BookingView, error)
	Cancel(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error)
	Complete(ctx context.Context, bookingID, actingProfessionalID uuid.UUID) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	bookingQueries queries.BookingQueries
	policy         *bonus.Policy
	clock          clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	bookingQueries queries.BookingQueries,
	policy *bonus.Policy,
	clock clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		bookingQueries: bookingQueries,
		policy:         policy,
		clock:          clock,
	}
}

func (c *bookingCommandsImpl) Create(ctx context.Context, params CreateBookingParams) (*CreateBookingResult, error) {
	now := c.clock.Now()
	if !params.StartTime.After(now) {
		return nil, ErrInvalidStartTime
	}

	var bookingID uuid.UUID
	var priceQuote *PriceQuote

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reads := tx.Reads()

		// Authoritative pricing against transactional reads; previews are
		// advisory only.
		q, err := quote(ctx, reads, c.policy, now, PriceRequest{
			ClientID:       params.ClientID,
			ProfessionalID: params.ProfessionalID,
			ServiceIDs:     params.ServiceIDs,
			CouponCode:     params.CouponCode,
			RedeemPoints:   params.RedeemPoints,
		})
		if err != nil {
			return err
		}
		priceQuote = q

		end := params.StartTime.Add(q.Duration)
		if err := c.validateCalendar(ctx, reads, params.ProfessionalID, params.StartTime, end); err != nil {
			return err
		}

		// Overlap check and insert share this transaction; the row lock
		// closes the check-then-insert race.
		conflictID, err := tx.Bookings().FindOverlappingForUpdate(ctx, params.ProfessionalID, params.StartTime, end)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if conflictID != nil {
			return ErrBookingConflict
		}

		items := make([]booking.Item, 0, len(q.Offerings))
		for _, o := range q.Offerings {
			item, err := booking.NewItem(o.ID, o.ServiceID, o.ServiceName, o.PriceCents, time.Duration(o.DurationMin)*time.Minute)
			if err != nil {
				return errs.Mark(err, ErrDomainValidation)
			}
			items = append(items, item)
		}

		finalPrice, err := booking.NewMoney(q.TotalCents)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		entity, err := booking.NewBooking(
			params.ClientID,
			params.ProfessionalID,
			params.StartTime,
			items,
			finalPrice,
			booking.NewNote(params.Note),
			now,
		)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		id, err := tx.Bookings().Create(ctx, entity)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrBookingConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		bookingID = id

		// A booking must never carry a coupon discount that was not
		// actually reserved; a concurrent exhaustion aborts everything.
		if q.CouponID != nil {
			if err := tx.Coupons().Redeem(ctx, *q.CouponID, params.ClientID, id, q.CouponDiscountCents); err != nil {
				if infra.IsKind(err, infra.KindConflict) {
					return errs.Mark(ErrCouponExhausted, ErrInvalidCoupon)
				}
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		if q.PointsToSpend > 0 {
			if err := tx.Bonus().Consume(ctx, params.ClientID, bonus.TypeBookingPoints.String(), q.PointsToSpend, now, id); err != nil {
				if infra.IsKind(err, infra.KindConflict) {
					return ErrInsufficientPoints
				}
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := c.bookingQueries.GetByIDSystem(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &CreateBookingResult{Booking: view, Quote: priceQuote}, nil
}

func (c *bookingCommandsImpl) Confirm(ctx context.Context, bookingID, actingProfessionalID uuid.UUID) (*queries.BookingView, error) {
	return c.transition(ctx, bookingID, func(b *booking.Booking, now time.Time) error {
		return b.Confirm(actingProfessionalID, now)
	})
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error) {
	return c.transition(ctx, bookingID, func(b *booking.Booking, now time.Time) error {
		return b.Cancel(actorID, now)
	})
}

// Complete marks the booking done and earns loyalty points as part of the
// same transaction. The earning fires only on the first transition into
// COMPLETED; a repeat call fails before reaching the ledger.
func (c *bookingCommandsImpl) Complete(ctx context.Context, bookingID, actingProfessionalID uuid.UUID) (*queries.BookingView, error) {
	return c.transition(ctx, bookingID, func(b *booking.Booking, now time.Time) error {
		_, err := b.Complete(actingProfessionalID)
		return err
	}, c.earnOnCompletion)
}

type transitionFunc func(b *booking.Booking, now time.Time) error

type afterTransitionFunc func(ctx context.Context, tx shared.Tx, b *booking.Booking, now time.Time) error

func (c *bookingCommandsImpl) transition(ctx context.Context, bookingID uuid.UUID, apply transitionFunc, after ...afterTransitionFunc) (*queries.BookingView, error) {
	now := c.clock.Now()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		entity, err := bookingFromSnapshot(snap)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		if err := apply(entity, now); err != nil {
			return mapTransitionError(err)
		}

		if err := tx.Bookings().UpdateStatus(ctx, entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		for _, fn := range after {
			if err := fn(ctx, tx, entity, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.bookingQueries.GetByIDSystem(ctx, bookingID)
}

func (c *bookingCommandsImpl) earnOnCompletion(ctx context.Context, tx shared.Tx, b *booking.Booking, now time.Time) error {
	var paidCents int64
	if price := b.FinalPrice(); price != nil {
		paidCents = price.Cents()
	}

	points := c.policy.PointsEarnedFor(paidCents)
	if points == 0 {
		return nil
	}

	description := fmt.Sprintf("Points earned on completed booking %s", b.ID())
	err := tx.Bonus().Earn(
		ctx,
		b.ClientID(),
		bonus.TypeBookingPoints.String(),
		points,
		b.ID(),
		description,
		c.policy.ExpiryFrom(now),
		now,
	)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

// validateCalendar re-runs the holiday and business-hours rules against the
// exact requested interval, never trusting an earlier availability fetch.
func (c *bookingCommandsImpl) validateCalendar(ctx context.Context, reads shared.CommandReads, professionalID uuid.UUID, start, end time.Time) error {
	holiday, err := reads.HolidayOn(ctx, professionalID, start)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if holiday != nil {
		return ErrHolidayClosed
	}

	hoursSnap, err := reads.BusinessHoursFor(ctx, professionalID, int(start.Weekday()))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrOutOfBusinessHours
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	hours, err := businessHoursFromSnapshot(hoursSnap)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}
	if !hours.IsActive() {
		return ErrOutOfBusinessHours
	}

	opens := hours.OpensAt().At(start)
	closes := hours.ClosesAt().At(start)
	if start.Before(opens) || end.After(closes) {
		return ErrOutOfBusinessHours
	}

	if hours.HasBreak() {
		breakStart := hours.BreakStart().At(start)
		breakEnd := hours.BreakEnd().At(start)
		// Half-open intersection with the break window.
		if start.Before(breakEnd) && breakStart.Before(end) {
			return ErrOutOfBusinessHours
		}
	}
	return nil
}

func mapTransitionError(err error) error {
	switch {
	case errs.Is(err, booking.ErrNotOwnedByActor):
		return ErrNotOwner
	case errs.Is(err, booking.ErrAlreadyCompleted),
		errs.Is(err, booking.ErrAlreadyCanceled),
		errs.Is(err, booking.ErrInvalidTransition):
		return errs.Mark(err, ErrInvalidTransition)
	default:
		return errs.Mark(err, ErrDomainValidation)
	}
}

func businessHoursFromSnapshot(snap *shared.BusinessHoursSnapshot) (*schedule.BusinessHours, error) {
	opens, err := schedule.ParseMinuteOfDay(snap.OpensAt)
	if err != nil {
		return nil, err
	}
	closes, err := schedule.ParseMinuteOfDay(snap.ClosesAt)
	if err != nil {
		return nil, err
	}

	var breakStart, breakEnd *schedule.MinuteOfDay
	if snap.BreakStart != nil && snap.BreakEnd != nil {
		bs, err := schedule.ParseMinuteOfDay(*snap.BreakStart)
		if err != nil {
			return nil, err
		}
		be, err := schedule.ParseMinuteOfDay(*snap.BreakEnd)
		if err != nil {
			return nil, err
		}
		breakStart, breakEnd = &bs, &be
	}

	return schedule.NewBusinessHours(
		snap.ID,
		snap.ProfessionalID,
		snap.DayOfWeek,
		opens,
		closes,
		breakStart,
		breakEnd,
		snap.Active,
	)
}

func bookingFromSnapshot(snap *shared.BookingSnapshot) (*booking.Booking, error) {
	tr, err := booking.NewTimeRange(snap.StartTime, snap.EndTime)
	if err != nil {
		return nil, err
	}

	items := make([]booking.Item, len(snap.Items))
	for i, it := range snap.Items {
		items[i] = booking.ReconstructItem(
			it.ID,
			it.OfferingID,
			it.ServiceID,
			it.ServiceName,
			it.PriceCents,
			time.Duration(it.DurationMin)*time.Minute,
		)
	}

	var finalPrice *booking.Money
	if snap.FinalPriceCents != nil {
		m, err := booking.NewMoney(*snap.FinalPriceCents)
		if err != nil {
			return nil, err
		}
		finalPrice = &m
	}

	return booking.Reconstruct(
		snap.ID,
		snap.ClientID,
		snap.ProfessionalID,
		tr,
		booking.Status(snap.Status),
		items,
		finalPrice,
		booking.NewNote(snap.Note),
		snap.ConfirmedAt,
		snap.CanceledAt,
		snap.CreatedAt,
		snap.UpdatedAt,
	), nil
}
