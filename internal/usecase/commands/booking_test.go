//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"probook/internal/infra"
	"probook/internal/pkg/errs"
	"probook/internal/usecase/commands"
	"probook/internal/usecase/queries"
	"probook/internal/usecase/shared"
	"probook/tests/common/builder"
	"probook/tests/common/fakes"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) createParams() commands.CreateBookingParams {
	return commands.CreateBookingParams{
		ClientID:       e.clientID,
		ProfessionalID: e.professional.ID,
		StartTime:      bookingStart,
		ServiceIDs:     e.serviceIDs(),
	}
}

func TestBookingCommands_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("books the full service span", func(t *testing.T) {
		e := newEnv(t)

		result, err := e.bookings.Create(ctx, e.createParams())
		require.NoError(t, err)

		view := result.Booking
		assert.Equal(t, "PENDING", view.Status)
		assert.Equal(t, bookingStart, view.StartTime)
		assert.Equal(t, bookingStart.Add(75*time.Minute), view.EndTime)
		assert.Len(t, view.Items, 2)
		require.NotNil(t, view.FinalPriceCents)
		assert.Equal(t, int64(8000), *view.FinalPriceCents)

		require.NotNil(t, result.Quote)
		assert.Equal(t, int64(8000), result.Quote.TotalCents)
		assert.Len(t, e.store.Bookings, 1)
	})

	t.Run("final price reflects coupon and points", func(t *testing.T) {
		e := newEnv(t)
		c := e.seedCoupon(func(b *builder.CouponBuilder) { b.MaxUses = int32Ptr(3) })
		e.store.SeedBalance(e.clientID, "BOOKING_POINTS", 50, testNow.AddDate(1, 0, 0))

		params := e.createParams()
		params.CouponCode = strPtr(c.Code)
		params.RedeemPoints = true
		result, err := e.bookings.Create(ctx, params)
		require.NoError(t, err)

		// base 8000, 10% coupon -> 7200, 50 points -> 2200
		require.NotNil(t, result.Booking.FinalPriceCents)
		assert.Equal(t, int64(2200), *result.Booking.FinalPriceCents)

		assert.Equal(t, int32(1), e.store.Coupons[c.Code].Uses)
		require.Len(t, e.store.Redemptions, 1)
		assert.Equal(t, int64(800), e.store.Redemptions[0].DiscountCents)
		assert.Equal(t, result.Booking.ID, e.store.Redemptions[0].BookingID)

		balance, ok := e.store.Balance(e.clientID, "BOOKING_POINTS")
		require.True(t, ok)
		assert.Equal(t, int64(0), balance.Points)
		require.Len(t, e.store.Transactions, 1)
		assert.Equal(t, "REDEEMED", e.store.Transactions[0].Kind)
		assert.Equal(t, int64(-50), e.store.Transactions[0].Points)
	})

	t.Run("rejects a start time that is not in the future", func(t *testing.T) {
		e := newEnv(t)
		params := e.createParams()
		params.StartTime = testNow.Add(-time.Minute)
		_, err := e.bookings.Create(ctx, params)
		assert.ErrorIs(t, err, commands.ErrInvalidStartTime)
	})

	t.Run("holiday closes the whole day", func(t *testing.T) {
		e := newEnv(t)
		e.store.SeedHoliday(shared.HolidaySnapshot{
			ID:             uuid.New(),
			ProfessionalID: e.professional.ID,
			Date:           bookingStart,
			Reason:         "National holiday",
		})

		_, err := e.bookings.Create(ctx, e.createParams())
		assert.ErrorIs(t, err, commands.ErrHolidayClosed)
		assert.Empty(t, e.store.Bookings)
	})

	t.Run("weekday without business hours", func(t *testing.T) {
		e := newEnv(t)
		params := e.createParams()
		params.StartTime = bookingStart.Add(24 * time.Hour) // Tuesday, no rule
		_, err := e.bookings.Create(ctx, params)
		assert.ErrorIs(t, err, commands.ErrOutOfBusinessHours)
	})

	t.Run("inactive business hours read as closed", func(t *testing.T) {
		e := newEnv(t)
		e.store.SeedBusinessHours(builder.NewBusinessHoursBuilder(e.professional.ID, 1).With(func(b *builder.BusinessHoursBuilder) {
			b.Active = false
			b.UpdatedAt = testNow.Add(time.Hour) // newer than the open rule
		}).Build())

		_, err := e.bookings.Create(ctx, e.createParams())
		assert.ErrorIs(t, err, commands.ErrOutOfBusinessHours)
	})

	t.Run("ends after closing time", func(t *testing.T) {
		e := newEnv(t)
		params := e.createParams()
		params.StartTime = time.Date(2025, 6, 9, 17, 0, 0, 0, time.UTC) // 75min -> 18:15
		_, err := e.bookings.Create(ctx, params)
		assert.ErrorIs(t, err, commands.ErrOutOfBusinessHours)
	})

	t.Run("starts before opening time", func(t *testing.T) {
		e := newEnv(t)
		params := e.createParams()
		params.StartTime = time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC)
		_, err := e.bookings.Create(ctx, params)
		assert.ErrorIs(t, err, commands.ErrOutOfBusinessHours)
	})

	t.Run("crossing the break window is rejected", func(t *testing.T) {
		e := newEnv(t)
		params := e.createParams()
		params.StartTime = time.Date(2025, 6, 9, 11, 30, 0, 0, time.UTC) // ends 12:45, break 12:00-13:00
		_, err := e.bookings.Create(ctx, params)
		assert.ErrorIs(t, err, commands.ErrOutOfBusinessHours)
	})

	t.Run("ending exactly at the break start is allowed", func(t *testing.T) {
		e := newEnv(t)
		params := e.createParams()
		params.StartTime = time.Date(2025, 6, 9, 10, 45, 0, 0, time.UTC) // ends 12:00
		_, err := e.bookings.Create(ctx, params)
		assert.NoError(t, err)
	})

	t.Run("overlapping active booking conflicts", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.bookings.Create(ctx, e.createParams()) // 10:00-11:15
		require.NoError(t, err)

		params := e.createParams()
		params.ClientID = uuid.New()
		params.StartTime = time.Date(2025, 6, 9, 10, 30, 0, 0, time.UTC)
		_, err = e.bookings.Create(ctx, params)
		assert.ErrorIs(t, err, commands.ErrBookingConflict)
		assert.Len(t, e.store.Bookings, 1)
	})

	t.Run("back-to-back bookings touch without conflict", func(t *testing.T) {
		e := newEnv(t)
		// Afternoon pair, clear of the 12:00-13:00 break: 13:00-14:15
		// followed immediately by 14:15-15:30.
		first := e.createParams()
		first.StartTime = time.Date(2025, 6, 9, 13, 0, 0, 0, time.UTC)
		_, err := e.bookings.Create(ctx, first)
		require.NoError(t, err)

		second := e.createParams()
		second.ClientID = uuid.New()
		second.StartTime = first.StartTime.Add(75 * time.Minute)
		_, err = e.bookings.Create(ctx, second)
		assert.NoError(t, err)
		assert.Len(t, e.store.Bookings, 2)
	})

	t.Run("canceled booking frees its slot", func(t *testing.T) {
		e := newEnv(t)
		first, err := e.bookings.Create(ctx, e.createParams())
		require.NoError(t, err)
		_, err = e.bookings.Cancel(ctx, first.Booking.ID, e.clientID)
		require.NoError(t, err)

		params := e.createParams()
		params.ClientID = uuid.New()
		_, err = e.bookings.Create(ctx, params)
		assert.NoError(t, err)
	})
}

// redeemConflictUoW simulates a concurrent redemption exhausting the coupon
// between validation and the conditional update.
type redeemConflictUoW struct {
	inner *fakes.UnitOfWork
}

func (u *redeemConflictUoW) Within(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
	return u.inner.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return fn(ctx, &redeemConflictTx{Tx: tx})
	})
}

func (u *redeemConflictUoW) CommandReads() shared.CommandReads { return u.inner.CommandReads() }

type redeemConflictTx struct {
	shared.Tx
}

func (t *redeemConflictTx) Coupons() shared.CouponRepository { return conflictCouponRepo{} }

type conflictCouponRepo struct{}

func (conflictCouponRepo) Redeem(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, int64) error {
	return infra.WrapRepoErr("coupon usage limit reached", nil, infra.KindConflict)
}

// consumeConflictUoW does the same for a concurrently drained point balance.
type consumeConflictUoW struct {
	inner *fakes.UnitOfWork
}

func (u *consumeConflictUoW) Within(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
	return u.inner.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return fn(ctx, &consumeConflictTx{Tx: tx})
	})
}

func (u *consumeConflictUoW) CommandReads() shared.CommandReads { return u.inner.CommandReads() }

type consumeConflictTx struct {
	shared.Tx
}

func (t *consumeConflictTx) Bonus() shared.BonusRepository { return conflictBonusRepo{} }

type conflictBonusRepo struct{}

func (conflictBonusRepo) Consume(context.Context, uuid.UUID, string, int64, time.Time, uuid.UUID) error {
	return infra.WrapRepoErr("insufficient bonus balance", nil, infra.KindConflict)
}

func (conflictBonusRepo) Earn(context.Context, uuid.UUID, string, int64, uuid.UUID, string, time.Time, time.Time) error {
	return nil
}

func TestBookingCommands_CreateAtomicity(t *testing.T) {
	ctx := context.Background()

	t.Run("lost coupon race rolls the booking back", func(t *testing.T) {
		e := newEnv(t)
		c := e.seedCoupon(func(b *builder.CouponBuilder) { b.MaxUses = int32Ptr(1) })

		raced := commands.NewBookingCommands(&redeemConflictUoW{inner: e.uow}, e.bookingQueries, e.policy, e.clock)

		params := e.createParams()
		params.CouponCode = strPtr(c.Code)
		_, err := raced.Create(ctx, params)

		assert.True(t, errs.Is(err, commands.ErrCouponExhausted))
		assert.True(t, errs.Is(err, commands.ErrInvalidCoupon))
		assert.Empty(t, e.store.Bookings)
		assert.Empty(t, e.store.Redemptions)
	})

	t.Run("lost points race rolls the booking back", func(t *testing.T) {
		e := newEnv(t)
		e.store.SeedBalance(e.clientID, "BOOKING_POINTS", 50, testNow.AddDate(1, 0, 0))

		raced := commands.NewBookingCommands(&consumeConflictUoW{inner: e.uow}, e.bookingQueries, e.policy, e.clock)

		params := e.createParams()
		params.RedeemPoints = true
		_, err := raced.Create(ctx, params)

		assert.ErrorIs(t, err, commands.ErrInsufficientPoints)
		assert.Empty(t, e.store.Bookings)
		balance, _ := e.store.Balance(e.clientID, "BOOKING_POINTS")
		assert.Equal(t, int64(50), balance.Points)
	})
}

func TestBookingCommands_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("two simultaneous attempts on the same slot admit exactly one", func(t *testing.T) {
		e := newEnv(t)

		results := make([]error, 2)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				params := e.createParams()
				params.ClientID = uuid.New()
				_, results[i] = e.bookings.Create(ctx, params)
			}(i)
		}
		wg.Wait()

		var succeeded, conflicted int
		for _, err := range results {
			switch {
			case err == nil:
				succeeded++
			case errs.Is(err, commands.ErrBookingConflict):
				conflicted++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, conflicted)
		assert.Len(t, e.store.Bookings, 1)
	})
}

func TestBookingCommands_Transitions(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, e *env) *queries.BookingView {
		t.Helper()
		result, err := e.bookings.Create(ctx, e.createParams())
		require.NoError(t, err)
		return result.Booking
	}

	t.Run("confirm by the owning professional", func(t *testing.T) {
		e := newEnv(t)
		b := create(t, e)

		view, err := e.bookings.Confirm(ctx, b.ID, e.professional.ID)
		require.NoError(t, err)
		assert.Equal(t, "CONFIRMED", view.Status)
		assert.NotNil(t, view.ConfirmedAt)
	})

	t.Run("confirm by another professional is forbidden", func(t *testing.T) {
		e := newEnv(t)
		b := create(t, e)

		_, err := e.bookings.Confirm(ctx, b.ID, uuid.New())
		assert.ErrorIs(t, err, commands.ErrNotOwner)
		assert.Equal(t, "PENDING", e.store.Bookings[b.ID].Status)
	})

	t.Run("unknown booking", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.bookings.Confirm(ctx, uuid.New(), e.professional.ID)
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})

	t.Run("client cancels a pending booking", func(t *testing.T) {
		e := newEnv(t)
		b := create(t, e)

		view, err := e.bookings.Cancel(ctx, b.ID, e.clientID)
		require.NoError(t, err)
		assert.Equal(t, "CANCELED", view.Status)
		assert.NotNil(t, view.CanceledAt)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		e := newEnv(t)
		b := create(t, e)

		_, err := e.bookings.Cancel(ctx, b.ID, uuid.New())
		assert.ErrorIs(t, err, commands.ErrNotOwner)
	})

	t.Run("canceled booking cannot be confirmed", func(t *testing.T) {
		e := newEnv(t)
		b := create(t, e)
		_, err := e.bookings.Cancel(ctx, b.ID, e.clientID)
		require.NoError(t, err)

		_, err = e.bookings.Confirm(ctx, b.ID, e.professional.ID)
		assert.True(t, errs.Is(err, commands.ErrInvalidTransition))
	})

	t.Run("completed booking cannot be canceled", func(t *testing.T) {
		e := newEnv(t)
		b := create(t, e)
		_, err := e.bookings.Complete(ctx, b.ID, e.professional.ID)
		require.NoError(t, err)

		_, err = e.bookings.Cancel(ctx, b.ID, e.clientID)
		assert.True(t, errs.Is(err, commands.ErrInvalidTransition))
	})
}

func TestBookingCommands_CompleteEarnsPoints(t *testing.T) {
	ctx := context.Background()

	t.Run("earns points per the configured policy", func(t *testing.T) {
		e := newEnv(t)
		result, err := e.bookings.Create(ctx, e.createParams())
		require.NoError(t, err)
		_, err = e.bookings.Confirm(ctx, result.Booking.ID, e.professional.ID)
		require.NoError(t, err)

		view, err := e.bookings.Complete(ctx, result.Booking.ID, e.professional.ID)
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", view.Status)

		// 8000 cents paid, 10% earn rate, 100 cents per point
		balance, ok := e.store.Balance(e.clientID, "BOOKING_POINTS")
		require.True(t, ok)
		assert.Equal(t, int64(8), balance.Points)
		assert.Equal(t, testNow.AddDate(0, 12, 0), balance.ExpiresAt)

		require.Len(t, e.store.Transactions, 1)
		assert.Equal(t, "EARNED", e.store.Transactions[0].Kind)
		assert.Equal(t, int64(8), e.store.Transactions[0].Points)
	})

	t.Run("a repeat completion earns nothing", func(t *testing.T) {
		e := newEnv(t)
		result, err := e.bookings.Create(ctx, e.createParams())
		require.NoError(t, err)
		_, err = e.bookings.Complete(ctx, result.Booking.ID, e.professional.ID)
		require.NoError(t, err)

		_, err = e.bookings.Complete(ctx, result.Booking.ID, e.professional.ID)
		assert.True(t, errs.Is(err, commands.ErrInvalidTransition))
		assert.Len(t, e.store.Transactions, 1)

		balance, _ := e.store.Balance(e.clientID, "BOOKING_POINTS")
		assert.Equal(t, int64(8), balance.Points)
	})

	t.Run("a zero-total booking earns nothing", func(t *testing.T) {
		e := newEnv(t)
		c := e.seedCoupon(func(b *builder.CouponBuilder) {
			b.Code = "ONTHEHOUSE"
			b.Type = "FREE"
			b.Value = 0
		})

		params := e.createParams()
		params.CouponCode = strPtr(c.Code)
		result, err := e.bookings.Create(ctx, params)
		require.NoError(t, err)

		_, err = e.bookings.Complete(ctx, result.Booking.ID, e.professional.ID)
		require.NoError(t, err)

		_, ok := e.store.Balance(e.clientID, "BOOKING_POINTS")
		assert.False(t, ok)
		assert.Len(t, e.store.Transactions, 0)
	})
}
