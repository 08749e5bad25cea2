//go:build unit

package commands_test

import (
	"testing"
	"time"

	"probook/internal/domain/bonus"
	"probook/internal/pkg/clock"
	"probook/internal/usecase/commands"
	"probook/internal/usecase/queries"
	"probook/internal/usecase/shared"
	"probook/tests/common/builder"
	"probook/tests/common/fakes"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// testNow is a Monday morning; bookingStart is the following Monday so
// seeded business hours (dayOfWeek 1) cover the requested slot.
var (
	testNow      = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	bookingStart = time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)
)

type env struct {
	store          *fakes.Store
	uow            *fakes.UnitOfWork
	clock          *clock.MockClock
	policy         *bonus.Policy
	bookingQueries queries.BookingQueries
	pricing        commands.PricingEngine
	bookings       commands.BookingCommands

	clientID     uuid.UUID
	professional shared.ProfessionalSnapshot
	haircut      shared.OfferingSnapshot
	coloring     shared.OfferingSnapshot
}

// newEnv seeds one active professional offering a 30-minute haircut at
// 5000 cents and a 45-minute coloring at 3000 cents, open Mondays
// 09:00-18:00 with a 12:00-13:00 break.
func newEnv(t *testing.T) *env {
	t.Helper()

	store := fakes.NewStore()
	clk := clock.NewMockClock(testNow)

	policy, err := bonus.NewPolicy(10, 100, 12)
	require.NoError(t, err)

	professional := builder.NewProfessionalBuilder().Build()
	store.SeedProfessional(professional)

	haircut := builder.NewOfferingBuilder().Build()
	coloring := builder.NewOfferingBuilder().With(func(b *builder.OfferingBuilder) {
		b.ServiceName = "Coloring"
		b.PriceCents = 3000
		b.DurationMin = 45
	}).Build()
	store.SeedOffering(professional.ID, haircut)
	store.SeedOffering(professional.ID, coloring)

	store.SeedBusinessHours(builder.NewBusinessHoursBuilder(professional.ID, 1).With(func(b *builder.BusinessHoursBuilder) {
		breakStart, breakEnd := "12:00", "13:00"
		b.BreakStart, b.BreakEnd = &breakStart, &breakEnd
		b.UpdatedAt = testNow
	}).Build())

	uow := fakes.NewUnitOfWork(store)
	bookingQueries := queries.NewBookingQueries(&fakes.BookingReads{Store: store})

	return &env{
		store:          store,
		uow:            uow,
		clock:          clk,
		policy:         policy,
		bookingQueries: bookingQueries,
		pricing:        commands.NewPricingEngine(uow, policy, clk),
		bookings:       commands.NewBookingCommands(uow, bookingQueries, policy, clk),
		clientID:       uuid.New(),
		professional:   professional,
		haircut:        haircut,
		coloring:       coloring,
	}
}

func (e *env) serviceIDs() []uuid.UUID {
	return []uuid.UUID{e.haircut.ServiceID, e.coloring.ServiceID}
}

func (e *env) seedCoupon(mutate func(*builder.CouponBuilder)) shared.CouponSnapshot {
	b := builder.NewCouponBuilder(testNow)
	if mutate != nil {
		b.With(mutate)
	}
	c := b.Build()
	e.store.SeedCoupon(c)
	return c
}

func strPtr(s string) *string      { return &s }
func int32Ptr(v int32) *int32      { return &v }
func int64Ptr(v int64) *int64      { return &v }
func timePtr(t time.Time) *time.Time { return &t }
