//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"probook/internal/domain/coupon"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type couponOpts struct {
	couponType coupon.Type
	value      int64
	scope      coupon.Scope
	serviceID  *uuid.UUID
	profID     *uuid.UUID
	maxUses    *int32
	uses       int32
	startDate  time.Time
	endDate    *time.Time
	minValue   *int64
	active     bool
}

func defaultOpts() couponOpts {
	return couponOpts{
		couponType: coupon.TypePercentage,
		value:      10,
		scope:      coupon.ScopeGlobal,
		startDate:  now.AddDate(0, -1, 0),
		active:     true,
	}
}

func build(t *testing.T, o couponOpts) *coupon.Coupon {
	t.Helper()
	code, err := coupon.NewCode("WELCOME10")
	require.NoError(t, err)
	c, err := coupon.New(uuid.New(), code, o.couponType, o.value, o.scope, o.serviceID, o.profID, o.maxUses, o.uses, o.startDate, o.endDate, o.minValue, o.active)
	require.NoError(t, err)
	return c
}

func TestNewCode(t *testing.T) {
	t.Run("normalizes to upper case", func(t *testing.T) {
		code, err := coupon.NewCode("  welcome10 ")
		require.NoError(t, err)
		assert.Equal(t, "WELCOME10", code.String())
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		for _, in := range []string{"", "ab", "has space", "way-too-long-for-a-coupon-code-x"} {
			_, err := coupon.NewCode(in)
			assert.ErrorIs(t, err, coupon.ErrInvalidCouponCode, in)
		}
	})
}

func TestCouponValidate(t *testing.T) {
	profID := uuid.New()
	serviceID := uuid.New()
	bctx := coupon.BookingContext{
		ProfessionalID: profID,
		ServiceIDs:     []uuid.UUID{serviceID},
		BaseCents:      10000,
	}

	limit := func(n int32) *int32 { return &n }
	cents := func(n int64) *int64 { return &n }
	at := func(t time.Time) *time.Time { return &t }

	testCases := []struct {
		name   string
		mutate func(*couponOpts)
		errIs  error
	}{
		{
			name:   "valid global coupon",
			mutate: func(*couponOpts) {},
		},
		{
			name:   "inactive",
			mutate: func(o *couponOpts) { o.active = false },
			errIs:  coupon.ErrInactive,
		},
		{
			name:   "not yet valid",
			mutate: func(o *couponOpts) { o.startDate = now.AddDate(0, 0, 1) },
			errIs:  coupon.ErrNotYetValid,
		},
		{
			name:   "expired",
			mutate: func(o *couponOpts) { o.endDate = at(now.AddDate(0, 0, -1)) },
			errIs:  coupon.ErrExpired,
		},
		{
			name:   "end date today still valid",
			mutate: func(o *couponOpts) { o.endDate = at(now.Add(time.Hour)) },
		},
		{
			name:   "exhausted when uses equals max uses",
			mutate: func(o *couponOpts) { o.maxUses = limit(5); o.uses = 5 },
			errIs:  coupon.ErrExhausted,
		},
		{
			name:   "one use remaining is accepted",
			mutate: func(o *couponOpts) { o.maxUses = limit(5); o.uses = 4 },
		},
		{
			name:   "nil max uses means unlimited",
			mutate: func(o *couponOpts) { o.uses = 1000000 },
		},
		{
			name:   "professional scope match",
			mutate: func(o *couponOpts) { o.scope = coupon.ScopeProfessional; o.profID = &profID },
		},
		{
			name: "professional scope mismatch",
			mutate: func(o *couponOpts) {
				other := uuid.New()
				o.scope = coupon.ScopeProfessional
				o.profID = &other
			},
			errIs: coupon.ErrScopeMismatch,
		},
		{
			name:   "service scope match on any requested service",
			mutate: func(o *couponOpts) { o.scope = coupon.ScopeService; o.serviceID = &serviceID },
		},
		{
			name: "service scope mismatch",
			mutate: func(o *couponOpts) {
				other := uuid.New()
				o.scope = coupon.ScopeService
				o.serviceID = &other
			},
			errIs: coupon.ErrScopeMismatch,
		},
		{
			name:   "below minimum booking value",
			mutate: func(o *couponOpts) { o.minValue = cents(20000) },
			errIs:  coupon.ErrBelowMinimumValue,
		},
		{
			name:   "at minimum booking value",
			mutate: func(o *couponOpts) { o.minValue = cents(10000) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := defaultOpts()
			tc.mutate(&o)
			c := build(t, o)

			err := c.Validate(now, bctx)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDiscountCents(t *testing.T) {
	testCases := []struct {
		name       string
		couponType coupon.Type
		value      int64
		base       int64
		want       int64
	}{
		{name: "percentage 10 of 100", couponType: coupon.TypePercentage, value: 10, base: 10000, want: 1000},
		{name: "percentage rounds down", couponType: coupon.TypePercentage, value: 33, base: 100, want: 33},
		{name: "fixed below base", couponType: coupon.TypeFixed, value: 500, base: 10000, want: 500},
		{name: "fixed capped at base", couponType: coupon.TypeFixed, value: 3000, base: 2000, want: 2000},
		{name: "free waives everything", couponType: coupon.TypeFree, value: 0, base: 4500, want: 4500},
		{name: "zero base yields zero discount", couponType: coupon.TypePercentage, value: 50, base: 0, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := defaultOpts()
			o.couponType = tc.couponType
			o.value = tc.value
			c := build(t, o)

			assert.Equal(t, tc.want, c.DiscountCents(tc.base))
		})
	}
}

func TestScopedCouponNeedsTarget(t *testing.T) {
	code, err := coupon.NewCode("SCOPED")
	require.NoError(t, err)

	_, err = coupon.New(uuid.New(), code, coupon.TypeFixed, 100, coupon.ScopeService, nil, nil, nil, 0, now, nil, nil, true)
	assert.ErrorIs(t, err, coupon.ErrScopeTargetNeeded)

	_, err = coupon.New(uuid.New(), code, coupon.TypeFixed, 100, coupon.ScopeProfessional, nil, nil, nil, 0, now, nil, nil, true)
	assert.ErrorIs(t, err, coupon.ErrScopeTargetNeeded)
}
