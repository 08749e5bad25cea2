package response

import (
	"time"

	"probook/internal/usecase/commands"
	"probook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ServiceID   uuid.UUID `json:"serviceId"`
	ServiceName string    `json:"serviceName"`
	PriceCents  int64     `json:"priceCents"`
	DurationMin int32     `json:"durationMin"`
}

type BookingResponse struct {
	ID               uuid.UUID             `json:"id"`
	ClientID         uuid.UUID             `json:"clientId"`
	ClientName       string                `json:"clientName"`
	ProfessionalID   uuid.UUID             `json:"professionalId"`
	ProfessionalName string                `json:"professionalName"`
	StartTime        time.Time             `json:"startTime"`
	EndTime          time.Time             `json:"endTime"`
	Status           string                `json:"status"`
	FinalPriceCents  *int64                `json:"finalPriceCents,omitempty"`
	CouponCode       *string               `json:"couponCode,omitempty"`
	Note             *string               `json:"note,omitempty"`
	Items            []BookingItemResponse `json:"items"`
	ConfirmedAt      *time.Time            `json:"confirmedAt,omitempty"`
	CanceledAt       *time.Time            `json:"canceledAt,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

type BookingListResponse struct {
	ID               uuid.UUID `json:"id"`
	ProfessionalID   uuid.UUID `json:"professionalId"`
	ProfessionalName string    `json:"professionalName"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Status           string    `json:"status"`
	FinalPriceCents  *int64    `json:"finalPriceCents,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type PriceQuoteResponse struct {
	BaseCents           int64 `json:"baseCents"`
	CouponDiscountCents int64 `json:"couponDiscountCents"`
	BonusDiscountCents  int64 `json:"bonusDiscountCents"`
	TotalCents          int64 `json:"totalCents"`
	DurationMin         int64 `json:"durationMin"`
	PointsToSpend       int64 `json:"pointsToSpend"`
}

type CreateBookingResponse struct {
	Booking *BookingResponse    `json:"booking"`
	Quote   *PriceQuoteResponse `json:"quote,omitempty"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	// Field names line up with the read model; copier carries them over.
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromBookingListItem(item *queries.BookingListItem) *BookingListResponse {
	var resp BookingListResponse
	_ = copier.Copy(&resp, item)
	return &resp
}

func FromPriceQuote(q *commands.PriceQuote) *PriceQuoteResponse {
	if q == nil {
		return nil
	}
	return &PriceQuoteResponse{
		BaseCents:           q.BaseCents,
		CouponDiscountCents: q.CouponDiscountCents,
		BonusDiscountCents:  q.BonusDiscountCents,
		TotalCents:          q.TotalCents,
		DurationMin:         int64(q.Duration.Minutes()),
		PointsToSpend:       q.PointsToSpend,
	}
}
