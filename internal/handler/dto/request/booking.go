package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ProfessionalID uuid.UUID   `json:"professional_id" binding:"required"`
	StartTime      time.Time   `json:"start_time" binding:"required"`
	ServiceIDs     []uuid.UUID `json:"service_ids" binding:"required,min=1"`
	CouponCode     *string     `json:"coupon_code,omitempty"`
	RedeemPoints   bool        `json:"redeem_points,omitempty"`
	Note           *string     `json:"note,omitempty"`
}

func (r CreateBookingRequest) GetCouponCode() *string {
	return normalizedCoupon(r.CouponCode)
}

func (r CreateBookingRequest) GetNote() string {
	if r.Note == nil {
		return ""
	}
	return strings.TrimSpace(*r.Note)
}

type PriceBookingRequest struct {
	ProfessionalID uuid.UUID   `json:"professional_id" binding:"required"`
	ServiceIDs     []uuid.UUID `json:"service_ids" binding:"required,min=1"`
	CouponCode     *string     `json:"coupon_code,omitempty"`
	RedeemPoints   bool        `json:"redeem_points,omitempty"`
}

func (r PriceBookingRequest) GetCouponCode() *string {
	return normalizedCoupon(r.CouponCode)
}

func normalizedCoupon(code *string) *string {
	if code == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*code)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
