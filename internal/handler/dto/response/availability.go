package response

import (
	"time"

	"probook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SlotResponse struct {
	Start        time.Time `json:"start"`
	Label        string    `json:"label"`
	Available    bool      `json:"available"`
	ClientName   string    `json:"clientName,omitempty"`
	ServiceNames []string  `json:"serviceNames,omitempty"`
}

type AvailabilityResponse struct {
	ProfessionalID uuid.UUID      `json:"professionalId"`
	Date           string         `json:"date"`
	IsHoliday      bool           `json:"isHoliday"`
	HolidayReason  string         `json:"holidayReason,omitempty"`
	IsClosed       bool           `json:"isClosed"`
	SlotWidthMin   int            `json:"slotWidthMin"`
	Slots          []SlotResponse `json:"slots"`
}

func FromAvailabilityView(view *queries.AvailabilityView) *AvailabilityResponse {
	slots := make([]SlotResponse, len(view.Slots))
	for i, s := range view.Slots {
		_ = copier.Copy(&slots[i], &s)
	}
	return &AvailabilityResponse{
		ProfessionalID: view.ProfessionalID,
		Date:           view.Date.Format("2006-01-02"),
		IsHoliday:      view.IsHoliday,
		HolidayReason:  view.HolidayReason,
		IsClosed:       view.IsClosed,
		SlotWidthMin:   view.SlotWidthMin,
		Slots:          slots,
	}
}
