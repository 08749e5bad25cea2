//go:build unit || e2e

package fakes

import (
	"context"
	"sort"

	"probook/internal/infra"
	"probook/internal/usecase/queries"

	"github.com/google/uuid"
)

// BookingReads implements the query-side read store over the Store. It
// takes the store lock because queries run outside transactions and may
// race a concurrent UnitOfWork callback.
type BookingReads struct {
	Store *Store
}

func (r *BookingReads) FindByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	r.Store.mu.Lock()
	defer r.Store.mu.Unlock()

	b, ok := r.Store.Bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}

	view := &queries.BookingView{
		ID:              b.ID,
		ClientID:        b.ClientID,
		ProfessionalID:  b.ProfessionalID,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Status:          b.Status,
		FinalPriceCents: b.FinalPriceCents,
		ConfirmedAt:     b.ConfirmedAt,
		CanceledAt:      b.CanceledAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if p, ok := r.Store.Professionals[b.ProfessionalID]; ok {
		view.ProfessionalName = p.Name
	}
	if b.Note != "" {
		note := b.Note
		view.Note = &note
	}
	for _, item := range b.Items {
		view.Items = append(view.Items, queries.BookingItemView{
			ID:          item.ID,
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			PriceCents:  item.PriceCents,
			DurationMin: item.DurationMin,
		})
	}
	return view, nil
}

func (r *BookingReads) FindByClient(_ context.Context, clientID uuid.UUID) ([]*queries.BookingListItem, error) {
	return r.list(func(b *bookingFilter) bool { return b.ClientID == clientID })
}

func (r *BookingReads) FindByProfessional(_ context.Context, professionalID uuid.UUID) ([]*queries.BookingListItem, error) {
	return r.list(func(b *bookingFilter) bool { return b.ProfessionalID == professionalID })
}

type bookingFilter struct {
	ClientID       uuid.UUID
	ProfessionalID uuid.UUID
}

func (r *BookingReads) list(match func(*bookingFilter) bool) ([]*queries.BookingListItem, error) {
	r.Store.mu.Lock()
	defer r.Store.mu.Unlock()

	var result []*queries.BookingListItem
	for _, b := range r.Store.Bookings {
		if !match(&bookingFilter{ClientID: b.ClientID, ProfessionalID: b.ProfessionalID}) {
			continue
		}
		item := &queries.BookingListItem{
			ID:              b.ID,
			ProfessionalID:  b.ProfessionalID,
			StartTime:       b.StartTime,
			EndTime:         b.EndTime,
			Status:          b.Status,
			FinalPriceCents: b.FinalPriceCents,
			CreatedAt:       b.CreatedAt,
		}
		if p, ok := r.Store.Professionals[b.ProfessionalID]; ok {
			item.ProfessionalName = p.Name
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.After(result[j].StartTime)
	})
	return result, nil
}