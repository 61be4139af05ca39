// Package handler contains the HTTP layer: thin Echo handlers that bind
// requests, call the engine and repositories, and translate domain errors
// into status codes.
package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nmoreau/lastseats/internal/engine"
	"github.com/nmoreau/lastseats/internal/model"
)

// getUserID extracts the authenticated user ID stored in context by the JWT
// middleware and converts it to uint64 whatever shape the claim decoded to.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter; zero is never a valid ID.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

// opportunityResponse is the JSON shape shared by every endpoint that
// returns an opportunity.  The discount percentage is recomputed from the
// two prices on every render; it is never read from storage.
type opportunityResponse struct {
	ID                   uint64  `json:"id"`
	ProviderID           uint64  `json:"provider_id"`
	Category             string  `json:"category"`
	CommercialModel      string  `json:"commercial_model"`
	Title                string  `json:"title"`
	Summary              string  `json:"summary"`
	ExternalURL          *string `json:"external_url,omitempty"`
	ImageURL             *string `json:"image_url,omitempty"`
	BasePriceCents       uint32  `json:"base_price_cents"`
	DiscountedPriceCents uint32  `json:"discounted_price_cents"`
	DiscountPercent      uint32  `json:"discount_percent"`
	TotalSeats           uint32  `json:"total_seats"`
	RemainingSeats       uint32  `json:"remaining_seats"`
	EventAt              string  `json:"event_at"`
	ContactEmail         string  `json:"contact_email"`
	ContactPhone         *string `json:"contact_phone,omitempty"`
	Status               string  `json:"status"`
	RefusalReason        *string `json:"refusal_reason,omitempty"`
	CreatedAt            string  `json:"created_at"`
	UpdatedAt            string  `json:"updated_at"`
}

func toOpportunityResponse(o *model.Opportunity) opportunityResponse {
	return opportunityResponse{
		ID:                   o.ID,
		ProviderID:           o.ProviderID,
		Category:             o.Category,
		CommercialModel:      o.CommercialModel,
		Title:                o.Title,
		Summary:              o.Summary,
		ExternalURL:          o.ExternalURL,
		ImageURL:             o.ImageURL,
		BasePriceCents:       o.BasePriceCents,
		DiscountedPriceCents: o.DiscountedPriceCents,
		DiscountPercent:      engine.DiscountPercent(o.BasePriceCents, o.DiscountedPriceCents),
		TotalSeats:           o.TotalSeats,
		RemainingSeats:       o.RemainingSeats,
		EventAt:              o.EventAt.UTC().Format(time.RFC3339),
		ContactEmail:         o.ContactEmail,
		ContactPhone:         o.ContactPhone,
		Status:               o.Status,
		RefusalReason:        o.RefusalReason,
		CreatedAt:            o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toOpportunityResponses(list []model.Opportunity) []opportunityResponse {
	out := make([]opportunityResponse, 0, len(list))
	for i := range list {
		out = append(out, toOpportunityResponse(&list[i]))
	}
	return out
}

// opportunitySubmission is the request body shared by the create and edit
// endpoints.  event_at is RFC3339.
type opportunitySubmission struct {
	Category             string `json:"category"`
	Title                string `json:"title"`
	Summary              string `json:"summary"`
	ExternalURL          string `json:"external_url"`
	ImageURL             string `json:"image_url"`
	BasePriceCents       int64  `json:"base_price_cents"`
	DiscountedPriceCents int64  `json:"discounted_price_cents"`
	TotalSeats           int64  `json:"total_seats"`
	EventAt              string `json:"event_at"`
	ContactEmail         string `json:"contact_email"`
	ContactPhone         string `json:"contact_phone"`
}

// toEngineSubmission converts the request body to the engine's input.  A
// malformed event_at becomes the zero time, which the validator rejects as
// not in the future, so the date error is reported alongside the others.
func (b opportunitySubmission) toEngineSubmission() engine.Submission {
	eventAt, _ := time.Parse(time.RFC3339, b.EventAt)
	return engine.Submission{
		Category:             b.Category,
		Title:                b.Title,
		Summary:              b.Summary,
		ExternalURL:          b.ExternalURL,
		ImageURL:             b.ImageURL,
		BasePriceCents:       b.BasePriceCents,
		DiscountedPriceCents: b.DiscountedPriceCents,
		TotalSeats:           b.TotalSeats,
		EventAt:              eventAt,
		ContactEmail:         b.ContactEmail,
		ContactPhone:         b.ContactPhone,
	}
}
