package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nmoreau/lastseats/internal/engine"
	"github.com/nmoreau/lastseats/internal/model"
	"github.com/nmoreau/lastseats/internal/repository"
)

// ProviderHandler covers everything a provider does with its own
// opportunities: submit, list, edit, resubmit after refusal, delete.
type ProviderHandler struct {
	Opportunities *repository.OpportunityRepo
	Users         *repository.UserRepo
}

func NewProviderHandler(o *repository.OpportunityRepo, u *repository.UserRepo) *ProviderHandler {
	return &ProviderHandler{Opportunities: o, Users: u}
}

// Submit validates a new opportunity, derives its commercial model from the
// event date and stores it as PENDING for moderation.  Unverified providers
// are refused before validation runs; verification is a precondition, not a
// field error.
func (h *ProviderHandler) Submit(c echo.Context) error {
	providerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, providerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load provider failed"})
	}
	if !u.IdentityVerified {
		return c.JSON(http.StatusForbidden, echo.Map{"error": engine.ErrProviderNotVerified.Error()})
	}

	var body opportunitySubmission
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	now := time.Now().UTC()
	norm, verrs := engine.Validate(body.toEngineSubmission(), now)
	if verrs != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": "validation failed", "fields": verrs,
		})
	}
	cm, err := engine.ResolveModel(norm.EventAt, now)
	if err != nil {
		return schedulingJSON(c, err)
	}

	o := &model.Opportunity{
		ProviderID:           providerID,
		Category:             norm.Category,
		CommercialModel:      string(cm),
		Title:                norm.Title,
		Summary:              norm.Summary,
		ExternalURL:          norm.ExternalURL,
		ImageURL:             norm.ImageURL,
		BasePriceCents:       norm.BasePriceCents,
		DiscountedPriceCents: norm.DiscountedPriceCents,
		TotalSeats:           norm.TotalSeats,
		RemainingSeats:       norm.TotalSeats,
		EventAt:              norm.EventAt,
		ContactEmail:         norm.ContactEmail,
		ContactPhone:         norm.ContactPhone,
		Status:               string(engine.StatusPending),
	}
	if err := h.Opportunities.Create(ctx, o); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toOpportunityResponse(o))
}

// List returns the provider's own opportunities, newest first, in every
// status.
func (h *ProviderHandler) List(c echo.Context) error {
	providerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Opportunities.ListByProvider(ctx, providerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"opportunities": toOpportunityResponses(list)})
}

// Get returns one of the provider's own opportunities.
func (h *ProviderHandler) Get(c echo.Context) error {
	providerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Opportunities.GetByIDForProvider(ctx, id, providerID)
	if err != nil {
		return opportunityErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, toOpportunityResponse(o))
}

// Update re-validates and re-resolves an opportunity's terms.  Edits are
// allowed while the listing is PENDING, VALIDATED or REFUSED; a validated
// listing keeps its status, and a refused one stays refused until the
// provider explicitly resubmits.  Terminal listings cannot be edited.
func (h *ProviderHandler) Update(c echo.Context) error {
	providerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Opportunities.GetByIDForProvider(ctx, id, providerID)
	if err != nil {
		return opportunityErrJSON(c, err)
	}
	switch engine.Status(o.Status) {
	case engine.StatusPending, engine.StatusValidated, engine.StatusRefused:
	default:
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "opportunity in status " + o.Status + " cannot be edited",
		})
	}

	var body opportunitySubmission
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	now := time.Now().UTC()
	norm, verrs := engine.Validate(body.toEngineSubmission(), now)
	if verrs != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": "validation failed", "fields": verrs,
		})
	}
	cm, err := engine.ResolveModel(norm.EventAt, now)
	if err != nil {
		return schedulingJSON(c, err)
	}

	consumed := o.TotalSeats - o.RemainingSeats
	if norm.TotalSeats < consumed {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "total_seats cannot drop below seats already consumed",
		})
	}

	o.Category = norm.Category
	o.CommercialModel = string(cm)
	o.Title = norm.Title
	o.Summary = norm.Summary
	o.ExternalURL = norm.ExternalURL
	o.ImageURL = norm.ImageURL
	o.BasePriceCents = norm.BasePriceCents
	o.DiscountedPriceCents = norm.DiscountedPriceCents
	o.TotalSeats = norm.TotalSeats
	o.RemainingSeats = norm.TotalSeats - consumed
	o.EventAt = norm.EventAt
	o.ContactEmail = norm.ContactEmail
	o.ContactPhone = norm.ContactPhone

	if err := h.Opportunities.UpdateTerms(ctx, o); err != nil {
		return opportunityErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, toOpportunityResponse(o))
}

// Resubmit puts a refused opportunity back in the moderation queue.  The
// refusal reason is cleared; only REFUSED listings can be resubmitted.
func (h *ProviderHandler) Resubmit(c echo.Context) error {
	providerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Opportunities.GetByIDForProvider(ctx, id, providerID)
	if err != nil {
		return opportunityErrJSON(c, err)
	}
	if engine.Status(o.Status) != engine.StatusRefused {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "only refused opportunities can be resubmitted",
		})
	}
	err = h.Opportunities.UpdateStatusFrom(ctx, id,
		string(engine.StatusRefused), string(engine.StatusPending), nil)
	if err != nil {
		return opportunityErrJSON(c, err)
	}
	o.Status = string(engine.StatusPending)
	o.RefusalReason = nil
	return c.JSON(http.StatusOK, toOpportunityResponse(o))
}

// Delete removes one of the provider's own opportunities.
func (h *ProviderHandler) Delete(c echo.Context) error {
	providerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Opportunities.Delete(ctx, id, providerID); err != nil {
		return opportunityErrJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// schedulingJSON renders a dead-zone scheduling failure with the distance to
// the event so clients can suggest a valid date.
func schedulingJSON(c echo.Context, err error) error {
	var se *engine.SchedulingError
	if errors.As(err, &se) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":            se.Error(),
			"days_until_event": se.DaysUntilEvent,
		})
	}
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
}

// opportunityErrJSON maps repository sentinels to status codes.
func opportunityErrJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrOpportunityNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "opportunity not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your opportunity"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting concurrent update"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error"})
	}
}
