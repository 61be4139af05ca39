package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nmoreau/lastseats/internal/engine"
	"github.com/nmoreau/lastseats/internal/model"
	"github.com/nmoreau/lastseats/internal/queue"
	"github.com/nmoreau/lastseats/internal/repository"
	queuepublisher "github.com/nmoreau/lastseats/internal/service"
)

// AdminHandler covers the moderation queue and provider verification.
type AdminHandler struct {
	Opportunities *repository.OpportunityRepo
	Users         *repository.UserRepo
}

func NewAdminHandler(o *repository.OpportunityRepo, u *repository.UserRepo) *AdminHandler {
	return &AdminHandler{Opportunities: o, Users: u}
}

type rejectReq struct {
	Reason string `json:"reason"`
}
type verifyReq struct {
	Verified *bool `json:"verified"`
}

// ListPending returns the moderation queue, oldest submission first.
// Validated listings whose event date has passed are swept to EXPIRED on the
// way in, so an admin never spends time on an offer that can no longer run.
func (h *AdminHandler) ListPending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Opportunities.ExpireDue(ctx, time.Now().UTC()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "expiry sweep failed"})
	}
	list, err := h.Opportunities.ListPending(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"opportunities": toOpportunityResponses(list)})
}

// Approve validates a pending opportunity and publishes the approval event.
func (h *AdminHandler) Approve(c echo.Context) error {
	return h.moderate(c, "approve", nil)
}

// Reject refuses a pending opportunity.  The reason is optional free text:
// when given it is stored on the listing and carried on the refusal event so
// the provider learns what to fix, but a rejection stands on its own.
func (h *AdminHandler) Reject(c echo.Context) error {
	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var reason *string
	if r := strings.TrimSpace(req.Reason); r != "" {
		reason = &r
	}
	return h.moderate(c, "reject", reason)
}

// moderate runs one moderation decision end to end: load, compute the
// transition, persist it guarded on the current status, publish the event.
func (h *AdminHandler) moderate(c echo.Context, op string, reason *string) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Opportunities.GetByID(ctx, id)
	if err != nil {
		return opportunityErrJSON(c, err)
	}

	var next engine.Status
	switch op {
	case "approve":
		next, err = engine.Approve(engine.Status(o.Status))
	case "reject":
		next, err = engine.Reject(engine.Status(o.Status))
	}
	if err != nil {
		var ite *engine.InvalidTransitionError
		if errors.As(err, &ite) {
			return c.JSON(http.StatusConflict, echo.Map{"error": ite.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
	}

	err = h.Opportunities.UpdateStatusFrom(ctx, id, o.Status, string(next), reason)
	if err != nil {
		return opportunityErrJSON(c, err)
	}
	o.Status = string(next)
	o.RefusalReason = reason

	h.publishModerated(o, adminID)

	return c.JSON(http.StatusOK, toOpportunityResponse(o))
}

// publishModerated emits the decision event.  Delivery is best effort: a
// broker outage must not undo a decision already committed to the database.
func (h *AdminHandler) publishModerated(o *model.Opportunity, adminID uint64) {
	ev := queue.OpportunityModeratedEvent{
		OpportunityID:   o.ID,
		ProviderID:      o.ProviderID,
		AdminID:         adminID,
		Title:           o.Title,
		Category:        o.Category,
		CommercialModel: o.CommercialModel,
		Status:          o.Status,
		RefusalReason:   o.RefusalReason,
		EventAt:         o.EventAt.UTC().Format(time.RFC3339),
		DecidedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queuepublisher.PublishOpportunityModerated(ctx, ev)
	}()
}

// VerifyProvider sets or clears a provider's identity verification flag.
func (h *AdminHandler) VerifyProvider(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	verified := true
	if req.Verified != nil {
		verified = *req.Verified
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SetIdentityVerified(ctx, id, verified); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "provider not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"provider_id": id, "identity_verified": verified})
}
