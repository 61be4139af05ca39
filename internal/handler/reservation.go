package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nmoreau/lastseats/internal/engine"
	"github.com/nmoreau/lastseats/internal/queue"
	"github.com/nmoreau/lastseats/internal/repository"
	queuepublisher "github.com/nmoreau/lastseats/internal/service"
)

// ReservationHandler debits and credits the seat ledger.  The actual
// decrement is a single conditional UPDATE in the repository, so two seekers
// racing for the last seat can never both win.
type ReservationHandler struct {
	Opportunities *repository.OpportunityRepo
}

func NewReservationHandler(o *repository.OpportunityRepo) *ReservationHandler {
	return &ReservationHandler{Opportunities: o}
}

type seatsReq struct {
	Seats uint32 `json:"seats"`
}

// Reserve consumes seats on a validated opportunity.  Missing or zero seats
// means one.  When the last seat goes the listing flips to COMPLETE and a
// sold-out event is published.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req seatsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	n := req.Seats
	if n == 0 {
		n = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	remaining, err := h.Opportunities.ConsumeSeats(ctx, id, n, time.Now().UTC())
	if err != nil {
		if errors.Is(err, engine.ErrSeatsExhausted) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "not enough remaining seats"})
		}
		return opportunityErrJSON(c, err)
	}

	if remaining == 0 {
		h.completeSoldOut(ctx, id)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"opportunity_id":  id,
		"seats_reserved":  n,
		"remaining_seats": remaining,
	})
}

// Release credits seats back, for cancelled reservations.  The ledger never
// rises above the advertised total.
func (h *ReservationHandler) Release(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req seatsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	n := req.Seats
	if n == 0 {
		n = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	remaining, err := h.Opportunities.ReleaseSeats(ctx, id, n)
	if err != nil {
		if errors.Is(err, engine.ErrReleaseOverflow) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "release would exceed total seats"})
		}
		return opportunityErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"opportunity_id":  id,
		"seats_released":  n,
		"remaining_seats": remaining,
	})
}

// completeSoldOut flips a sold-out listing to COMPLETE and emits the event.
// MarkComplete only acts on VALIDATED rows, so a retry after a crash between
// the decrement and the flip is harmless.
func (h *ReservationHandler) completeSoldOut(ctx context.Context, id uint64) {
	if err := h.Opportunities.MarkComplete(ctx, id); err != nil {
		return
	}
	o, err := h.Opportunities.GetByID(ctx, id)
	if err != nil {
		return
	}
	ev := queue.OpportunitySoldOutEvent{
		OpportunityID: o.ID,
		ProviderID:    o.ProviderID,
		Title:         o.Title,
		TotalSeats:    o.TotalSeats,
		SoldOutAt:     time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queuepublisher.PublishOpportunitySoldOut(pctx, ev)
	}()
}
