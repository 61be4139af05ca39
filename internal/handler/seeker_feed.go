package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nmoreau/lastseats/internal/engine"
	"github.com/nmoreau/lastseats/internal/repository"
)

// SeekerHandler covers the seeker-facing read side: the personalized feed,
// category preferences and the provider block list.
type SeekerHandler struct {
	Opportunities *repository.OpportunityRepo
	Preferences   *repository.PreferenceRepo
	Blocks        *repository.BlockRepo
	Users         *repository.UserRepo
}

func NewSeekerHandler(o *repository.OpportunityRepo, p *repository.PreferenceRepo,
	b *repository.BlockRepo, u *repository.UserRepo) *SeekerHandler {
	return &SeekerHandler{Opportunities: o, Preferences: p, Blocks: b, Users: u}
}

type preferencesReq struct {
	Categories []string `json:"categories"`
}

// Feed returns the opportunities this seeker can see right now.  Visibility
// is opt-in: a seeker with no category preferences gets an empty feed, not
// everything.  Status and date filtering happen in SQL; the per-seeker
// preference and block filters run here so one query serves every caller.
func (h *SeekerHandler) Feed(c echo.Context) error {
	seekerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	prefs, err := h.Preferences.Get(ctx, seekerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(prefs) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"opportunities": []opportunityResponse{}})
	}
	blocked, err := h.Blocks.ListBlocked(ctx, seekerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now().UTC()
	// Opportunistic sweep: overdue listings flip to EXPIRED before the feed
	// is read.  A sweep failure never fails the read.
	_, _ = h.Opportunities.ExpireDue(ctx, now)
	list, err := h.Opportunities.ListVisible(ctx, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	audience := engine.NewAudience(prefs, blocked)
	visible := make([]opportunityResponse, 0, len(list))
	for i := range list {
		o := &list[i]
		item := engine.FeedItem{
			ProviderID: o.ProviderID,
			Category:   o.Category,
			Status:     engine.Status(o.Status),
			EventAt:    o.EventAt,
		}
		if audience.Sees(item, now) {
			visible = append(visible, toOpportunityResponse(o))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"opportunities": visible})
}

// GetOpportunity returns one validated, future opportunity.  A seeker can
// open any listing that is publicly visible, whether or not it matches their
// preferences; only a blocked provider's listing is withheld.
func (h *SeekerHandler) GetOpportunity(c echo.Context) error {
	seekerID, err := getUserID(c)
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
	if !engine.Status(o.Status).PubliclyVisible() || !o.EventAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "opportunity not found"})
	}
	blocked, err := h.Blocks.ListBlocked(ctx, seekerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	for _, pid := range blocked {
		if pid == o.ProviderID {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "opportunity not found"})
		}
	}
	return c.JSON(http.StatusOK, toOpportunityResponse(o))
}

// GetPreferences returns the seeker's category preferences.
func (h *SeekerHandler) GetPreferences(c echo.Context) error {
	seekerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	prefs, err := h.Preferences.Get(ctx, seekerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": prefs})
}

// PutPreferences replaces the seeker's category preferences.  Unknown
// categories are rejected as a whole; an empty list is valid and silences
// the feed.
func (h *SeekerHandler) PutPreferences(c echo.Context) error {
	seekerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req preferencesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	seen := make(map[string]bool, len(req.Categories))
	categories := make([]string, 0, len(req.Categories))
	for _, raw := range req.Categories {
		cat := strings.ToUpper(strings.TrimSpace(raw))
		if !engine.ValidCategory(cat) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "unknown category: " + raw,
			})
		}
		if !seen[cat] {
			seen[cat] = true
			categories = append(categories, cat)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Preferences.Replace(ctx, seekerID, categories); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": categories})
}

// ListBlocked returns the provider IDs this seeker has blocked.
func (h *SeekerHandler) ListBlocked(c echo.Context) error {
	seekerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	blocked, err := h.Blocks.ListBlocked(ctx, seekerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"blocked_provider_ids": blocked})
}

// Block hides a provider from the seeker's feed.  Blocking an already
// blocked provider succeeds without effect.
func (h *SeekerHandler) Block(c echo.Context) error {
	return h.setBlocked(c, true)
}

// Unblock restores a provider's visibility.  Unblocking a provider that was
// never blocked succeeds without effect.
func (h *SeekerHandler) Unblock(c echo.Context) error {
	return h.setBlocked(c, false)
}

func (h *SeekerHandler) setBlocked(c echo.Context, blocked bool) error {
	seekerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	providerID, ok := pathID(c, "providerID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid provider id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// The target must exist and be a provider; blocking arbitrary IDs would
	// let the table fill with garbage rows.
	if _, err := h.Users.GetProvider(ctx, providerID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "provider not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if blocked {
		err = h.Blocks.Block(ctx, seekerID, providerID)
	} else {
		err = h.Blocks.Unblock(ctx, seekerID, providerID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"provider_id": providerID, "blocked": blocked})
}
