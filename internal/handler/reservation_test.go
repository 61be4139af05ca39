package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

// A malformed body must be a 400, not silently fall back to a one-seat
// operation against the ledger.
func TestReserveAndRelease_MalformedBodyIsBadRequest(t *testing.T) {
	h := NewReservationHandler(nil)
	for name, call := range map[string]func(echo.Context) error{
		"reserve": h.Reserve,
		"release": h.Release,
	} {
		c, rec := newJSONContext(`{"seats":`)
		c.Set("user_id", uint64(7))
		if err := call(c); err != nil {
			t.Fatalf("%s: unexpected handler error: %v", name, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 for malformed JSON, got %d", name, rec.Code)
		}
	}
}
