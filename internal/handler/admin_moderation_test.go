package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newJSONContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	return c, rec
}

// A rejection does not need a reason.  The handler must accept a reason-less
// body and proceed to the moderation flow (which then fails on the missing
// auth claim here, never on the body).
func TestReject_ReasonIsOptional(t *testing.T) {
	h := NewAdminHandler(nil, nil)
	for _, body := range []string{`{}`, `{"reason":""}`, `{"reason":"   "}`} {
		c, rec := newJSONContext(body)
		if err := h.Reject(c); err != nil {
			t.Fatalf("body %s: unexpected handler error: %v", body, err)
		}
		if rec.Code == http.StatusBadRequest {
			t.Fatalf("body %s: reason-less rejection refused with 400: %s", body, rec.Body.String())
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("body %s: expected to reach the auth check (401), got %d", body, rec.Code)
		}
	}
}

func TestReject_MalformedBodyIsBadRequest(t *testing.T) {
	h := NewAdminHandler(nil, nil)
	c, rec := newJSONContext(`{"reason":`)
	if err := h.Reject(c); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}
