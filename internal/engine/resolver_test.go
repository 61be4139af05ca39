package engine

import (
	"errors"
	"testing"
	"time"
)

func TestResolveModel_OneDayOutIsLastMinute(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	eventAt := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	model, err := ResolveModel(eventAt, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model != ModelLastMinute {
		t.Fatalf("expected LAST_MINUTE, got %s", model)
	}
}

func TestResolveModel_SixtyEightDaysOutIsPreSale(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	eventAt := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	model, err := ResolveModel(eventAt, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model != ModelPreSale {
		t.Fatalf("expected PRE_SALE, got %s", model)
	}
}

func TestResolveModel_DeadZoneRejected(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	eventAt := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC) // 19 days out

	_, err := ResolveModel(eventAt, now)
	var se *SchedulingError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchedulingError, got %v", err)
	}
	if se.DaysUntilEvent != 19 {
		t.Fatalf("expected 19 days in error, got %v", se.DaysUntilEvent)
	}
}

func TestResolveModel_BoundariesInclusiveOnAcceptingSide(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// Exactly 3 days: still last minute.
	if m, err := ResolveModel(now.Add(LastMinuteWindow), now); err != nil || m != ModelLastMinute {
		t.Fatalf("3-day boundary: got %s, %v", m, err)
	}
	// A second past 3 days: dead zone.
	if _, err := ResolveModel(now.Add(LastMinuteWindow+time.Second), now); err == nil {
		t.Fatal("just past 3 days must be rejected")
	}
	// Exactly 56 days: already pre-sale.
	if m, err := ResolveModel(now.Add(PreSaleWindow), now); err != nil || m != ModelPreSale {
		t.Fatalf("56-day boundary: got %s, %v", m, err)
	}
	// A second short of 56 days: dead zone.
	if _, err := ResolveModel(now.Add(PreSaleWindow-time.Second), now); err == nil {
		t.Fatal("just short of 56 days must be rejected")
	}
}

func TestResolveModel_TotalOverPastDates(t *testing.T) {
	// Past dates classify as last minute; rejecting them is the validator's
	// job, so the resolver stays total.
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if m, err := ResolveModel(now.Add(-time.Hour), now); err != nil || m != ModelLastMinute {
		t.Fatalf("past date: got %s, %v", m, err)
	}
}

func TestSchedulingError_NamesBothThresholds(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := ResolveModel(now.Add(10*24*time.Hour), now)
	if err == nil {
		t.Fatal("expected dead-zone rejection")
	}
	msg := err.Error()
	for _, want := range []string{"3", "56"} {
		found := false
		for i := 0; i+len(want) <= len(msg); i++ {
			if msg[i:i+len(want)] == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("error message must name threshold %s: %q", want, msg)
		}
	}
}
