package engine

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestConsumeSeats_DebitAndExhaustion(t *testing.T) {
	left, exhausted, err := ConsumeSeats(10, 3)
	if err != nil || left != 7 || exhausted {
		t.Fatalf("consume(10,3): left=%d exhausted=%v err=%v", left, exhausted, err)
	}
	left, exhausted, err = ConsumeSeats(left, 7)
	if err != nil || left != 0 || !exhausted {
		t.Fatalf("consume(7,7): left=%d exhausted=%v err=%v", left, exhausted, err)
	}
	if _, _, err := ConsumeSeats(0, 1); !errors.Is(err, ErrSeatsExhausted) {
		t.Fatalf("consuming from empty ledger: expected ErrSeatsExhausted, got %v", err)
	}
}

func TestConsumeSeats_NeverGoesNegative(t *testing.T) {
	remaining := uint32(5)
	granted := uint32(0)
	// Request more than the total in small bites; the aggregate granted must
	// equal the starting count exactly, the rest rejected.
	for i := 0; i < 9; i++ {
		left, _, err := ConsumeSeats(remaining, 1)
		if err != nil {
			continue
		}
		remaining = left
		granted++
	}
	if granted != 5 || remaining != 0 {
		t.Fatalf("granted=%d remaining=%d, want 5 and 0", granted, remaining)
	}
}

func TestConsumeSeats_RejectedRequestLeavesLedgerUntouched(t *testing.T) {
	left, exhausted, err := ConsumeSeats(2, 3)
	if !errors.Is(err, ErrSeatsExhausted) {
		t.Fatalf("expected ErrSeatsExhausted, got %v", err)
	}
	if left != 2 || exhausted {
		t.Fatalf("failed consume must not mutate: left=%d exhausted=%v", left, exhausted)
	}
}

func TestConsumeSeats_ZeroIsNoOp(t *testing.T) {
	left, exhausted, err := ConsumeSeats(4, 0)
	if err != nil || left != 4 || exhausted {
		t.Fatalf("consume(4,0): left=%d exhausted=%v err=%v", left, exhausted, err)
	}
}

func TestReleaseSeats_BoundedByTotal(t *testing.T) {
	got, err := ReleaseSeats(10, 7, 2)
	if err != nil || got != 9 {
		t.Fatalf("release(10,7,2): got %d, %v", got, err)
	}
	got, err = ReleaseSeats(10, 9, 1)
	if err != nil || got != 10 {
		t.Fatalf("release to full: got %d, %v", got, err)
	}
	if _, err := ReleaseSeats(10, 10, 1); !errors.Is(err, ErrReleaseOverflow) {
		t.Fatalf("overflow release: expected ErrReleaseOverflow, got %v", err)
	}
}

func TestReleaseSeats_CreditCannotWrapPastTotal(t *testing.T) {
	// A credit large enough to wrap uint32 must still be rejected, not land
	// the count back inside the valid range.
	got, err := ReleaseSeats(10, 10, math.MaxUint32)
	if !errors.Is(err, ErrReleaseOverflow) {
		t.Fatalf("wrapping release: expected ErrReleaseOverflow, got remaining=%d err=%v", got, err)
	}
	if got != 10 {
		t.Fatalf("failed release must not mutate: got %d", got)
	}
	if _, err := ReleaseSeats(math.MaxUint32, 0, math.MaxUint32); err != nil {
		t.Fatalf("full-range release within total must pass: %v", err)
	}
}

func TestConsumableNow_RequiresValidatedAndFutureEvent(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)

	if !ConsumableNow(StatusValidated, future, now) {
		t.Fatal("validated listing with a future event must be consumable")
	}
	if ConsumableNow(StatusValidated, now.Add(-time.Minute), now) {
		t.Fatal("a listing whose event has passed must not take reservations")
	}
	if ConsumableNow(StatusValidated, now, now) {
		t.Fatal("event exactly now is no longer consumable")
	}
	for _, s := range []Status{StatusPending, StatusRefused, StatusExpired, StatusComplete} {
		if ConsumableNow(s, future, now) {
			t.Fatalf("status %s must not be consumable", s)
		}
	}
}
