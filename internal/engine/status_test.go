package engine

import (
	"errors"
	"testing"
)

func TestApprove_OnlyFromPending(t *testing.T) {
	got, err := Approve(StatusPending)
	if err != nil || got != StatusValidated {
		t.Fatalf("approve(PENDING): got %s, %v", got, err)
	}
	for _, from := range []Status{StatusValidated, StatusRefused, StatusExpired, StatusComplete} {
		_, err := Approve(from)
		var ite *InvalidTransitionError
		if !errors.As(err, &ite) {
			t.Fatalf("approve(%s): expected InvalidTransitionError, got %v", from, err)
		}
		if ite.From != from || ite.Op != "approve" {
			t.Fatalf("approve(%s): wrong fault detail %+v", from, ite)
		}
	}
}

func TestReject_OnlyFromPending(t *testing.T) {
	got, err := Reject(StatusPending)
	if err != nil || got != StatusRefused {
		t.Fatalf("reject(PENDING): got %s, %v", got, err)
	}
	for _, from := range []Status{StatusValidated, StatusRefused, StatusExpired, StatusComplete} {
		if _, err := Reject(from); err == nil {
			t.Fatalf("reject(%s): expected fault", from)
		}
	}
}

func TestExpire_IdempotentNoOpOnTerminalStates(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusValidated} {
		got, changed := Expire(from)
		if !changed || got != StatusExpired {
			t.Fatalf("expire(%s): got %s changed=%v", from, got, changed)
		}
	}
	for _, from := range []Status{StatusRefused, StatusExpired, StatusComplete} {
		got, changed := Expire(from)
		if changed || got != from {
			t.Fatalf("expire(%s): expected no-op, got %s changed=%v", from, got, changed)
		}
	}
	// Re-invoking never errors or changes anything further.
	once, _ := Expire(StatusValidated)
	twice, changed := Expire(once)
	if changed || twice != StatusExpired {
		t.Fatal("repeated expire must be a no-op")
	}
}

func TestComplete_FromValidatedThenIdempotent(t *testing.T) {
	got, changed, err := Complete(StatusValidated)
	if err != nil || !changed || got != StatusComplete {
		t.Fatalf("complete(VALIDATED): got %s changed=%v err=%v", got, changed, err)
	}
	got, changed, err = Complete(got)
	if err != nil || changed || got != StatusComplete {
		t.Fatalf("repeated complete must be a no-op: %s changed=%v err=%v", got, changed, err)
	}
	for _, from := range []Status{StatusPending, StatusRefused, StatusExpired} {
		if _, _, err := Complete(from); err == nil {
			t.Fatalf("complete(%s): expected fault", from)
		}
	}
}

func TestNoTransitionReachesPending(t *testing.T) {
	// PENDING is only ever an initial state; confirm no transition returns it.
	if s, err := Approve(StatusPending); err == nil && s == StatusPending {
		t.Fatal("approve must leave PENDING")
	}
	if s, err := Reject(StatusPending); err == nil && s == StatusPending {
		t.Fatal("reject must leave PENDING")
	}
	if s, _ := Expire(StatusPending); s == StatusPending {
		t.Fatal("expire must leave PENDING")
	}
}

func TestPubliclyVisible(t *testing.T) {
	if !StatusValidated.PubliclyVisible() {
		t.Fatal("VALIDATED must be publicly visible")
	}
	for _, s := range []Status{StatusPending, StatusRefused, StatusExpired, StatusComplete} {
		if s.PubliclyVisible() {
			t.Fatalf("%s must not be publicly visible", s)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusValidated, StatusRefused, StatusExpired, StatusComplete} {
		if !ValidStatus(s) {
			t.Fatalf("%s should be valid", s)
		}
	}
	if ValidStatus("DRAFT") {
		t.Fatal("unknown status accepted")
	}
}
