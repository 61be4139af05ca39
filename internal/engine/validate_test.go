package engine

import (
	"math"
	"testing"
	"time"
)

func goodSubmission(eventAt time.Time) Submission {
	return Submission{
		Category:             "DANCE",
		Title:                "Contemporary intensive",
		Summary:              "Two-day intensive with guest choreographer",
		ExternalURL:          "https://studio.example.com/intensive",
		BasePriceCents:       10000,
		DiscountedPriceCents: 7000,
		TotalSeats:           12,
		EventAt:              eventAt,
		ContactEmail:         "Contact@Studio.example.com",
		ContactPhone:         " +33 1 23 45 67 89 ",
	}
}

func TestValidate_AcceptsAndNormalizes(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := goodSubmission(now.Add(24 * time.Hour))
	sub.Title = "  Contemporary intensive  "

	norm, errs := Validate(sub, now)
	if errs != nil {
		t.Fatalf("expected acceptance, got %v", errs)
	}
	if norm.Title != "Contemporary intensive" {
		t.Fatalf("title not trimmed: %q", norm.Title)
	}
	if norm.ContactEmail != "contact@studio.example.com" {
		t.Fatalf("email not normalized: %q", norm.ContactEmail)
	}
	if norm.ContactPhone == nil || *norm.ContactPhone != "+33 1 23 45 67 89" {
		t.Fatalf("phone not trimmed: %v", norm.ContactPhone)
	}
	if norm.TotalSeats != 12 || norm.BasePriceCents != 10000 {
		t.Fatalf("numeric fields mangled: %+v", norm)
	}
}

func TestValidate_EachBrokenRuleNamesItsField(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)

	cases := []struct {
		name   string
		mutate func(*Submission)
		field  string
	}{
		{"unknown category", func(s *Submission) { s.Category = "KNITTING" }, "category"},
		{"empty title", func(s *Submission) { s.Title = "   " }, "title"},
		{"empty summary", func(s *Submission) { s.Summary = "" }, "summary"},
		{"relative url", func(s *Submission) { s.ExternalURL = "/intensive" }, "external_url"},
		{"zero base price", func(s *Submission) { s.BasePriceCents = 0 }, "base_price_cents"},
		{"negative discounted price", func(s *Submission) { s.DiscountedPriceCents = -1 }, "discounted_price_cents"},
		{"discount not below base", func(s *Submission) { s.DiscountedPriceCents = s.BasePriceCents }, "discounted_price_cents"},
		{"discount below 25 percent", func(s *Submission) { s.DiscountedPriceCents = 8000 }, "discounted_price_cents"},
		{"zero seats", func(s *Submission) { s.TotalSeats = 0 }, "total_seats"},
		{"seats beyond uint32", func(s *Submission) { s.TotalSeats = 1 << 32 }, "total_seats"},
		{"base price beyond uint32", func(s *Submission) { s.BasePriceCents = 1 << 33; s.DiscountedPriceCents = 1 << 32 }, "base_price_cents"},
		{"discounted price beyond uint32", func(s *Submission) { s.BasePriceCents = 1 << 33; s.DiscountedPriceCents = 1 << 32 }, "discounted_price_cents"},
		{"past event", func(s *Submission) { s.EventAt = now.Add(-time.Hour) }, "event_at"},
		{"event exactly now", func(s *Submission) { s.EventAt = now }, "event_at"},
		{"missing email", func(s *Submission) { s.ContactEmail = "" }, "contact_email"},
		{"malformed email", func(s *Submission) { s.ContactEmail = "not-an-email" }, "contact_email"},
	}
	for _, tc := range cases {
		sub := goodSubmission(future)
		tc.mutate(&sub)
		norm, errs := Validate(sub, now)
		if norm != nil || len(errs) == 0 {
			t.Fatalf("%s: expected rejection", tc.name)
		}
		found := false
		for _, fe := range errs {
			if fe.Field == tc.field {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s: expected an error on %q, got %v", tc.name, tc.field, errs)
		}
	}
}

func TestValidate_NumericBoundsNeverTruncate(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)

	// 2^32 would narrow to 0 and sneak past the at-least-one-seat rule if
	// the range were not checked on the wide type.
	sub := goodSubmission(future)
	sub.TotalSeats = 1 << 32
	if norm, errs := Validate(sub, now); norm != nil || len(errs) == 0 {
		t.Fatalf("2^32 seats must be rejected, got norm=%+v errs=%v", norm, errs)
	}

	// The largest representable values are legitimate input.
	sub = goodSubmission(future)
	sub.TotalSeats = math.MaxUint32
	sub.BasePriceCents = math.MaxUint32
	sub.DiscountedPriceCents = math.MaxUint32 / 2
	norm, errs := Validate(sub, now)
	if errs != nil {
		t.Fatalf("max-range submission must pass: %v", errs)
	}
	if norm.TotalSeats != math.MaxUint32 || norm.BasePriceCents != math.MaxUint32 {
		t.Fatalf("max-range values mangled: %+v", norm)
	}

	// Out-of-range prices must not reach the discount ratio check with
	// truncated operands.
	sub = goodSubmission(future)
	sub.BasePriceCents = (1 << 32) + 10000
	sub.DiscountedPriceCents = 7000
	_, errs = Validate(sub, now)
	found := false
	for _, fe := range errs {
		if fe.Field == "base_price_cents" && fe.Reason == "value out of range" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an out-of-range error on base_price_cents, got %v", errs)
	}
}

func TestValidate_ReportsAllViolationsTogether(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := goodSubmission(now.Add(24 * time.Hour))
	sub.Title = ""
	sub.TotalSeats = 0
	sub.ContactEmail = "nope"

	_, errs := Validate(sub, now)
	if len(errs) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(errs), errs)
	}
}

func TestValidate_OptionalFieldsMayBeAbsent(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := goodSubmission(now.Add(24 * time.Hour))
	sub.ExternalURL = ""
	sub.ContactPhone = ""

	norm, errs := Validate(sub, now)
	if errs != nil {
		t.Fatalf("expected acceptance, got %v", errs)
	}
	if norm.ExternalURL != nil || norm.ContactPhone != nil {
		t.Fatalf("absent optionals should be nil: %+v", norm)
	}
}

func TestMeetsMinimumDiscount_ExactBoundary(t *testing.T) {
	// 100.00 -> 80.00 is 20%: rejected. 100.00 -> 70.00 is 30%: accepted.
	if MeetsMinimumDiscount(10000, 8000) {
		t.Fatal("20% discount must not pass the 25% floor")
	}
	if !MeetsMinimumDiscount(10000, 7000) {
		t.Fatal("30% discount must pass")
	}
	// Exactly 25% is inclusive.
	if !MeetsMinimumDiscount(10000, 7500) {
		t.Fatal("exact 25% discount must pass")
	}
	// 26.66...% floors to 26 for display but the exact ratio decides
	// acceptance, not the truncated value.
	if !MeetsMinimumDiscount(7500, 5500) {
		t.Fatal("exact ratio above 25% must pass even when display truncates")
	}
}

func TestDiscountPercent_FloorTruncatedAndIdempotent(t *testing.T) {
	if got := DiscountPercent(10000, 8000); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
	if got := DiscountPercent(7500, 5500); got != 26 {
		t.Fatalf("expected floor(26.66)=26, got %d", got)
	}
	// Recomputation from the same prices never drifts.
	for i := 0; i < 3; i++ {
		if got := DiscountPercent(10000, 7000); got != 30 {
			t.Fatalf("expected 30, got %d", got)
		}
	}
	if got := DiscountPercent(0, 0); got != 0 {
		t.Fatalf("degenerate prices must yield 0, got %d", got)
	}
}
