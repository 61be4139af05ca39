package engine

import (
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Opportunity categories form a fixed enumeration.  The constants are stored
// verbatim in the database and carried in seeker preferences.
const (
	CategoryDance   = "DANCE"
	CategoryTheatre = "THEATRE"
	CategoryMusic   = "MUSIC"
	CategorySinging = "SINGING"
	CategoryCircus  = "CIRCUS"
	CategoryOther   = "OTHER"
)

// Categories lists every valid opportunity category.
var Categories = []string{
	CategoryDance, CategoryTheatre, CategoryMusic,
	CategorySinging, CategoryCircus, CategoryOther,
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c string) bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// MinDiscountPercent is the smallest discount an opportunity may advertise.
const MinDiscountPercent = 25

// emailRe matches a pragmatic email syntax: one non-space local part, an @,
// and a dotted domain.  Stricter RFC parsing is left to the mail provider.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Submission carries the raw, user-supplied fields of a new or edited
// opportunity.  Prices and seats are signed so that negative input survives
// JSON binding and is rejected here rather than silently wrapping.
type Submission struct {
	Category             string
	Title                string
	Summary              string
	ExternalURL          string
	ImageURL             string
	BasePriceCents       int64
	DiscountedPriceCents int64
	TotalSeats           int64
	EventAt              time.Time
	ContactEmail         string
	ContactPhone         string
}

// Normalized is the validated, trimmed form of a submission.  Optional
// fields are nil when absent.  The commercial model is not part of the
// normalized submission; it is derived separately by ResolveModel.
type Normalized struct {
	Category             string
	Title                string
	Summary              string
	ExternalURL          *string
	ImageURL             *string
	BasePriceCents       uint32
	DiscountedPriceCents uint32
	TotalSeats           uint32
	EventAt              time.Time
	ContactEmail         string
	ContactPhone         *string
}

// Validate checks every field-level and cross-field rule on a submission and
// returns either the normalized form or the full list of violations.  Rules
// are evaluated independently: a broken price does not hide a broken date.
func Validate(sub Submission, now time.Time) (*Normalized, ValidationErrors) {
	var errs ValidationErrors

	category := strings.ToUpper(strings.TrimSpace(sub.Category))
	if !ValidCategory(category) {
		errs = append(errs, FieldError{Field: "category", Reason: "unknown category"})
	}

	title := strings.TrimSpace(sub.Title)
	if title == "" {
		errs = append(errs, FieldError{Field: "title", Reason: "title is required"})
	}
	summary := strings.TrimSpace(sub.Summary)
	if summary == "" {
		errs = append(errs, FieldError{Field: "summary", Reason: "summary is required"})
	}

	var externalURL *string
	if link := strings.TrimSpace(sub.ExternalURL); link != "" {
		if !validAbsoluteURL(link) {
			errs = append(errs, FieldError{Field: "external_url", Reason: "must be an absolute URL"})
		} else {
			externalURL = &link
		}
	}
	var imageURL *string
	if img := strings.TrimSpace(sub.ImageURL); img != "" {
		imageURL = &img
	}

	// Numeric fields are stored as uint32; anything outside that range must
	// fail here, not truncate silently on the narrowing conversion below.
	basePriceOK := priceInRange(sub.BasePriceCents)
	discountedOK := priceInRange(sub.DiscountedPriceCents)
	if !basePriceOK {
		errs = append(errs, FieldError{Field: "base_price_cents", Reason: priceRangeReason(sub.BasePriceCents)})
	}
	if !discountedOK {
		errs = append(errs, FieldError{Field: "discounted_price_cents", Reason: priceRangeReason(sub.DiscountedPriceCents)})
	}
	if basePriceOK && discountedOK {
		if sub.DiscountedPriceCents >= sub.BasePriceCents {
			errs = append(errs, FieldError{Field: "discounted_price_cents", Reason: "must be lower than base price"})
		} else if !MeetsMinimumDiscount(uint32(sub.BasePriceCents), uint32(sub.DiscountedPriceCents)) {
			errs = append(errs, FieldError{Field: "discounted_price_cents", Reason: "minimum 25% discount required"})
		}
	}

	if sub.TotalSeats < 1 {
		errs = append(errs, FieldError{Field: "total_seats", Reason: "at least one seat is required"})
	} else if sub.TotalSeats > math.MaxUint32 {
		errs = append(errs, FieldError{Field: "total_seats", Reason: "value out of range"})
	}

	if !sub.EventAt.After(now) {
		errs = append(errs, FieldError{Field: "event_at", Reason: "event date must be in the future"})
	}

	email := strings.ToLower(strings.TrimSpace(sub.ContactEmail))
	if email == "" {
		errs = append(errs, FieldError{Field: "contact_email", Reason: "contact email is required"})
	} else if !emailRe.MatchString(email) {
		errs = append(errs, FieldError{Field: "contact_email", Reason: "invalid email address"})
	}
	var phone *string
	if p := strings.TrimSpace(sub.ContactPhone); p != "" {
		phone = &p
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &Normalized{
		Category:             category,
		Title:                title,
		Summary:              summary,
		ExternalURL:          externalURL,
		ImageURL:             imageURL,
		BasePriceCents:       uint32(sub.BasePriceCents),
		DiscountedPriceCents: uint32(sub.DiscountedPriceCents),
		TotalSeats:           uint32(sub.TotalSeats),
		EventAt:              sub.EventAt.UTC(),
		ContactEmail:         email,
		ContactPhone:         phone,
	}, nil
}

// MeetsMinimumDiscount checks the >=25% rule using exact integer arithmetic:
// (base - discounted) / base >= 25/100 without any truncation.
func MeetsMinimumDiscount(baseCents, discountedCents uint32) bool {
	if baseCents == 0 {
		return false
	}
	return uint64(baseCents-discountedCents)*100 >= uint64(MinDiscountPercent)*uint64(baseCents)
}

// DiscountPercent returns the floor-truncated discount percentage for
// display.  It is always recomputed from the two prices and never stored, so
// the shown percentage cannot diverge from the price fields.
func DiscountPercent(baseCents, discountedCents uint32) uint32 {
	if baseCents == 0 || discountedCents >= baseCents {
		return 0
	}
	return uint32(uint64(baseCents-discountedCents) * 100 / uint64(baseCents))
}

func priceInRange(cents int64) bool {
	return cents > 0 && cents <= math.MaxUint32
}

func priceRangeReason(cents int64) string {
	if cents <= 0 {
		return "must be greater than zero"
	}
	return "value out of range"
}

func validAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs() && u.Host != ""
}
