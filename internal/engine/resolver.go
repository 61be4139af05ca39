package engine

import "time"

// CommercialModel classifies an opportunity by how far ahead of its event it
// was published.  The value is machine-derived and never user-supplied.
type CommercialModel string

const (
	ModelLastMinute CommercialModel = "LAST_MINUTE"
	ModelPreSale    CommercialModel = "PRE_SALE"
)

// Window thresholds for the commercial model.  Offers published strictly
// between the two fall in a deliberate dead zone and are rejected.
const (
	lastMinuteMaxDays = 3
	preSaleMinDays    = 56

	// LastMinuteWindow is the largest gap to the event that still counts as
	// a last-minute offer (inclusive).
	LastMinuteWindow = lastMinuteMaxDays * 24 * time.Hour
	// PreSaleWindow is the smallest gap to the event that counts as a
	// pre-sale offer (inclusive).
	PreSaleWindow = preSaleMinDays * 24 * time.Hour
)

// ResolveModel derives the commercial model from the gap between now and the
// event date.  It is total: every input yields last-minute, pre-sale, or a
// *SchedulingError for the dead zone in between.  Both boundaries are
// inclusive on the accepting side.  Whether the event is in the past is the
// concern of Validate, not of the resolver.
func ResolveModel(eventAt, now time.Time) (CommercialModel, error) {
	gap := eventAt.Sub(now)
	switch {
	case gap <= LastMinuteWindow:
		return ModelLastMinute, nil
	case gap >= PreSaleWindow:
		return ModelPreSale, nil
	default:
		return "", &SchedulingError{DaysUntilEvent: gap.Hours() / 24}
	}
}
