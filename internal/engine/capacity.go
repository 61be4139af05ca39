package engine

import "time"

// The capacity ledger owns the remaining-seat count.  The authoritative
// decrement is a conditional UPDATE in the repository so concurrent callers
// can never drive the count negative; the functions here define the ledger's
// arithmetic and the errors the storage layer surfaces.

// ConsumeSeats debits n seats from remaining.  It fails with
// ErrSeatsExhausted when fewer than n seats remain, and reports whether the
// debit emptied the ledger so the caller can trigger the COMPLETE
// transition.
func ConsumeSeats(remaining, n uint32) (left uint32, exhausted bool, err error) {
	if n == 0 {
		return remaining, false, nil
	}
	if n > remaining {
		return remaining, false, ErrSeatsExhausted
	}
	left = remaining - n
	return left, left == 0, nil
}

// ReleaseSeats credits n seats back, for cancellations.  The count may never
// exceed the advertised total.  The headroom comparison cannot wrap: with
// remaining <= total the subtraction is exact, whereas remaining+n could
// overflow uint32 and slip past the guard.
func ReleaseSeats(total, remaining, n uint32) (uint32, error) {
	if n > total-remaining {
		return remaining, ErrReleaseOverflow
	}
	return remaining + n, nil
}

// ConsumableNow reports whether a listing may take reservations at all: it
// must be VALIDATED and its event still ahead.  The storage layer enforces
// the same rule inside its conditional decrement; this is the shared
// definition both sides agree on.
func ConsumableNow(status Status, eventAt, now time.Time) bool {
	return status == StatusValidated && eventAt.After(now)
}
