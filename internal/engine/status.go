package engine

// Status is the moderation state of an opportunity.  Transitions form a DAG:
// PENDING -> VALIDATED | REFUSED, PENDING|VALIDATED -> EXPIRED (automatic),
// VALIDATED -> COMPLETE.  Nothing ever cycles back into PENDING except an
// explicit provider resubmission, which is a new submission, not a
// transition.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusValidated Status = "VALIDATED"
	StatusRefused   Status = "REFUSED"
	StatusExpired   Status = "EXPIRED"
	StatusComplete  Status = "COMPLETE"
)

// ValidStatus reports whether s is a known moderation status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusValidated, StatusRefused, StatusExpired, StatusComplete:
		return true
	}
	return false
}

// PubliclyVisible reports whether an opportunity in this status may appear
// in a seeker's feed.  Only validated opportunities qualify.
func (s Status) PubliclyVisible() bool { return s == StatusValidated }

// Approve moves a pending opportunity to VALIDATED.  Any other source state
// is engine misuse and yields an *InvalidTransitionError.
func Approve(cur Status) (Status, error) {
	if cur != StatusPending {
		return cur, &InvalidTransitionError{From: cur, Op: "approve"}
	}
	return StatusValidated, nil
}

// Reject moves a pending opportunity to REFUSED.  The refusal reason is free
// text carried by the caller and stored alongside the row.
func Reject(cur Status) (Status, error) {
	if cur != StatusPending {
		return cur, &InvalidTransitionError{From: cur, Op: "reject"}
	}
	return StatusRefused, nil
}

// Expire moves a pending or validated opportunity to EXPIRED once its event
// date has passed.  It is idempotent and order-independent: invoking it on a
// terminal state is a no-op, never an error.  The second return value
// reports whether the status actually changed.
func Expire(cur Status) (Status, bool) {
	if cur == StatusPending || cur == StatusValidated {
		return StatusExpired, true
	}
	return cur, false
}

// Complete marks a validated opportunity COMPLETE once its remaining seats
// reach zero.  Re-invoking on an already-complete opportunity is a no-op;
// any other source state is engine misuse.
func Complete(cur Status) (Status, bool, error) {
	switch cur {
	case StatusValidated:
		return StatusComplete, true, nil
	case StatusComplete:
		return cur, false, nil
	default:
		return cur, false, &InvalidTransitionError{From: cur, Op: "complete"}
	}
}
