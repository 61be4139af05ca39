// Package engine implements the domain rules governing an opportunity's
// lifecycle: submission validation, commercial model derivation, the
// moderation state machine, the seat capacity ledger and the per-seeker
// visibility filter.  Every function is pure; the current time is always an
// explicit parameter so boundary conditions can be tested deterministically.
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError describes a single validation failure on a named submission
// field.  Violations are collected so a caller can report them all at once.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string { return e.Field + ": " + e.Reason }

// ValidationErrors aggregates every rule violation found in one submission.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SchedulingError is returned when an event date falls in the dead zone
// between the last-minute and pre-sale windows.  The message names both
// thresholds so the caller can suggest a valid date.
type SchedulingError struct {
	DaysUntilEvent float64
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf(
		"event is %.1f days away: offers must be published at most %d days before the event (last minute) or at least %d days before (pre-sale)",
		e.DaysUntilEvent, lastMinuteMaxDays, preSaleMinDays)
}

// InvalidTransitionError reports a moderation transition invoked from a state
// that structurally cannot reach it.  This is engine misuse by the caller,
// not an ordinary domain refusal, and is therefore a distinct type.
type InvalidTransitionError struct {
	From Status
	Op   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s an opportunity in status %s", e.Op, e.From)
}

// ErrSeatsExhausted is returned by the capacity ledger when a consumption
// request exceeds the remaining seats.  Callers should surface "sold out"
// rather than retry.
var ErrSeatsExhausted = errors.New("not enough remaining seats")

// ErrReleaseOverflow is returned when releasing seats would push the
// remaining count above the advertised total.
var ErrReleaseOverflow = errors.New("release would exceed total seats")

// ErrProviderNotVerified gates submission: only identity-verified providers
// may publish opportunities.
var ErrProviderNotVerified = errors.New("provider identity is not verified")
