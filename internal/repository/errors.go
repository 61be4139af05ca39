// Package repository contains the data access layer over MySQL.  This file
// defines sentinel errors shared across repositories so handlers can map
// failure modes to HTTP responses without inspecting SQL errors.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else, such as a provider editing another
// provider's opportunity.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot proceed because the stored
// state no longer permits it, such as approving an opportunity that left
// PENDING between read and write.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrOpportunityNotFound is returned when the referenced opportunity does
// not exist.
var ErrOpportunityNotFound = errors.New("opportunity not found")

// ErrUserNotFound is returned when a referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")
