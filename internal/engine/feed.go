package engine

import "time"

// FeedItem is the slice of an opportunity the visibility filter inspects.
type FeedItem struct {
	ProviderID uint64
	Category   string
	Status     Status
	EventAt    time.Time
}

// Audience captures one seeker's viewing constraints: the categories they
// opted into and the providers they blocked.
type Audience struct {
	Preferences map[string]bool
	Blocked     map[uint64]bool
}

// NewAudience builds an Audience from preference and block lists.
func NewAudience(preferences []string, blocked []uint64) Audience {
	a := Audience{
		Preferences: make(map[string]bool, len(preferences)),
		Blocked:     make(map[uint64]bool, len(blocked)),
	}
	for _, p := range preferences {
		a.Preferences[p] = true
	}
	for _, id := range blocked {
		a.Blocked[id] = true
	}
	return a
}

// Sees reports whether one opportunity belongs in this audience's feed: it
// must be validated, not yet past its event date, in a preferred category,
// and not published by a blocked provider.  A seeker with no preferences
// sees nothing; showing everything would defeat the explicit opt-in.
func (a Audience) Sees(it FeedItem, now time.Time) bool {
	if !it.Status.PubliclyVisible() {
		return false
	}
	if !it.EventAt.After(now) {
		return false
	}
	if !a.Preferences[it.Category] {
		return false
	}
	if a.Blocked[it.ProviderID] {
		return false
	}
	return true
}
