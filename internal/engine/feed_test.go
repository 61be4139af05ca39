package engine

import (
	"testing"
	"time"
)

func feedFixture(now time.Time) []FeedItem {
	return []FeedItem{
		{ProviderID: 1, Category: CategoryDance, Status: StatusValidated, EventAt: now.Add(48 * time.Hour)},
		{ProviderID: 2, Category: CategoryDance, Status: StatusValidated, EventAt: now.Add(24 * time.Hour)},
		{ProviderID: 1, Category: CategoryMusic, Status: StatusValidated, EventAt: now.Add(24 * time.Hour)},
		{ProviderID: 1, Category: CategoryDance, Status: StatusPending, EventAt: now.Add(24 * time.Hour)},
		{ProviderID: 1, Category: CategoryDance, Status: StatusRefused, EventAt: now.Add(24 * time.Hour)},
		{ProviderID: 1, Category: CategoryDance, Status: StatusValidated, EventAt: now.Add(-time.Hour)},
	}
}

func countVisible(items []FeedItem, a Audience, now time.Time) int {
	n := 0
	for _, it := range items {
		if a.Sees(it, now) {
			n++
		}
	}
	return n
}

func TestAudience_EmptyPreferencesSeesNothing(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewAudience(nil, nil)
	if got := countVisible(feedFixture(now), a, now); got != 0 {
		t.Fatalf("no preferences must mean an empty feed, saw %d items", got)
	}
}

func TestAudience_FiltersByPreferenceStatusAndDate(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewAudience([]string{CategoryDance}, nil)
	// Only the two validated, unexpired DANCE items qualify; the pending,
	// refused and past ones do not, nor does the MUSIC item.
	if got := countVisible(feedFixture(now), a, now); got != 2 {
		t.Fatalf("expected 2 visible items, got %d", got)
	}
}

func TestAudience_BlockingAndUnblockingAProvider(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	items := feedFixture(now)

	blocked := NewAudience([]string{CategoryDance}, []uint64{1})
	if got := countVisible(items, blocked, now); got != 1 {
		t.Fatalf("blocking provider 1 should leave only provider 2's item, got %d", got)
	}

	unblocked := NewAudience([]string{CategoryDance}, nil)
	if got := countVisible(items, unblocked, now); got != 2 {
		t.Fatalf("unblocking must restore the provider's items, got %d", got)
	}
}

func TestAudience_EventExactlyNowIsNotVisible(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewAudience([]string{CategoryDance}, nil)
	it := FeedItem{ProviderID: 3, Category: CategoryDance, Status: StatusValidated, EventAt: now}
	if a.Sees(it, now) {
		t.Fatal("an event starting exactly now is already past the visibility window")
	}
}
