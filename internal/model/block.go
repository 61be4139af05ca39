package model

import "time"

// BlockEntry relates one seeker to one provider the seeker never wants to
// see opportunities from.  The pair is unique; the entry has no identity
// beyond it.  Rows live in the `block_entries` table.
//
// Fields:
//  SeekerID   – user ID of the blocking seeker.
//  ProviderID – user ID of the blocked provider.
//  CreatedAt  – when the block was placed.
type BlockEntry struct {
	SeekerID   uint64    // block_entries.seeker_id
	ProviderID uint64    // block_entries.provider_id
	CreatedAt  time.Time // block_entries.created_at
}

// Preference records one category a seeker opted into.  A seeker with no
// preference rows sees an empty feed.  Rows live in the `seeker_preferences`
// table, unique per (seeker, category) pair.
type Preference struct {
	SeekerID  uint64    // seeker_preferences.seeker_id
	Category  string    // seeker_preferences.category
	CreatedAt time.Time // seeker_preferences.created_at
}
