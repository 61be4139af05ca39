package repository

import (
	"context"
	"database/sql"
)

// BlockRepo persists the per-seeker provider block list.  Entries are unique
// per (seeker, provider) pair and both operations are idempotent, so
// repeating a block or unblock is harmless.
type BlockRepo struct {
	db *sql.DB
}

// NewBlockRepo constructs a BlockRepo bound to the given DB.
func NewBlockRepo(db *sql.DB) *BlockRepo { return &BlockRepo{db: db} }

// Block inserts a block entry.  INSERT IGNORE makes a repeated block a
// no-op against the unique (seeker_id, provider_id) key.
func (r *BlockRepo) Block(ctx context.Context, seekerID, providerID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO block_entries (seeker_id, provider_id) VALUES (?, ?)`,
		seekerID, providerID)
	return err
}

// Unblock removes a block entry.  Deleting an absent pair is a no-op.
func (r *BlockRepo) Unblock(ctx context.Context, seekerID, providerID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM block_entries WHERE seeker_id = ? AND provider_id = ?`,
		seekerID, providerID)
	return err
}

// ListBlocked returns the IDs of every provider the seeker has blocked.
func (r *BlockRepo) ListBlocked(ctx context.Context, seekerID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT provider_id FROM block_entries WHERE seeker_id = ? ORDER BY provider_id`,
		seekerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
