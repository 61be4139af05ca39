package repository

import (
	"context"
	"database/sql"
)

// PreferenceRepo persists seeker category preferences.  The set is replaced
// wholesale on update; an empty set is a legitimate state meaning "show me
// nothing".
type PreferenceRepo struct {
	db *sql.DB
}

// NewPreferenceRepo constructs a PreferenceRepo bound to the given DB.
func NewPreferenceRepo(db *sql.DB) *PreferenceRepo { return &PreferenceRepo{db: db} }

// Get returns the categories the seeker opted into.
func (r *PreferenceRepo) Get(ctx context.Context, seekerID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category FROM seeker_preferences WHERE seeker_id = ? ORDER BY category`,
		seekerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Replace swaps the seeker's preference set for the given categories inside
// one transaction, so a concurrent feed read sees either the old or the new
// set, never a half-written one.
func (r *PreferenceRepo) Replace(ctx context.Context, seekerID uint64, categories []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM seeker_preferences WHERE seeker_id = ?`, seekerID); err != nil {
		return err
	}
	if len(categories) > 0 {
		query := `INSERT INTO seeker_preferences (seeker_id, category) VALUES `
		args := make([]interface{}, 0, len(categories)*2)
		for i, c := range categories {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, seekerID, c)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
