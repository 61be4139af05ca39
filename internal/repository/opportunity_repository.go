package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/nmoreau/lastseats/internal/engine"
	"github.com/nmoreau/lastseats/internal/model"
)

// OpportunityRepo encapsulates all persistence for opportunities, including
// the capacity ledger's atomic seat decrement.  All timestamps are UTC.
type OpportunityRepo struct {
	db *sql.DB
}

// NewOpportunityRepo constructs an OpportunityRepo bound to the given DB.
func NewOpportunityRepo(db *sql.DB) *OpportunityRepo { return &OpportunityRepo{db: db} }

// DB exposes the underlying handle for callers that need transactions.
func (r *OpportunityRepo) DB() *sql.DB { return r.db }

const opportunityColumns = `id, provider_id, category, commercial_model, title, summary,
	external_url, image_url, base_price_cents, discounted_price_cents,
	total_seats, remaining_seats, event_at, contact_email, contact_phone,
	status, refusal_reason, created_at, updated_at`

func scanOpportunity(row interface{ Scan(...any) error }) (*model.Opportunity, error) {
	var o model.Opportunity
	var externalURL, imageURL, contactPhone, refusalReason sql.NullString
	err := row.Scan(
		&o.ID, &o.ProviderID, &o.Category, &o.CommercialModel, &o.Title, &o.Summary,
		&externalURL, &imageURL, &o.BasePriceCents, &o.DiscountedPriceCents,
		&o.TotalSeats, &o.RemainingSeats, &o.EventAt, &o.ContactEmail, &contactPhone,
		&o.Status, &refusalReason, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if externalURL.Valid {
		v := externalURL.String
		o.ExternalURL = &v
	}
	if imageURL.Valid {
		v := imageURL.String
		o.ImageURL = &v
	}
	if contactPhone.Valid {
		v := contactPhone.String
		o.ContactPhone = &v
	}
	if refusalReason.Valid {
		v := refusalReason.String
		o.RefusalReason = &v
	}
	return &o, nil
}

// Create inserts a new opportunity and populates its ID and the DB-assigned
// timestamps.  RemainingSeats starts equal to TotalSeats and the status is
// whatever the caller set (PENDING at submission).
func (r *OpportunityRepo) Create(ctx context.Context, o *model.Opportunity) error {
	const q = `INSERT INTO opportunities
		(provider_id, category, commercial_model, title, summary, external_url, image_url,
		 base_price_cents, discounted_price_cents, total_seats, remaining_seats,
		 event_at, contact_email, contact_phone, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		o.ProviderID, o.Category, o.CommercialModel, o.Title, o.Summary, o.ExternalURL, o.ImageURL,
		o.BasePriceCents, o.DiscountedPriceCents, o.TotalSeats, o.RemainingSeats,
		o.EventAt.UTC(), o.ContactEmail, o.ContactPhone, o.Status,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	fresh, err := r.GetByID(ctx, o.ID)
	if err != nil {
		return err
	}
	*o = *fresh
	return nil
}

// GetByID fetches a single opportunity.
func (r *OpportunityRepo) GetByID(ctx context.Context, id uint64) (*model.Opportunity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = ?`, id)
	o, err := scanOpportunity(row)
	if err == sql.ErrNoRows {
		return nil, ErrOpportunityNotFound
	}
	return o, err
}

// GetByIDForProvider fetches an opportunity and enforces ownership.  A row
// owned by another provider yields ErrForbidden, a missing row
// ErrOpportunityNotFound.
func (r *OpportunityRepo) GetByIDForProvider(ctx context.Context, id, providerID uint64) (*model.Opportunity, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.ProviderID != providerID {
		return nil, ErrForbidden
	}
	return o, nil
}

func (r *OpportunityRepo) list(ctx context.Context, q string, args ...any) ([]model.Opportunity, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Opportunity{}
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// ListByProvider returns all opportunities published by one provider, newest
// first, regardless of moderation status.
func (r *OpportunityRepo) ListByProvider(ctx context.Context, providerID uint64) ([]model.Opportunity, error) {
	return r.list(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE provider_id = ? ORDER BY created_at DESC`,
		providerID)
}

// ListVisible returns every validated opportunity whose event is still
// ahead, ordered by event date.  Preference and block filtering happen in
// the engine on top of this set.
func (r *OpportunityRepo) ListVisible(ctx context.Context, now time.Time) ([]model.Opportunity, error) {
	return r.list(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities
		 WHERE status = 'VALIDATED' AND event_at > ? ORDER BY event_at ASC`,
		now.UTC())
}

// ListPending returns the moderation queue: pending opportunities, oldest
// submission first.
func (r *OpportunityRepo) ListPending(ctx context.Context) ([]model.Opportunity, error) {
	return r.list(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE status = 'PENDING' ORDER BY created_at ASC`)
}

// UpdateTerms rewrites the commercial terms of an opportunity.  Moderation
// status is deliberately untouched; a validated opportunity keeps its status
// across edits unless the provider explicitly resubmits.
func (r *OpportunityRepo) UpdateTerms(ctx context.Context, o *model.Opportunity) error {
	const q = `UPDATE opportunities SET
		category = ?, commercial_model = ?, title = ?, summary = ?,
		external_url = ?, image_url = ?, base_price_cents = ?, discounted_price_cents = ?,
		total_seats = ?, remaining_seats = ?, event_at = ?, contact_email = ?, contact_phone = ?
		WHERE id = ? AND provider_id = ?`
	_, err := r.db.ExecContext(ctx, q,
		o.Category, o.CommercialModel, o.Title, o.Summary,
		o.ExternalURL, o.ImageURL, o.BasePriceCents, o.DiscountedPriceCents,
		o.TotalSeats, o.RemainingSeats, o.EventAt.UTC(), o.ContactEmail, o.ContactPhone,
		o.ID, o.ProviderID,
	)
	return err
}

// UpdateStatusFrom performs a guarded moderation transition: the row is
// updated only if it is still in the expected source status.  A zero row
// count means the stored state moved underneath the caller and is reported
// as ErrConflict.  The refusal reason is cleared on every transition except
// an explicit refusal.
func (r *OpportunityRepo) UpdateStatusFrom(ctx context.Context, id uint64, from, to string, refusalReason *string) error {
	const q = `UPDATE opportunities SET status = ?, refusal_reason = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, to, refusalReason, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// ExpireDue flips every pending or validated opportunity whose event date
// has passed to EXPIRED.  The statement is idempotent and safe to run from
// any fetch path or a periodic sweep; it returns how many rows changed.
func (r *OpportunityRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	const q = `UPDATE opportunities SET status = 'EXPIRED'
		WHERE event_at <= ? AND status IN ('PENDING', 'VALIDATED')`
	res, err := r.db.ExecContext(ctx, q, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ConsumeSeats atomically debits n seats.  The conditional UPDATE is the
// single compare-and-decrement the concurrency model requires: two callers
// racing for the last seat cannot both pass the remaining_seats >= n guard,
// so the count never goes negative.  The event_at guard keeps a listing the
// expiry sweep has not reached yet from taking reservations after its event.
// On success the new remaining count is returned; 0 affected rows is
// diagnosed into not-found, sold-out or a status/date conflict.
func (r *OpportunityRepo) ConsumeSeats(ctx context.Context, id uint64, n uint32, now time.Time) (uint32, error) {
	const q = `UPDATE opportunities SET remaining_seats = remaining_seats - ?
		WHERE id = ? AND status = 'VALIDATED' AND event_at > ? AND remaining_seats >= ?`
	res, err := r.db.ExecContext(ctx, q, n, id, now.UTC(), n)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		o, err := r.GetByID(ctx, id)
		if err != nil {
			return 0, err
		}
		if !engine.ConsumableNow(engine.Status(o.Status), o.EventAt, now) {
			return o.RemainingSeats, ErrConflict
		}
		return o.RemainingSeats, engine.ErrSeatsExhausted
	}
	var remaining uint32
	err = r.db.QueryRowContext(ctx,
		`SELECT remaining_seats FROM opportunities WHERE id = ?`, id).Scan(&remaining)
	return remaining, err
}

// ReleaseSeats credits n seats back for a cancellation, guarded so the count
// can never exceed the advertised total.
func (r *OpportunityRepo) ReleaseSeats(ctx context.Context, id uint64, n uint32) (uint32, error) {
	const q = `UPDATE opportunities SET remaining_seats = remaining_seats + ?
		WHERE id = ? AND remaining_seats + ? <= total_seats`
	res, err := r.db.ExecContext(ctx, q, n, id, n)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		o, err := r.GetByID(ctx, id)
		if err != nil {
			return 0, err
		}
		return o.RemainingSeats, engine.ErrReleaseOverflow
	}
	var remaining uint32
	err = r.db.QueryRowContext(ctx,
		`SELECT remaining_seats FROM opportunities WHERE id = ?`, id).Scan(&remaining)
	return remaining, err
}

// MarkComplete flips a validated opportunity to COMPLETE.  Idempotent: a row
// already complete (or moved elsewhere) is left alone.
func (r *OpportunityRepo) MarkComplete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE opportunities SET status = 'COMPLETE' WHERE id = ? AND status = 'VALIDATED'`, id)
	return err
}

// Delete removes an opportunity owned by the given provider.  Admins delete
// through a zero providerID, which skips the ownership clause.
func (r *OpportunityRepo) Delete(ctx context.Context, id, providerID uint64) error {
	var (
		res sql.Result
		err error
	)
	if providerID == 0 {
		res, err = r.db.ExecContext(ctx, `DELETE FROM opportunities WHERE id = ?`, id)
	} else {
		res, err = r.db.ExecContext(ctx,
			`DELETE FROM opportunities WHERE id = ? AND provider_id = ?`, id, providerID)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrForbidden
	}
	return nil
}
