package model

import "time"

// Opportunity represents a time-limited, discounted training offer published
// by a provider.  It corresponds to a row in the `opportunities` table.  The
// commercial model and moderation status are machine-managed; the discount
// percentage is never stored and is always recomputed from the two prices.
//
// Fields:
//  ID                   – primary key identifier.
//  ProviderID           – user ID of the publishing provider.
//  Category             – one of the fixed category enumeration.
//  CommercialModel      – LAST_MINUTE or PRE_SALE, derived at submission.
//  Title                – short title of the offer.
//  Summary              – rich-text summary.
//  ExternalURL          – optional absolute link with more details.
//  ImageURL             – optional opaque reference to a stored image.
//  BasePriceCents       – regular price in cents, always positive.
//  DiscountedPriceCents – discounted price in cents, below the base price.
//  TotalSeats           – advertised seat count, at least one.
//  RemainingSeats       – seats still available, 0..TotalSeats.
//  EventAt              – when the training takes place (UTC).
//  ContactEmail         – required contact address.
//  ContactPhone         – optional contact phone, free format.
//  Status               – moderation status (PENDING, VALIDATED, REFUSED,
//                         EXPIRED, COMPLETE).
//  RefusalReason        – optional audit note set when an admin refuses.
//  CreatedAt            – creation timestamp.
//  UpdatedAt            – last update timestamp.
type Opportunity struct {
	ID                   uint64    // opportunities.id
	ProviderID           uint64    // opportunities.provider_id
	Category             string    // opportunities.category
	CommercialModel      string    // opportunities.commercial_model
	Title                string    // opportunities.title
	Summary              string    // opportunities.summary
	ExternalURL          *string   // opportunities.external_url (nullable)
	ImageURL             *string   // opportunities.image_url (nullable)
	BasePriceCents       uint32    // opportunities.base_price_cents
	DiscountedPriceCents uint32    // opportunities.discounted_price_cents
	TotalSeats           uint32    // opportunities.total_seats
	RemainingSeats       uint32    // opportunities.remaining_seats
	EventAt              time.Time // opportunities.event_at
	ContactEmail         string    // opportunities.contact_email
	ContactPhone         *string   // opportunities.contact_phone (nullable)
	Status               string    // opportunities.status
	RefusalReason        *string   // opportunities.refusal_reason (nullable)
	CreatedAt            time.Time // opportunities.created_at
	UpdatedAt            time.Time // opportunities.updated_at
}
