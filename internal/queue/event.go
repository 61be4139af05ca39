// Package queue defines the domain events this service emits over the
// message broker and the background consumer that turns them into
// notification log entries.  The engine emits events, never deliveries;
// actual outbound email is a downstream consumer's job.
package queue

// Queue names, one durable queue per event kind.
const (
	QueueOpportunityValidated = "opportunity.validated"
	QueueOpportunityRefused   = "opportunity.refused"
	QueueOpportunitySoldOut   = "opportunity.soldout"
)

// OpportunityModeratedEvent is published when an administrator approves or
// refuses an opportunity.  For approvals it doubles as the "new opportunity
// in your preferred category" signal: the category and commercial model let
// a notifier fan out to interested seekers without querying the primary
// database.
type OpportunityModeratedEvent struct {
	OpportunityID   uint64  `json:"opportunity_id"`
	ProviderID      uint64  `json:"provider_id"`
	AdminID         uint64  `json:"admin_id"`
	Title           string  `json:"title"`
	Category        string  `json:"category"`
	CommercialModel string  `json:"commercial_model"`
	Status          string  `json:"status"`
	RefusalReason   *string `json:"refusal_reason,omitempty"`
	EventAt         string  `json:"event_at"`
	DecidedAt       string  `json:"decided_at"`
}

// OpportunitySoldOutEvent is published when the capacity ledger's remaining
// count reaches zero and the opportunity completes.
type OpportunitySoldOutEvent struct {
	OpportunityID uint64 `json:"opportunity_id"`
	ProviderID    uint64 `json:"provider_id"`
	Title         string `json:"title"`
	TotalSeats    uint32 `json:"total_seats"`
	SoldOutAt     string `json:"sold_out_at"`
}
