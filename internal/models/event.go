package models

// EventType identifies the kind of notification an event records.
type EventType string

const (
	EventGroupCreated        EventType = "group_created"
	EventPrePeriodStarted    EventType = "pre_period_started"
	EventPremiumPaid         EventType = "premium_paid"
	EventActivePeriodStarted EventType = "active_period_started"
	EventClaimFiled          EventType = "claim_filed"
	EventClaimApproved       EventType = "claim_approved"
	EventClaimDenied         EventType = "claim_denied"
	EventActivePeriodEnded   EventType = "active_period_ended"
)

// Event is an append-only notification record emitted by group operations.
// Events are the audit trail external observers consume; the core never
// reads them back for decisions.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// GroupID is the group the event belongs to.
	GroupID int

	// Type is the kind of event.
	Type EventType

	// Actor is the user ID of the caller that triggered the event.
	Actor string

	// Amount is the monetary amount involved (premium paid, claim payout),
	// 0 when not applicable.
	Amount int64

	// ClaimID is the claim involved, -1 when not applicable.
	ClaimID int

	// CreatedAt is the Unix timestamp when the event was recorded.
	CreatedAt int64
}
