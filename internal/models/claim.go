package models

// ClaimStatus is the review state of a claim.
type ClaimStatus string

const (
	// ClaimPending means the claim is filed and awaiting secretary review.
	ClaimPending ClaimStatus = "pending"

	// ClaimApproved means the secretary approved the claim and the payout
	// was debited from the group's pooled funds.
	ClaimApproved ClaimStatus = "approved"

	// ClaimDenied means the secretary denied the claim. No funds moved.
	ClaimDenied ClaimStatus = "denied"
)

// Claim represents a member's request for a payout from the pooled funds.
type Claim struct {
	// ID is sequential within the owning group (index into Group.Claims).
	ID int

	// Claimant is the user ID of the filing member.
	Claimant string

	// Amount is the requested payout in base units.
	// Invariant: 0 < Amount <= the group's MaxClaim.
	Amount int64

	// Description is the free-text justification. Opaque to invariants.
	Description string

	// Status is the review state.
	Status ClaimStatus

	// FiledAt is the Unix timestamp when the claim was filed.
	FiledAt int64

	// CycleStartedAt is the group's ActiveStartedAt value at filing time.
	// It scopes the one-claim-per-member rule to a single active cycle.
	CycleStartedAt int64
}
