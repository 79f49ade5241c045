package tanda

import (
	"fmt"
	"time"

	"github.com/roslynlu/TandaPay/internal/models"
)

// FileClaim appends a pending claim for the calling member. Requires an
// active period, 0 < amount <= maxClaim, and no pending or approved claim by
// the caller in the current active cycle. A denied claim does not block a
// new filing. Returns the updated group and the new claim.
func (r Rules) FileClaim(g *models.Group, caller string, amount int64, description string, now time.Time) (*models.Group, *models.Claim, error) {
	if g.Period != models.PeriodActive {
		return nil, nil, fmt.Errorf("%w: claims require state %q, group is %q", ErrInvalidPeriodState, models.PeriodActive, g.Period)
	}
	if !r.IsMember(caller, g) {
		return nil, nil, fmt.Errorf("%w: only members may file claims", ErrUnauthorized)
	}
	if amount <= 0 {
		return nil, nil, fmt.Errorf("%w: claim amount must be positive, got %d", ErrInvariantViolation, amount)
	}
	if amount > g.MaxClaim {
		return nil, nil, fmt.Errorf("%w: requested %d, maximum is %d", ErrClaimTooLarge, amount, g.MaxClaim)
	}
	for i := range g.Claims {
		c := &g.Claims[i]
		if c.Claimant == caller && c.CycleStartedAt == g.ActiveStartedAt && c.Status != models.ClaimDenied {
			return nil, nil, fmt.Errorf("%w: member %q already has claim %d", ErrDuplicateClaim, caller, c.ID)
		}
	}

	next := g.Clone()
	next.Claims = append(next.Claims, models.Claim{
		ID:             len(next.Claims),
		Claimant:       caller,
		Amount:         amount,
		Description:    description,
		Status:         models.ClaimPending,
		FiledAt:        now.Unix(),
		CycleStartedAt: g.ActiveStartedAt,
	})
	return next, &next.Claims[len(next.Claims)-1], nil
}

// ReviewClaim resolves a pending claim. Secretary only. Approval requires
// the pooled funds to cover the payout and debits them by the claim amount;
// the transfer to the claimant is the external ledger's job. Denial moves no
// funds. Resolved claims stay in the history and cannot be reviewed again.
func (r Rules) ReviewClaim(g *models.Group, caller string, claimID int, approve bool) (*models.Group, *models.Claim, error) {
	if !r.IsSecretary(caller, g) {
		return nil, nil, fmt.Errorf("%w: only the secretary may review claims", ErrUnauthorized)
	}
	if claimID < 0 || claimID >= len(g.Claims) {
		return nil, nil, fmt.Errorf("%w: claim %d in group %d", ErrNotFound, claimID, g.ID)
	}
	if g.Claims[claimID].Status != models.ClaimPending {
		return nil, nil, fmt.Errorf("%w: claim %d is %q", ErrAlreadyReviewed, claimID, g.Claims[claimID].Status)
	}

	next := g.Clone()
	claim := &next.Claims[claimID]
	if approve {
		if next.PooledFunds < claim.Amount {
			return nil, nil, fmt.Errorf("%w: pool holds %d, claim is %d", ErrInsufficientFunds, next.PooledFunds, claim.Amount)
		}
		next.PooledFunds -= claim.Amount
		claim.Status = models.ClaimApproved
	} else {
		claim.Status = models.ClaimDenied
	}
	return next, claim, nil
}
