package tanda

import (
	"fmt"

	"github.com/roslynlu/TandaPay/internal/models"
)

// RecordPayment credits a member's premium payment to the pooled funds.
// Requires the group to be in the pre-period, the caller to be a member who
// has not paid yet, and amount to equal the premium exactly. Overpayment and
// underpayment both fail: there is no partial credit and no change-making.
func (r Rules) RecordPayment(g *models.Group, caller string, amount int64) (*models.Group, error) {
	if g.Period != models.PeriodPreStarted {
		return nil, fmt.Errorf("%w: payments require state %q, group is %q", ErrInvalidPeriodState, models.PeriodPreStarted, g.Period)
	}
	if !r.IsMember(caller, g) {
		return nil, fmt.Errorf("%w: only members may pay the premium", ErrUnauthorized)
	}
	if g.HasPaid(caller) {
		return nil, fmt.Errorf("%w: member %q", ErrDuplicatePayment, caller)
	}
	if amount != g.Premium {
		return nil, fmt.Errorf("%w: sent %d, premium is %d", ErrAmountMismatch, amount, g.Premium)
	}

	next := g.Clone()
	next.Paid = append(next.Paid, caller)
	next.PooledFunds += amount
	return next, nil
}
