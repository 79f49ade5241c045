package tanda

import (
	"fmt"
	"time"

	"github.com/roslynlu/TandaPay/internal/models"
)

// StartPrePeriod transitions a group from Created to PreStarted, opening the
// premium collection window. Secretary only.
func (r Rules) StartPrePeriod(g *models.Group, caller string, now time.Time) (*models.Group, error) {
	if !r.IsSecretary(caller, g) {
		return nil, fmt.Errorf("%w: only the secretary may start the pre-period", ErrUnauthorized)
	}
	if g.Period != models.PeriodCreated {
		return nil, fmt.Errorf("%w: pre-period requires state %q, group is %q", ErrInvalidPeriodState, models.PeriodCreated, g.Period)
	}

	next := g.Clone()
	next.Period = models.PeriodPreStarted
	next.PreStartedAt = now.Unix()
	return next, nil
}

// StartActivePeriod transitions a group from PreStarted to Active, beginning
// coverage. Secretary only; requires every member to have paid. A failed
// completeness check leaves all payment state untouched.
func (r Rules) StartActivePeriod(g *models.Group, caller string, now time.Time) (*models.Group, error) {
	if !r.IsSecretary(caller, g) {
		return nil, fmt.Errorf("%w: only the secretary may start the active period", ErrUnauthorized)
	}
	if g.Period != models.PeriodPreStarted {
		return nil, fmt.Errorf("%w: active period requires state %q, group is %q", ErrInvalidPeriodState, models.PeriodPreStarted, g.Period)
	}
	if len(g.Paid) != len(g.Members) {
		return nil, fmt.Errorf("%w: %d of %d members have paid", ErrIncompleteCollection, len(g.Paid), len(g.Members))
	}

	next := g.Clone()
	next.Period = models.PeriodActive
	next.ActiveStartedAt = now.Unix()
	return next, nil
}

// EndActivePeriod transitions a group from Active to Ended once the minimum
// active duration has elapsed. Secretary only. Ended is terminal: there is
// no transition back to Created, recurring cycles are out of scope.
func (r Rules) EndActivePeriod(g *models.Group, caller string, now time.Time) (*models.Group, error) {
	if !r.IsSecretary(caller, g) {
		return nil, fmt.Errorf("%w: only the secretary may end the active period", ErrUnauthorized)
	}
	if g.Period != models.PeriodActive {
		return nil, fmt.Errorf("%w: ending requires state %q, group is %q", ErrInvalidPeriodState, models.PeriodActive, g.Period)
	}
	elapsed := now.Sub(time.Unix(g.ActiveStartedAt, 0))
	if elapsed < r.MinActiveDuration {
		return nil, fmt.Errorf("%w: %s elapsed of required %s", ErrPeriodNotElapsed, elapsed, r.MinActiveDuration)
	}

	next := g.Clone()
	next.Period = models.PeriodEnded
	return next, nil
}
