package tanda

import (
	"fmt"
	"time"

	"github.com/roslynlu/TandaPay/internal/models"
)

// NewGroup validates the creation invariants and returns a new group in the
// Created state with an empty ledger and no claims. id is the sequential
// registry position the caller has reserved for the group.
//
// Preconditions are checked in a fixed order so failure diagnostics are
// deterministic: administrator role, group size, distinct members, maxClaim
// bound, positive premium, positive maxClaim.
func (r Rules) NewGroup(caller, secretary string, members []string, premium, maxClaim int64, id int, now time.Time) (*models.Group, error) {
	if !r.IsAdministrator(caller) {
		return nil, fmt.Errorf("%w: only the administrator may create groups", ErrUnauthorized)
	}
	if len(members) < r.MinGroupSize {
		return nil, fmt.Errorf("%w: group requires at least %d members, got %d", ErrInvariantViolation, r.MinGroupSize, len(members))
	}
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if seen[m] {
			return nil, fmt.Errorf("%w: duplicate member %q", ErrInvariantViolation, m)
		}
		seen[m] = true
	}
	if maxClaim > premium*int64(len(members)) {
		return nil, fmt.Errorf("%w: maxClaim %d exceeds premium x members (%d)", ErrInvariantViolation, maxClaim, premium*int64(len(members)))
	}
	if premium <= 0 {
		return nil, fmt.Errorf("%w: premium must be positive, got %d", ErrInvariantViolation, premium)
	}
	if maxClaim <= 0 {
		return nil, fmt.Errorf("%w: maxClaim must be positive, got %d", ErrInvariantViolation, maxClaim)
	}

	return &models.Group{
		ID:        id,
		Secretary: secretary,
		Members:   append([]string(nil), members...),
		Premium:   premium,
		MaxClaim:  maxClaim,
		Period:    models.PeriodCreated,
		CreatedAt: now.Unix(),
	}, nil
}
