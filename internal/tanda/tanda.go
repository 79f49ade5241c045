// Package tanda implements the group lifecycle and claims state machine:
// group creation invariants, the Created → PreStarted → Active → Ended
// period transitions, premium collection accounting, and claim filing and
// review against the pooled funds.
//
// The package is pure. Operations take the current group state and a caller
// identity, validate every precondition, and return a new group value with
// the full set of changes applied — or a typed error and no change at all.
// Input groups are never mutated, which gives every operation all-or-nothing
// semantics by construction; callers persist the returned value to commit.
package tanda

import "time"

// Defaults for the configurable lifecycle constants.
const (
	// DefaultMinGroupSize is the minimum member count for a new group.
	DefaultMinGroupSize = 10

	// DefaultMinActiveDuration is how long an active period must run
	// before the secretary may end it.
	DefaultMinActiveDuration = 30 * 24 * time.Hour
)

// Rules holds the administrator identity and the lifecycle constants every
// operation validates against. A Rules value is immutable and safe to share.
type Rules struct {
	// Administrator is the single user ID allowed to create groups.
	Administrator string

	// MinGroupSize is the minimum member count for a new group.
	MinGroupSize int

	// MinActiveDuration is the minimum length of an active period.
	MinActiveDuration time.Duration
}

// NewRules returns Rules for the given administrator with default lifecycle
// constants. Callers override the constants before use if configured.
func NewRules(administrator string) Rules {
	return Rules{
		Administrator:     administrator,
		MinGroupSize:      DefaultMinGroupSize,
		MinActiveDuration: DefaultMinActiveDuration,
	}
}
