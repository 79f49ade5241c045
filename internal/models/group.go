package models

// Period is the lifecycle state of a group's coverage cycle.
type Period string

const (
	// PeriodCreated is the initial state after group creation.
	PeriodCreated Period = "created"

	// PeriodPreStarted is the premium collection window. Members pay in,
	// coverage is not yet active.
	PeriodPreStarted Period = "pre_started"

	// PeriodActive is the coverage window. Claims may be filed and reviewed.
	PeriodActive Period = "active"

	// PeriodEnded is terminal: coverage is over and no further lifecycle
	// transitions are possible.
	PeriodEnded Period = "ended"
)

// Group represents a fixed cohort of policyholders sharing one premium pool.
//
// Membership, premium, and maxClaim are fixed at creation. Everything else
// (period, payments, pooled funds, claims) evolves through the tanda package,
// which is the only code allowed to mutate a Group.
type Group struct {
	// ID is the sequential integer id assigned at creation, starting at 0.
	ID int

	// Secretary is the user ID authorized to drive period transitions and
	// review claims for this group.
	Secretary string

	// Members is the fixed list of member user IDs, in creation order.
	// Pairwise distinct, never modified after creation.
	Members []string

	// Premium is the exact amount (base units) each member must pay once
	// during the pre-period.
	Premium int64

	// MaxClaim is the upper bound on any single claim amount.
	// Invariant: MaxClaim <= Premium * len(Members).
	MaxClaim int64

	// Period is the current lifecycle state.
	Period Period

	// PreStartedAt is the Unix timestamp of the pre-period transition,
	// 0 until it happens.
	PreStartedAt int64

	// ActiveStartedAt is the Unix timestamp of the active-period transition,
	// 0 until it happens. Claims record this value as their cycle marker.
	ActiveStartedAt int64

	// Paid lists the member IDs that have paid the current cycle's premium,
	// in payment order.
	Paid []string

	// PooledFunds is the escrowed balance (base units): premium payments in,
	// approved claim payouts out.
	PooledFunds int64

	// Claims is the ordered, append-only claim history. Claim IDs are
	// indices into this slice.
	Claims []Claim

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasPaid reports whether the given member has paid the current premium.
func (g *Group) HasPaid(userID string) bool {
	for _, id := range g.Paid {
		if id == userID {
			return true
		}
	}
	return false
}

// HasMember reports whether the given user is a member of the group.
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the group. The tanda package stages every
// mutation on a clone so a failed precondition leaves the original untouched.
func (g *Group) Clone() *Group {
	c := *g
	c.Members = append([]string(nil), g.Members...)
	c.Paid = append([]string(nil), g.Paid...)
	c.Claims = append([]Claim(nil), g.Claims...)
	return &c
}
