package tanda

import (
	"errors"
	"testing"
	"time"

	"github.com/roslynlu/TandaPay/internal/models"
)

func TestFileClaim(t *testing.T) {
	rules := testRules()
	now := time.Unix(1_700_000_000, 0)
	g := activeGroup(t, rules, now)

	next, claim, err := rules.FileClaim(g, "member-3", 5, "roof damage", now)
	if err != nil {
		t.Fatalf("FileClaim failed: %v", err)
	}
	if claim.ID != 0 {
		t.Errorf("claim id = %d, want 0", claim.ID)
	}
	if claim.Claimant != "member-3" {
		t.Errorf("claimant = %q, want member-3", claim.Claimant)
	}
	if claim.Status != models.ClaimPending {
		t.Errorf("status = %q, want %q", claim.Status, models.ClaimPending)
	}
	if claim.CycleStartedAt != g.ActiveStartedAt {
		t.Errorf("cycleStartedAt = %d, want %d", claim.CycleStartedAt, g.ActiveStartedAt)
	}
	if len(next.Claims) != 1 {
		t.Errorf("claims = %d, want 1", len(next.Claims))
	}

	// Filing never moves funds.
	if next.PooledFunds != g.PooledFunds {
		t.Errorf("pooledFunds changed on filing: %d -> %d", g.PooledFunds, next.PooledFunds)
	}
}

func TestFileClaim_Failures(t *testing.T) {
	rules := testRules()
	now := time.Now()
	g := activeGroup(t, rules, now)

	tests := []struct {
		name    string
		caller  string
		amount  int64
		wantErr error
	}{
		{"non-member", "stranger", 5, ErrUnauthorized},
		{"zero amount", "member-0", 0, ErrInvariantViolation},
		{"negative amount", "member-0", -5, ErrInvariantViolation},
		{"above maxClaim", "member-0", 11, ErrClaimTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := rules.FileClaim(g, tt.caller, tt.amount, "x", now)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FileClaim error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFileClaim_OnePerMemberPerCycle(t *testing.T) {
	rules := testRules()
	now := time.Now()
	g := activeGroup(t, rules, now)

	g, _, err := rules.FileClaim(g, "member-0", 5, "first", now)
	if err != nil {
		t.Fatalf("FileClaim failed: %v", err)
	}

	// A second filing fails regardless of amount.
	for _, amount := range []int64{5, 1, 10} {
		if _, _, err := rules.FileClaim(g, "member-0", amount, "second", now); !errors.Is(err, ErrDuplicateClaim) {
			t.Errorf("second FileClaim(%d) error = %v, want %v", amount, err, ErrDuplicateClaim)
		}
	}

	// Other members are unaffected.
	g, _, err = rules.FileClaim(g, "member-1", 3, "other", now)
	if err != nil {
		t.Fatalf("FileClaim by member-1 failed: %v", err)
	}
	if len(g.Claims) != 2 {
		t.Errorf("claims = %d, want 2", len(g.Claims))
	}
	if g.Claims[1].ID != 1 {
		t.Errorf("second claim id = %d, want 1", g.Claims[1].ID)
	}

	// An approved claim blocks refiling just like a pending one.
	g, _, err = rules.ReviewClaim(g, testSecretary, 0, true)
	if err != nil {
		t.Fatalf("ReviewClaim failed: %v", err)
	}
	if _, _, err := rules.FileClaim(g, "member-0", 2, "after approval", now); !errors.Is(err, ErrDuplicateClaim) {
		t.Errorf("FileClaim after approval error = %v, want %v", err, ErrDuplicateClaim)
	}

	// A denied claim does not.
	g, _, err = rules.ReviewClaim(g, testSecretary, 1, false)
	if err != nil {
		t.Fatalf("ReviewClaim failed: %v", err)
	}
	if _, _, err := rules.FileClaim(g, "member-1", 2, "retry after denial", now); err != nil {
		t.Errorf("FileClaim after denial failed: %v", err)
	}
}

func TestReviewClaim_Approve(t *testing.T) {
	rules := testRules()
	now := time.Now()
	g := activeGroup(t, rules, now)
	g, claim, err := rules.FileClaim(g, "member-0", 5, "storm", now)
	if err != nil {
		t.Fatalf("FileClaim failed: %v", err)
	}

	next, reviewed, err := rules.ReviewClaim(g, testSecretary, claim.ID, true)
	if err != nil {
		t.Fatalf("ReviewClaim failed: %v", err)
	}
	if reviewed.Status != models.ClaimApproved {
		t.Errorf("status = %q, want %q", reviewed.Status, models.ClaimApproved)
	}
	if next.PooledFunds != 5 {
		t.Errorf("pooledFunds = %d, want 5 (10 - 5)", next.PooledFunds)
	}

	// Re-review always fails, both ways.
	if _, _, err := rules.ReviewClaim(next, testSecretary, claim.ID, true); !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("re-approve error = %v, want %v", err, ErrAlreadyReviewed)
	}
	if _, _, err := rules.ReviewClaim(next, testSecretary, claim.ID, false); !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("deny-after-approve error = %v, want %v", err, ErrAlreadyReviewed)
	}
}

func TestReviewClaim_Deny(t *testing.T) {
	rules := testRules()
	now := time.Now()
	g := activeGroup(t, rules, now)
	g, claim, err := rules.FileClaim(g, "member-0", 5, "storm", now)
	if err != nil {
		t.Fatalf("FileClaim failed: %v", err)
	}

	next, reviewed, err := rules.ReviewClaim(g, testSecretary, claim.ID, false)
	if err != nil {
		t.Fatalf("ReviewClaim failed: %v", err)
	}
	if reviewed.Status != models.ClaimDenied {
		t.Errorf("status = %q, want %q", reviewed.Status, models.ClaimDenied)
	}
	if next.PooledFunds != g.PooledFunds {
		t.Errorf("denial moved funds: %d -> %d", g.PooledFunds, next.PooledFunds)
	}
}

func TestReviewClaim_InsufficientFunds(t *testing.T) {
	rules := testRules()
	now := time.Now()
	g := activeGroup(t, rules, now)

	// Drain the pool: approve two claims of 5 against a pool of 10, then a
	// third claim cannot be paid.
	for i, member := range []string{"member-0", "member-1"} {
		var err error
		g, _, err = rules.FileClaim(g, member, 5, "drain", now)
		if err != nil {
			t.Fatalf("FileClaim failed: %v", err)
		}
		g, _, err = rules.ReviewClaim(g, testSecretary, i, true)
		if err != nil {
			t.Fatalf("ReviewClaim failed: %v", err)
		}
	}
	if g.PooledFunds != 0 {
		t.Fatalf("pooledFunds = %d, want 0", g.PooledFunds)
	}

	g, claim, err := rules.FileClaim(g, "member-2", 5, "too late", now)
	if err != nil {
		t.Fatalf("FileClaim failed: %v", err)
	}

	_, _, err = rules.ReviewClaim(g, testSecretary, claim.ID, true)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("ReviewClaim error = %v, want %v", err, ErrInsufficientFunds)
	}

	// Failed approval leaves funds and status unchanged.
	if g.PooledFunds != 0 {
		t.Errorf("pooledFunds = %d, want 0", g.PooledFunds)
	}
	if g.Claims[claim.ID].Status != models.ClaimPending {
		t.Errorf("status = %q, want %q", g.Claims[claim.ID].Status, models.ClaimPending)
	}

	// Denial still works with an empty pool.
	next, _, err := rules.ReviewClaim(g, testSecretary, claim.ID, false)
	if err != nil {
		t.Fatalf("deny with empty pool failed: %v", err)
	}
	if next.Claims[claim.ID].Status != models.ClaimDenied {
		t.Errorf("status = %q, want %q", next.Claims[claim.ID].Status, models.ClaimDenied)
	}
}

func TestReviewClaim_Failures(t *testing.T) {
	rules := testRules()
	now := time.Now()
	g := activeGroup(t, rules, now)
	g, _, err := rules.FileClaim(g, "member-0", 5, "storm", now)
	if err != nil {
		t.Fatalf("FileClaim failed: %v", err)
	}

	tests := []struct {
		name    string
		caller  string
		claimID int
		wantErr error
	}{
		{"member cannot review", "member-0", 0, ErrUnauthorized},
		{"admin cannot review", testAdmin, 0, ErrUnauthorized},
		{"claim id out of range", testSecretary, 1, ErrNotFound},
		{"negative claim id", testSecretary, -1, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := rules.ReviewClaim(g, tt.caller, tt.claimID, true)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReviewClaim error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestFullLifecycle walks the end-to-end scenario: 10 members, premium 1,
// maxClaim 10; everyone pays, the period activates, a member's claim of 5 is
// approved (pool 10 -> 5), and after 30 days the secretary ends the period.
func TestFullLifecycle(t *testing.T) {
	rules := testRules()
	start := time.Unix(1_700_000_000, 0)

	g := createdGroup(t, rules, start)
	g, err := rules.StartPrePeriod(g, testSecretary, start)
	if err != nil {
		t.Fatalf("StartPrePeriod failed: %v", err)
	}

	for _, m := range g.Members {
		g, err = rules.RecordPayment(g, m, 1)
		if err != nil {
			t.Fatalf("RecordPayment(%s) failed: %v", m, err)
		}
	}
	if len(g.Paid) != 10 || g.PooledFunds != 10 {
		t.Fatalf("after payments: paid=%d funds=%d, want 10/10", len(g.Paid), g.PooledFunds)
	}

	g, err = rules.StartActivePeriod(g, testSecretary, start)
	if err != nil {
		t.Fatalf("StartActivePeriod failed: %v", err)
	}
	if g.Period != models.PeriodActive {
		t.Fatalf("period = %q, want %q", g.Period, models.PeriodActive)
	}

	g, claim, err := rules.FileClaim(g, "member-7", 5, "flood damage", start.Add(time.Hour))
	if err != nil {
		t.Fatalf("FileClaim failed: %v", err)
	}

	g, _, err = rules.ReviewClaim(g, testSecretary, claim.ID, true)
	if err != nil {
		t.Fatalf("ReviewClaim failed: %v", err)
	}
	if g.PooledFunds != 5 {
		t.Fatalf("pooledFunds = %d, want 5", g.PooledFunds)
	}
	if g.Claims[0].Status != models.ClaimApproved {
		t.Fatalf("status = %q, want %q", g.Claims[0].Status, models.ClaimApproved)
	}

	g, err = rules.EndActivePeriod(g, testSecretary, start.Add(rules.MinActiveDuration))
	if err != nil {
		t.Fatalf("EndActivePeriod failed: %v", err)
	}
	if g.Period != models.PeriodEnded {
		t.Fatalf("period = %q, want %q", g.Period, models.PeriodEnded)
	}
}
