package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/roslynlu/TandaPay/internal/models"
	"github.com/roslynlu/TandaPay/internal/storage"
	"github.com/roslynlu/TandaPay/internal/storage/sqlite"
	"github.com/roslynlu/TandaPay/internal/tanda"
)

const (
	adminID     = "admin-user"
	secretaryID = "secretary-user"
)

func memberIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("member-user-%d", i)
	}
	return ids
}

// setupPoolService builds a PoolService over a temp SQLite store with a
// controllable clock.
func setupPoolService(t *testing.T) (*PoolService, *time.Time, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	svc := NewPoolService(tanda.NewRules(adminID), store)
	clock := time.Unix(1_700_000_000, 0)
	svc.now = func() time.Time { return clock }

	cleanup := func() {
		store.Close()
		os.Remove(tmpFile.Name())
	}
	return svc, &clock, cleanup
}

func createTestGroup(t *testing.T, svc *PoolService) *models.Group {
	t.Helper()
	group, err := svc.CreateGroup(context.Background(), adminID, secretaryID, memberIDs(10), 1, 10)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func TestPoolService_CreateGroup(t *testing.T) {
	svc, _, cleanup := setupPoolService(t)
	defer cleanup()
	ctx := context.Background()

	group := createTestGroup(t, svc)
	if group.ID != 0 {
		t.Errorf("first group id = %d, want 0", group.ID)
	}

	// Sequential IDs across creations.
	second, err := svc.CreateGroup(ctx, adminID, secretaryID, memberIDs(10), 2, 20)
	if err != nil {
		t.Fatalf("second CreateGroup failed: %v", err)
	}
	if second.ID != 1 {
		t.Errorf("second group id = %d, want 1", second.ID)
	}

	// Accessors reflect the stored state.
	got, err := svc.GetGroup(ctx, 0)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.Secretary != secretaryID {
		t.Errorf("secretary = %q, want %q", got.Secretary, secretaryID)
	}
	if got.Premium != 1 {
		t.Errorf("premium = %d, want 1", got.Premium)
	}

	isMember, err := svc.IsMember(ctx, 0, "member-user-3")
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if !isMember {
		t.Error("IsMember(member-user-3) = false")
	}

	isMember, err = svc.IsMember(ctx, 0, "stranger")
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if isMember {
		t.Error("IsMember(stranger) = true")
	}

	// Creation emitted a notification event.
	events, err := svc.ListEvents(ctx, 0)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 || events[0].Type != models.EventGroupCreated {
		t.Errorf("events = %+v, want one group_created", events)
	}
}

func TestPoolService_CreateGroup_NonAdmin(t *testing.T) {
	svc, _, cleanup := setupPoolService(t)
	defer cleanup()

	_, err := svc.CreateGroup(context.Background(), secretaryID, secretaryID, memberIDs(10), 1, 10)
	if !errors.Is(err, tanda.ErrUnauthorized) {
		t.Fatalf("CreateGroup error = %v, want %v", err, tanda.ErrUnauthorized)
	}

	// Nothing was persisted.
	if _, err := svc.GetGroup(context.Background(), 0); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetGroup error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestPoolService_GroupNotFound(t *testing.T) {
	svc, _, cleanup := setupPoolService(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := svc.StartPrePeriod(ctx, 5, secretaryID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("StartPrePeriod error = %v, want %v", err, storage.ErrNotFound)
	}
	if _, err := svc.RecordPayment(ctx, 5, "member-user-0", 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("RecordPayment error = %v, want %v", err, storage.ErrNotFound)
	}
	if _, err := svc.ListEvents(ctx, 5); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("ListEvents error = %v, want %v", err, storage.ErrNotFound)
	}
}

// TestPoolService_FullLifecycle drives the complete scenario through the
// persistent service: 10 members, premium 1, maxClaim 10; everyone pays,
// coverage activates, a claim of 5 is approved, and after 30 days the
// secretary ends the period.
func TestPoolService_FullLifecycle(t *testing.T) {
	svc, clock, cleanup := setupPoolService(t)
	defer cleanup()
	ctx := context.Background()

	group := createTestGroup(t, svc)

	if _, err := svc.StartPrePeriod(ctx, group.ID, secretaryID); err != nil {
		t.Fatalf("StartPrePeriod failed: %v", err)
	}

	for _, m := range group.Members {
		if _, err := svc.RecordPayment(ctx, group.ID, m, 1); err != nil {
			t.Fatalf("RecordPayment(%s) failed: %v", m, err)
		}
	}

	active, err := svc.StartActivePeriod(ctx, group.ID, secretaryID)
	if err != nil {
		t.Fatalf("StartActivePeriod failed: %v", err)
	}
	if active.Period != models.PeriodActive {
		t.Fatalf("period = %q, want %q", active.Period, models.PeriodActive)
	}
	if active.PooledFunds != 10 {
		t.Fatalf("pooledFunds = %d, want 10", active.PooledFunds)
	}

	claim, err := svc.FileClaim(ctx, group.ID, "member-user-4", 5, "water damage")
	if err != nil {
		t.Fatalf("FileClaim failed: %v", err)
	}
	if claim.Status != models.ClaimPending {
		t.Fatalf("claim status = %q, want %q", claim.Status, models.ClaimPending)
	}

	reviewed, err := svc.ReviewClaim(ctx, group.ID, secretaryID, claim.ID, true)
	if err != nil {
		t.Fatalf("ReviewClaim failed: %v", err)
	}
	if reviewed.Status != models.ClaimApproved {
		t.Fatalf("claim status = %q, want %q", reviewed.Status, models.ClaimApproved)
	}

	afterPayout, err := svc.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if afterPayout.PooledFunds != 5 {
		t.Fatalf("pooledFunds = %d, want 5", afterPayout.PooledFunds)
	}

	// Too early to end.
	if _, err := svc.EndActivePeriod(ctx, group.ID, secretaryID); !errors.Is(err, tanda.ErrPeriodNotElapsed) {
		t.Fatalf("early EndActivePeriod error = %v, want %v", err, tanda.ErrPeriodNotElapsed)
	}

	*clock = clock.Add(tanda.DefaultMinActiveDuration)
	ended, err := svc.EndActivePeriod(ctx, group.ID, secretaryID)
	if err != nil {
		t.Fatalf("EndActivePeriod failed: %v", err)
	}
	if ended.Period != models.PeriodEnded {
		t.Fatalf("period = %q, want %q", ended.Period, models.PeriodEnded)
	}

	// The audit trail covers the whole lifecycle:
	// created + pre + 10 payments + active + filed + approved + ended.
	events, err := svc.ListEvents(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 16 {
		t.Errorf("events = %d, want 16", len(events))
	}
	last := events[len(events)-1]
	if last.Type != models.EventActivePeriodEnded {
		t.Errorf("last event = %q, want %q", last.Type, models.EventActivePeriodEnded)
	}
}

func TestPoolService_IncompleteCollection(t *testing.T) {
	svc, _, cleanup := setupPoolService(t)
	defer cleanup()
	ctx := context.Background()

	group := createTestGroup(t, svc)
	if _, err := svc.StartPrePeriod(ctx, group.ID, secretaryID); err != nil {
		t.Fatalf("StartPrePeriod failed: %v", err)
	}

	// Only 9 of 10 members pay.
	for _, m := range group.Members[:9] {
		if _, err := svc.RecordPayment(ctx, group.ID, m, 1); err != nil {
			t.Fatalf("RecordPayment(%s) failed: %v", m, err)
		}
	}

	_, err := svc.StartActivePeriod(ctx, group.ID, secretaryID)
	if !errors.Is(err, tanda.ErrIncompleteCollection) {
		t.Fatalf("StartActivePeriod error = %v, want %v", err, tanda.ErrIncompleteCollection)
	}

	// The group remains inactive with its payment state intact.
	got, err := svc.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.Period != models.PeriodPreStarted {
		t.Errorf("period = %q, want %q", got.Period, models.PeriodPreStarted)
	}
	if len(got.Paid) != 9 || got.PooledFunds != 9 {
		t.Errorf("paid=%d funds=%d, want 9/9", len(got.Paid), got.PooledFunds)
	}
}

func TestPoolService_PaymentValidationPersists(t *testing.T) {
	svc, _, cleanup := setupPoolService(t)
	defer cleanup()
	ctx := context.Background()

	group := createTestGroup(t, svc)
	if _, err := svc.StartPrePeriod(ctx, group.ID, secretaryID); err != nil {
		t.Fatalf("StartPrePeriod failed: %v", err)
	}

	if _, err := svc.RecordPayment(ctx, group.ID, "member-user-0", 2); !errors.Is(err, tanda.ErrAmountMismatch) {
		t.Errorf("overpayment error = %v, want %v", err, tanda.ErrAmountMismatch)
	}
	if _, err := svc.RecordPayment(ctx, group.ID, "member-user-0", 1); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if _, err := svc.RecordPayment(ctx, group.ID, "member-user-0", 1); !errors.Is(err, tanda.ErrDuplicatePayment) {
		t.Errorf("double payment error = %v, want %v", err, tanda.ErrDuplicatePayment)
	}

	// Rejected calls left no trace in the persisted ledger.
	got, err := svc.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(got.Paid) != 1 || got.PooledFunds != 1 {
		t.Errorf("paid=%d funds=%d, want 1/1", len(got.Paid), got.PooledFunds)
	}
}
