package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/roslynlu/TandaPay/internal/metrics"
	"github.com/roslynlu/TandaPay/internal/models"
	"github.com/roslynlu/TandaPay/internal/storage"
	"github.com/roslynlu/TandaPay/internal/tanda"
)

// PoolService is the single entry point for group operations: it owns the
// group registry (through the store), applies the tanda rules for every
// call, and commits the resulting state together with its notification
// event in one transaction.
//
// Mutating calls are serialized by a mutex, so each operation observes the
// committed result of the previous one and is itself all-or-nothing: the
// rules reject on a staged copy, and the store commits atomically.
type PoolService struct {
	mu    sync.Mutex
	rules tanda.Rules
	store storage.Store
	now   func() time.Time
}

// NewPoolService creates a PoolService applying the given rules over the
// given store.
func NewPoolService(rules tanda.Rules, store storage.Store) *PoolService {
	return &PoolService{
		rules: rules,
		store: store,
		now:   time.Now,
	}
}

// Administrator returns the administrator identity.
func (s *PoolService) Administrator() string {
	return s.rules.Administrator
}

// CreateGroup creates a new group. Administrator only; see tanda.Rules.NewGroup
// for the creation invariants.
func (s *PoolService) CreateGroup(ctx context.Context, caller, secretary string, members []string, premium, maxClaim int64) (*models.Group, error) {
	slog.Info("CreateGroup request received",
		"caller", caller,
		"secretary", secretary,
		"members_count", len(members),
		"premium", premium,
		"max_claim", maxClaim,
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.store.CountGroups(ctx)
	if err != nil {
		return nil, s.fail("CreateGroup", err)
	}

	group, err := s.rules.NewGroup(caller, secretary, members, premium, maxClaim, id, s.now())
	if err != nil {
		return nil, s.fail("CreateGroup", err)
	}

	event := s.newEvent(group.ID, models.EventGroupCreated, caller)
	if err := s.store.CreateGroup(ctx, group, event); err != nil {
		return nil, s.fail("CreateGroup", err)
	}

	metrics.Operations.WithLabelValues("create_group", "ok").Inc()
	metrics.PooledFunds.WithLabelValues(strconv.Itoa(group.ID)).Set(0)
	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *PoolService) GetGroup(ctx context.Context, id int) (*models.Group, error) {
	return s.store.GetGroup(ctx, id)
}

// ListGroups retrieves all groups in ID order.
func (s *PoolService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.store.ListGroups(ctx)
}

// IsMember reports whether the user is a member of the group.
func (s *PoolService) IsMember(ctx context.Context, groupID int, userID string) (bool, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return false, err
	}
	return group.HasMember(userID), nil
}

// ListEvents retrieves a group's notification events in recording order.
func (s *PoolService) ListEvents(ctx context.Context, groupID int) ([]*models.Event, error) {
	// Distinguish "no events" from "no such group".
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListEventsByGroup(ctx, groupID)
}

// StartPrePeriod opens the premium collection window. Secretary only.
func (s *PoolService) StartPrePeriod(ctx context.Context, groupID int, caller string) (*models.Group, error) {
	return s.transition(ctx, "start_pre_period", groupID, caller, models.EventPrePeriodStarted,
		func(g *models.Group) (*models.Group, error) {
			return s.rules.StartPrePeriod(g, caller, s.now())
		})
}

// StartActivePeriod begins coverage once every member has paid. Secretary only.
func (s *PoolService) StartActivePeriod(ctx context.Context, groupID int, caller string) (*models.Group, error) {
	return s.transition(ctx, "start_active_period", groupID, caller, models.EventActivePeriodStarted,
		func(g *models.Group) (*models.Group, error) {
			return s.rules.StartActivePeriod(g, caller, s.now())
		})
}

// EndActivePeriod closes coverage after the minimum duration. Secretary only.
func (s *PoolService) EndActivePeriod(ctx context.Context, groupID int, caller string) (*models.Group, error) {
	return s.transition(ctx, "end_active_period", groupID, caller, models.EventActivePeriodEnded,
		func(g *models.Group) (*models.Group, error) {
			return s.rules.EndActivePeriod(g, caller, s.now())
		})
}

// RecordPayment credits a member's premium payment to the pooled funds.
func (s *PoolService) RecordPayment(ctx context.Context, groupID int, caller string, amount int64) (*models.Group, error) {
	slog.Info("RecordPayment request received", "group_id", groupID, "caller", caller, "amount", amount)

	s.mu.Lock()
	defer s.mu.Unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, s.fail("record_payment", err)
	}

	next, err := s.rules.RecordPayment(group, caller, amount)
	if err != nil {
		return nil, s.fail("record_payment", err)
	}

	event := s.newEvent(groupID, models.EventPremiumPaid, caller)
	event.Amount = amount
	if err := s.store.SaveGroup(ctx, next, event); err != nil {
		return nil, s.fail("record_payment", err)
	}

	metrics.Operations.WithLabelValues("record_payment", "ok").Inc()
	metrics.PooledFunds.WithLabelValues(strconv.Itoa(groupID)).Set(float64(next.PooledFunds))
	slog.Info("Premium paid",
		"group_id", groupID,
		"member", caller,
		"paid_count", len(next.Paid),
		"pooled_funds", next.PooledFunds,
	)
	return next, nil
}

// FileClaim files a pending claim for the calling member.
func (s *PoolService) FileClaim(ctx context.Context, groupID int, caller string, amount int64, description string) (*models.Claim, error) {
	slog.Info("FileClaim request received", "group_id", groupID, "caller", caller, "amount", amount)

	s.mu.Lock()
	defer s.mu.Unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, s.fail("file_claim", err)
	}

	next, claim, err := s.rules.FileClaim(group, caller, amount, description, s.now())
	if err != nil {
		return nil, s.fail("file_claim", err)
	}

	event := s.newEvent(groupID, models.EventClaimFiled, caller)
	event.Amount = claim.Amount
	event.ClaimID = claim.ID
	if err := s.store.SaveGroup(ctx, next, event); err != nil {
		return nil, s.fail("file_claim", err)
	}

	metrics.Operations.WithLabelValues("file_claim", "ok").Inc()
	slog.Info("Claim filed", "group_id", groupID, "claim_id", claim.ID, "claimant", caller, "amount", claim.Amount)
	return claim, nil
}

// ReviewClaim approves or denies a pending claim. Secretary only. On
// approval the payout is debited from the pooled funds; the actual transfer
// to the claimant is left to the external money ledger.
func (s *PoolService) ReviewClaim(ctx context.Context, groupID int, caller string, claimID int, approve bool) (*models.Claim, error) {
	slog.Info("ReviewClaim request received", "group_id", groupID, "caller", caller, "claim_id", claimID, "approve", approve)

	s.mu.Lock()
	defer s.mu.Unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, s.fail("review_claim", err)
	}

	next, claim, err := s.rules.ReviewClaim(group, caller, claimID, approve)
	if err != nil {
		return nil, s.fail("review_claim", err)
	}

	eventType := models.EventClaimDenied
	if approve {
		eventType = models.EventClaimApproved
	}
	event := s.newEvent(groupID, eventType, caller)
	event.Amount = claim.Amount
	event.ClaimID = claim.ID
	if err := s.store.SaveGroup(ctx, next, event); err != nil {
		return nil, s.fail("review_claim", err)
	}

	metrics.Operations.WithLabelValues("review_claim", "ok").Inc()
	if approve {
		groupLabel := strconv.Itoa(groupID)
		metrics.PooledFunds.WithLabelValues(groupLabel).Set(float64(next.PooledFunds))
		metrics.ClaimPayouts.WithLabelValues(groupLabel).Add(float64(claim.Amount))
	}
	slog.Info("Claim reviewed",
		"group_id", groupID,
		"claim_id", claim.ID,
		"status", claim.Status,
		"pooled_funds", next.PooledFunds,
	)
	return claim, nil
}

// transition runs a secretary lifecycle transition under the service lock
// and commits the result with its event.
func (s *PoolService) transition(ctx context.Context, op string, groupID int, caller string, eventType models.EventType, apply func(*models.Group) (*models.Group, error)) (*models.Group, error) {
	slog.Info("Transition request received", "op", op, "group_id", groupID, "caller", caller)

	s.mu.Lock()
	defer s.mu.Unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, s.fail(op, err)
	}

	next, err := apply(group)
	if err != nil {
		return nil, s.fail(op, err)
	}

	if err := s.store.SaveGroup(ctx, next, s.newEvent(groupID, eventType, caller)); err != nil {
		return nil, s.fail(op, err)
	}

	metrics.Operations.WithLabelValues(op, "ok").Inc()
	slog.Info("Period transition", "op", op, "group_id", groupID, "period", next.Period)
	return next, nil
}

// fail records the failed operation and passes the error through unchanged.
func (s *PoolService) fail(op string, err error) error {
	metrics.Operations.WithLabelValues(op, "error").Inc()
	slog.Warn("Operation failed", "op", op, "error", err)
	return err
}

func (s *PoolService) newEvent(groupID int, eventType models.EventType, actor string) *models.Event {
	return &models.Event{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		Type:      eventType,
		Actor:     actor,
		ClaimID:   -1,
		CreatedAt: s.now().Unix(),
	}
}
