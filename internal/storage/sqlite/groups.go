package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roslynlu/TandaPay/internal/models"
	"github.com/roslynlu/TandaPay/internal/storage"
)

// CountGroups returns the number of groups in the registry.
func (s *SQLiteStore) CountGroups(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM groups").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count groups: %w", err)
	}
	return n, nil
}

// CreateGroup persists a new group, its member list, and the creation event
// in one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, event *models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, secretary, premium, max_claim, period, pre_started_at, active_started_at, pooled_funds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Secretary, group.Premium, group.MaxClaim, string(group.Period),
		group.PreStartedAt, group.ActiveStartedAt, group.PooledFunds, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, member := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, position) VALUES (?, ?, ?)",
			group.ID, member, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	if event != nil {
		if err := insertEvent(ctx, tx, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SaveGroup rewrites the group's mutable state (period, timestamps, pooled
// funds, payments, claims) and appends the event describing the change, in
// one transaction. Members are fixed at creation and never rewritten.
func (s *SQLiteStore) SaveGroup(ctx context.Context, group *models.Group, event *models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE groups SET period = ?, pre_started_at = ?, active_started_at = ?, pooled_funds = ?
		 WHERE id = ?`,
		string(group.Period), group.PreStartedAt, group.ActiveStartedAt, group.PooledFunds, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: group %d", storage.ErrNotFound, group.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM payments WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear payments: %w", err)
	}
	for i, member := range group.Paid {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO payments (group_id, user_id, position) VALUES (?, ?, ?)",
			group.ID, member, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM claims WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear claims: %w", err)
	}
	for i := range group.Claims {
		c := &group.Claims[i]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO claims (group_id, claim_id, claimant, amount, description, status, filed_at, cycle_started_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			group.ID, c.ID, c.Claimant, c.Amount, c.Description, string(c.Status), c.FiledAt, c.CycleStartedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert claim: %w", err)
		}
	}

	if event != nil {
		if err := insertEvent(ctx, tx, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID, including members, payments, and claims.
func (s *SQLiteStore) GetGroup(ctx context.Context, id int) (*models.Group, error) {
	group := &models.Group{}
	var period string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, secretary, premium, max_claim, period, pre_started_at, active_started_at, pooled_funds, created_at
		 FROM groups WHERE id = ?`,
		id,
	).Scan(&group.ID, &group.Secretary, &group.Premium, &group.MaxClaim, &period,
		&group.PreStartedAt, &group.ActiveStartedAt, &group.PooledFunds, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: group %d", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.Period = models.Period(period)

	if err := s.loadGroupDetails(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups retrieves all groups in ID order.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, secretary, premium, max_claim, period, pre_started_at, active_started_at, pooled_funds, created_at
		 FROM groups ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var period string
		if err := rows.Scan(&group.ID, &group.Secretary, &group.Premium, &group.MaxClaim, &period,
			&group.PreStartedAt, &group.ActiveStartedAt, &group.PooledFunds, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.Period = models.Period(period)
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if err := s.loadGroupDetails(ctx, group); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// loadGroupDetails fills in the members, payments, and claims for a group
// whose scalar columns are already populated.
func (s *SQLiteStore) loadGroupDetails(ctx context.Context, group *models.Group) error {
	members, err := s.userList(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY position", group.ID)
	if err != nil {
		return fmt.Errorf("failed to get members: %w", err)
	}
	group.Members = members

	paid, err := s.userList(ctx,
		"SELECT user_id FROM payments WHERE group_id = ? ORDER BY position", group.ID)
	if err != nil {
		return fmt.Errorf("failed to get payments: %w", err)
	}
	group.Paid = paid

	rows, err := s.db.QueryContext(ctx,
		`SELECT claim_id, claimant, amount, description, status, filed_at, cycle_started_at
		 FROM claims WHERE group_id = ? ORDER BY claim_id`,
		group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get claims: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Claim
		var status string
		if err := rows.Scan(&c.ID, &c.Claimant, &c.Amount, &c.Description, &status, &c.FiledAt, &c.CycleStartedAt); err != nil {
			return fmt.Errorf("failed to scan claim: %w", err)
		}
		c.Status = models.ClaimStatus(status)
		group.Claims = append(group.Claims, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate claims: %w", err)
	}
	return nil
}

// userList runs a single-column user ID query and collects the results.
func (s *SQLiteStore) userList(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
