package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roslynlu/TandaPay/internal/models"
)

// insertEvent appends a notification event inside the caller's transaction
// so the event commits atomically with the state change it describes.
func insertEvent(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO events (id, group_id, type, actor, amount, claim_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.GroupID, string(event.Type), event.Actor, event.Amount, event.ClaimID, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ListEventsByGroup retrieves a group's events in recording order.
func (s *SQLiteStore) ListEventsByGroup(ctx context.Context, groupID int) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, type, actor, amount, claim_id, created_at
		 FROM events WHERE group_id = ? ORDER BY created_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		var typ string
		if err := rows.Scan(&event.ID, &event.GroupID, &typ, &event.Actor, &event.Amount, &event.ClaimID, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.Type = models.EventType(typ)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}
