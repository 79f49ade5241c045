// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/roslynlu/TandaPay/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for TandaPay persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Group writes are transactional: the group row, its payment and claim
// rows, and the accompanying notification event commit together or not at
// all, which is what gives each public operation its all-or-nothing
// guarantee across restarts.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	// Returns (nil, nil) when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) when no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CountGroups returns the number of groups in the registry. Group IDs
	// are sequential, so this is also the next group ID.
	CountGroups(ctx context.Context) (int, error)

	// CreateGroup persists a new group (members included) together with its
	// creation event.
	CreateGroup(ctx context.Context, group *models.Group, event *models.Event) error

	// SaveGroup writes the group's mutable state (period, timestamps,
	// payments, pooled funds, claims) together with the event describing
	// the change, in one transaction.
	SaveGroup(ctx context.Context, group *models.Group, event *models.Event) error

	// GetGroup retrieves a group with its members, payments, and claims.
	// Returns ErrNotFound if the ID is out of range.
	GetGroup(ctx context.Context, id int) (*models.Group, error)

	// ListGroups retrieves all groups in ID order.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// ListEventsByGroup retrieves a group's events in recording order.
	ListEventsByGroup(ctx context.Context, groupID int) ([]*models.Event, error)

	// Close releases any resources held by the store.
	Close() error
}
