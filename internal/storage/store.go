// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is returned when a referenced record does not exist.
// It is the ledger's ErrNotFound so callers can match either with errors.Is.
var ErrNotFound = ledger.ErrNotFound

// ExpenseFilter narrows an expense scan. Zero-valued fields do not filter.
type ExpenseFilter struct {
	// PayerID keeps only expenses paid by this user.
	PayerID string

	// Participant keeps only expenses this user paid or holds a split in.
	Participant string

	// Scope keeps only personal expenses or only one group's expenses.
	// nil means any scope.
	Scope *models.Scope

	// From and To bound Date to [From, To) in epoch milliseconds.
	From int64
	To   int64
}

// SettlementFilter narrows a settlement scan. Zero-valued fields do not filter.
type SettlementFilter struct {
	// Scope keeps only personal settlements or only one group's settlements.
	Scope *models.Scope

	// Party keeps only settlements paid or received by this user.
	Party string
}

// Store defines the record store the reconciliation engine reads from.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the engine.
type Store interface {
	// ListExpenses returns the expenses matching filter, newest first.
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error)

	// GetExpense retrieves an expense by ID.
	// Returns an error wrapping ErrNotFound if it does not exist.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// CreateExpense persists a new expense.
	// The expense.ID field will be populated by the store if empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and, in the same transaction, detaches
	// it from every settlement that references it. Settlements left without
	// any related expense are deleted.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListSettlements returns the settlements matching filter, newest first.
	ListSettlements(ctx context.Context, filter SettlementFilter) ([]models.Settlement, error)

	// CreateSettlement persists a new settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListGroups returns every group with its membership.
	ListGroups(ctx context.Context) ([]models.Group, error)

	// GetGroup retrieves a group by ID.
	// Returns an error wrapping ErrNotFound if it does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// CreateGroup persists a new group with its members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetUser retrieves a user by ID.
	// Returns an error wrapping ErrNotFound if it does not exist.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users. Missing users are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// GetUserByToken retrieves a user by identity token identifier.
	// Returns an error wrapping ErrNotFound if it does not exist.
	GetUserByToken(ctx context.Context, tokenIdentifier string) (*models.User, error)

	// CreateUser persists a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// UpdateUserName renames a user.
	UpdateUserName(ctx context.Context, userID, name string) error

	// Close releases any resources held by the store.
	Close() error
}

// Personal is a convenience for filters that select personal records only.
func Personal() *models.Scope {
	s := models.PersonalScope()
	return &s
}

// InGroup is a convenience for filters that select one group's records.
func InGroup(groupID string) *models.Scope {
	s := models.GroupScope(groupID)
	return &s
}
