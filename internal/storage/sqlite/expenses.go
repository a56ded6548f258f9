package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const expenseColumns = `e.id, e.description, e.amount, e.category, e.date, e.paid_by_user_id, e.split_type, e.group_id, e.created_by`

// CreateExpense persists a new expense and its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.Date == 0 {
		expense.Date = time.Now().UnixMilli()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount, category, date, paid_by_user_id, split_type, group_id, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount, expense.Category, expense.Date,
		expense.PaidByUserID, string(expense.SplitType), scopeValue(expense.Scope), expense.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, amount, paid, position) VALUES (?, ?, ?, ?, ?)",
			expense.ID, split.UserID, split.Amount, split.Paid, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+expenseColumns+" FROM expenses e WHERE e.id = ?", expenseID)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	list := []models.Expense{*expense}
	var w where
	w.add("e.id = ?", expenseID)
	if err := s.loadSplits(ctx, list, &w); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// ListExpenses returns the expenses matching filter, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, filter storage.ExpenseFilter) ([]models.Expense, error) {
	var w where
	if filter.PayerID != "" {
		w.add("e.paid_by_user_id = ?", filter.PayerID)
	}
	if filter.Participant != "" {
		w.add(`(e.paid_by_user_id = ? OR EXISTS (
			SELECT 1 FROM expense_splits x WHERE x.expense_id = e.id AND x.user_id = ?))`,
			filter.Participant, filter.Participant)
	}
	w.scope("e.group_id", filter.Scope)
	if filter.From != 0 {
		w.add("e.date >= ?", filter.From)
	}
	if filter.To != 0 {
		w.add("e.date < ?", filter.To)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses e"+w.String()+" ORDER BY e.date DESC, e.id",
		w.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if err := s.loadSplits(ctx, expenses, &w); err != nil {
		return nil, err
	}
	return expenses, nil
}

// loadSplits fills the splits of expenses, which were selected by w.
func (s *SQLiteStore) loadSplits(ctx context.Context, expenses []models.Expense, w *where) error {
	if len(expenses) == 0 {
		return nil
	}
	index := make(map[string]int, len(expenses))
	for i := range expenses {
		index[expenses[i].ID] = i
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT sp.expense_id, sp.user_id, sp.amount, sp.paid
		 FROM expense_splits sp JOIN expenses e ON e.id = sp.expense_id`+w.String()+`
		 ORDER BY sp.expense_id, sp.position`,
		w.args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		var split models.Split
		if err := rows.Scan(&expenseID, &split.UserID, &split.Amount, &split.Paid); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		if i, ok := index[expenseID]; ok {
			expenses[i].Splits = append(expenses[i].Splits, split)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense and detaches it from related settlements.
// A settlement whose last related expense is removed is deleted as well.
// Everything happens in one transaction.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM expenses WHERE id = ?", expenseID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return fmt.Errorf("failed to check expense existence: %w", err)
	}

	rows, err := tx.QueryContext(ctx, "SELECT settlement_id FROM settlement_expenses WHERE expense_id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to find related settlements: %w", err)
	}
	var related []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan settlement id: %w", err)
		}
		related = append(related, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate related settlements: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM settlement_expenses WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to detach settlements: %w", err)
	}

	for _, settlementID := range related {
		var remaining int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM settlement_expenses WHERE settlement_id = ?", settlementID,
		).Scan(&remaining); err != nil {
			return fmt.Errorf("failed to count settlement references: %w", err)
		}
		if remaining > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", settlementID); err != nil {
			return fmt.Errorf("failed to delete settlement %s: %w", settlementID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var splitType string
	var groupID sql.NullString
	if err := row.Scan(
		&expense.ID,
		&expense.Description,
		&expense.Amount,
		&expense.Category,
		&expense.Date,
		&expense.PaidByUserID,
		&splitType,
		&groupID,
		&expense.CreatedBy,
	); err != nil {
		return nil, err
	}
	expense.SplitType = models.SplitType(splitType)
	expense.Scope = scopeFrom(groupID)
	return expense, nil
}
