package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// CreateSettlement persists a new settlement and its related expense links.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.Date == 0 {
		settlement.Date = time.Now().UnixMilli()
	}

	var note interface{} = nil
	if settlement.Note != "" {
		note = settlement.Note
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO settlements (id, amount, date, paid_by_user_id, received_by_user_id, group_id, created_by, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.Amount, settlement.Date, settlement.PaidByUserID,
		settlement.ReceivedByUserID, scopeValue(settlement.Scope), settlement.CreatedBy, note,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	for _, expenseID := range settlement.RelatedExpenseIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO settlement_expenses (settlement_id, expense_id) VALUES (?, ?)",
			settlement.ID, expenseID,
		)
		if err != nil {
			return fmt.Errorf("failed to link settlement to expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListSettlements retrieves the settlements matching filter, newest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context, filter storage.SettlementFilter) ([]models.Settlement, error) {
	var w where
	w.scope("st.group_id", filter.Scope)
	if filter.Party != "" {
		w.add("(st.paid_by_user_id = ? OR st.received_by_user_id = ?)", filter.Party, filter.Party)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT st.id, st.amount, st.date, st.paid_by_user_id, st.received_by_user_id, st.group_id, st.created_by, st.note
		 FROM settlements st`+w.String()+` ORDER BY st.date DESC, st.id`,
		w.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	index := make(map[string]int)
	for rows.Next() {
		var settlement models.Settlement
		var groupID, note sql.NullString

		if err := rows.Scan(&settlement.ID, &settlement.Amount, &settlement.Date, &settlement.PaidByUserID,
			&settlement.ReceivedByUserID, &groupID, &settlement.CreatedBy, &note); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}

		settlement.Scope = scopeFrom(groupID)
		if note.Valid {
			settlement.Note = note.String
		}

		index[settlement.ID] = len(settlements)
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	rows.Close()

	if len(settlements) == 0 {
		return settlements, nil
	}

	links, err := s.db.QueryContext(ctx,
		`SELECT se.settlement_id, se.expense_id
		 FROM settlement_expenses se JOIN settlements st ON st.id = se.settlement_id`+w.String()+`
		 ORDER BY se.settlement_id, se.expense_id`,
		w.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get related expenses: %w", err)
	}
	defer links.Close()

	for links.Next() {
		var settlementID, expenseID string
		if err := links.Scan(&settlementID, &expenseID); err != nil {
			return nil, fmt.Errorf("failed to scan related expense: %w", err)
		}
		if i, ok := index[settlementID]; ok {
			settlements[i].RelatedExpenseIDs = append(settlements[i].RelatedExpenseIDs, expenseID)
		}
	}
	if err := links.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate related expenses: %w", err)
	}

	return settlements, nil
}
