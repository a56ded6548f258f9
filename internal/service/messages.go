package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/engine"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

type GetPersonalBalancesRequest struct{}

type GetPersonalBalancesResponse struct {
	ledger.PersonalReport
}

type GetGroupLedgerRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupLedgerResponse struct {
	ledger.GroupReport
}

// GetMonthlySpendingRequest asks for one calendar year. Year 0 means the current year.
type GetMonthlySpendingRequest struct {
	Year int `json:"year"`
}

type GetMonthlySpendingResponse struct {
	Months []ledger.MonthTotal `json:"months"`
}

// GetTotalSpentRequest asks for one calendar year. Year 0 means the current year.
type GetTotalSpentRequest struct {
	Year int `json:"year"`
}

type GetTotalSpentResponse struct {
	Total decimal.Decimal `json:"total"`
}

type GetContactsRequest struct{}

type GetContactsResponse struct {
	ledger.Contacts
}

type GetExpensesBetweenRequest struct {
	UserID string `json:"userId"`
}

type GetExpensesBetweenResponse struct {
	engine.PairHistory
}

type GetUserGroupsRequest struct{}

type GetUserGroupsResponse struct {
	Groups []engine.GroupBalance `json:"groups"`
}

// CreateExpenseRequest carries a new expense. A null or absent groupId
// records a personal expense.
type CreateExpenseRequest struct {
	Description  string           `json:"description"`
	Amount       decimal.Decimal  `json:"amount"`
	Category     string           `json:"category,omitempty"`
	Date         int64            `json:"date"`
	PaidByUserID string           `json:"paidByUserId"`
	SplitType    models.SplitType `json:"splitType"`
	Splits       []models.Split   `json:"splits"`
	Scope        models.Scope     `json:"groupId"`
}

type CreateExpenseResponse struct {
	Expense *models.Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct {
	Success bool `json:"success"`
}

type RecordSettlementRequest struct {
	Amount            decimal.Decimal `json:"amount"`
	Date              int64           `json:"date"`
	PaidByUserID      string          `json:"paidByUserId"`
	ReceivedByUserID  string          `json:"receivedByUserId"`
	Scope             models.Scope    `json:"groupId"`
	RelatedExpenseIDs []string        `json:"relatedExpenseIds,omitempty"`
	Note              string          `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *models.Settlement `json:"settlement"`
}

type SyncUserRequest struct{}

type SyncUserResponse struct {
	User *models.User `json:"user"`
}
