package models

import "github.com/shopspring/decimal"

// SplitType is how the expense amount was divided when it was entered.
// The engine never recomputes splits from it; it is kept for display.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitPercentage SplitType = "percentage"
	SplitExact      SplitType = "exact"
)

// Valid reports whether t is one of the known split types.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitPercentage, SplitExact:
		return true
	}
	return false
}

// DefaultCategory is used when an expense is created without a category.
const DefaultCategory = "Other"

// Split is one participant's share of an expense.
// Splits only exist embedded in an Expense.
type Split struct {
	UserID string `json:"userId"`

	// Amount is the share owed by UserID. Never negative.
	Amount decimal.Decimal `json:"amount"`

	// Paid marks a share already settled out of band. Paid shares never
	// contribute to a balance.
	Paid bool `json:"paid"`
}

// Expense represents a payment made by one user on behalf of a set of participants.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	Description string `json:"description"`

	// Amount is the total paid. At creation it equals the sum of Splits
	// within a 0.01 tolerance.
	Amount decimal.Decimal `json:"amount"`

	Category string `json:"category"`

	// Date is when the expense happened, in epoch milliseconds.
	Date int64 `json:"date"`

	PaidByUserID string `json:"paidByUserId"`

	SplitType SplitType `json:"splitType"`

	Splits []Split `json:"splits"`

	Scope Scope `json:"groupId"`

	// CreatedBy is the user ID who recorded the expense.
	CreatedBy string `json:"createdBy"`
}

// SplitFor returns userID's split. ok is false if userID has no share.
func (e *Expense) SplitFor(userID string) (Split, bool) {
	for _, s := range e.Splits {
		if s.UserID == userID {
			return s, true
		}
	}
	return Split{}, false
}

// Involves reports whether userID paid the expense or has a share of it.
func (e *Expense) Involves(userID string) bool {
	if e.PaidByUserID == userID {
		return true
	}
	_, ok := e.SplitFor(userID)
	return ok
}
