package models

import "github.com/shopspring/decimal"

// Settlement represents a direct payment from one user to another that
// reduces what the payer owes the receiver.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// Amount is the payment amount.
	Amount decimal.Decimal `json:"amount"`

	// Date is when the payment happened, in epoch milliseconds.
	Date int64 `json:"date"`

	// PaidByUserID is the user who paid (debtor settling up).
	PaidByUserID string `json:"paidByUserId"`

	// ReceivedByUserID is the user who received payment (creditor being paid).
	ReceivedByUserID string `json:"receivedByUserId"`

	Scope Scope `json:"groupId"`

	// RelatedExpenseIDs links the settlement to the expenses it offsets.
	// Only the deletion cascade reads it; netting ignores it.
	RelatedExpenseIDs []string `json:"relatedExpenseIds,omitempty"`

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string `json:"createdBy"`

	// Note is an optional description for the settlement.
	Note string `json:"note,omitempty"`
}

// Involves reports whether userID is the payer or the receiver.
func (s *Settlement) Involves(userID string) bool {
	return s.PaidByUserID == userID || s.ReceivedByUserID == userID
}

// Between reports whether the settlement was made between a and b, in either direction.
func (s *Settlement) Between(a, b string) bool {
	return (s.PaidByUserID == a && s.ReceivedByUserID == b) ||
		(s.PaidByUserID == b && s.ReceivedByUserID == a)
}
