package ledger

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/shopspring/decimal"
)

// SplitTolerance is how far the sum of splits may drift from the expense amount.
var SplitTolerance = decimal.RequireFromString("0.01")

// ValidateSplits checks an expense's splits at creation time: no negative
// amounts, no participant listed twice, and a sum within SplitTolerance of amount.
func ValidateSplits(amount decimal.Decimal, splits []models.Split) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidArgument)
	}
	if len(splits) == 0 {
		return fmt.Errorf("%w: at least one split is required", ErrInvalidArgument)
	}

	seen := make(map[string]bool, len(splits))
	sum := decimal.Zero
	for _, s := range splits {
		if s.UserID == "" {
			return fmt.Errorf("%w: split without user", ErrInvalidArgument)
		}
		if seen[s.UserID] {
			return fmt.Errorf("%w: user %s appears in more than one split", ErrInvalidArgument, s.UserID)
		}
		seen[s.UserID] = true
		if s.Amount.IsNegative() {
			return fmt.Errorf("%w: split for %s is negative", ErrInvalidArgument, s.UserID)
		}
		sum = sum.Add(s.Amount)
	}

	if sum.Sub(amount).Abs().GreaterThan(SplitTolerance) {
		return fmt.Errorf("%w: splits sum to %s, expense is %s", ErrImbalancedSplit, sum, amount)
	}
	return nil
}
