// Package calculator divides an expense amount into per-participant shares.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

var cent = decimal.New(1, -2)

// EqualSplits divides amount equally among participants, to the cent.
// Leftover cents go one each to the first participants, and any sub-cent
// remainder to the first, so the shares always sum to amount exactly.
func EqualSplits(amount decimal.Decimal, participants []string) ([]models.Split, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	n := decimal.NewFromInt(int64(len(participants)))
	base := amount.DivRound(n, 8).Truncate(2)
	remainder := amount.Sub(base.Mul(n))
	extraCents := remainder.Div(cent).IntPart()
	residue := remainder.Sub(decimal.NewFromInt(extraCents).Mul(cent))

	splits := make([]models.Split, len(participants))
	for i, userID := range participants {
		share := base
		if int64(i) < extraCents {
			share = share.Add(cent)
		}
		if i == 0 {
			share = share.Add(residue)
		}
		splits[i] = models.Split{UserID: userID, Amount: share}
	}
	return splits, nil
}

// needsAmounts reports whether every split was sent without an amount.
func needsAmounts(splits []models.Split) bool {
	for _, s := range splits {
		if !s.Amount.IsZero() {
			return false
		}
	}
	return len(splits) > 0
}

// FillEqual returns splits with equal amounts filled in when the caller
// listed participants without amounts. Splits carrying any amount are
// returned unchanged. Paid flags are preserved.
func FillEqual(amount decimal.Decimal, splits []models.Split) ([]models.Split, error) {
	if !needsAmounts(splits) {
		return splits, nil
	}
	ids := make([]string, len(splits))
	for i, s := range splits {
		ids[i] = s.UserID
	}
	filled, err := EqualSplits(amount, ids)
	if err != nil {
		return nil, err
	}
	for i := range filled {
		filled[i].Paid = splits[i].Paid
	}
	return filled, nil
}
