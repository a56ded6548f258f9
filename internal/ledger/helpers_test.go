package ledger

import (
	"testing"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func split(userID, amount string) models.Split {
	return models.Split{UserID: userID, Amount: d(amount)}
}

func paidSplit(userID, amount string) models.Split {
	return models.Split{UserID: userID, Amount: d(amount), Paid: true}
}

func personalExpense(id, payer, amount string, splits ...models.Split) models.Expense {
	return models.Expense{ID: id, PaidByUserID: payer, Amount: d(amount), Splits: splits}
}

func groupExpense(id, groupID, payer, amount string, splits ...models.Split) models.Expense {
	e := personalExpense(id, payer, amount, splits...)
	e.Scope = models.GroupScope(groupID)
	return e
}

func settlement(from, to, amount string) models.Settlement {
	return models.Settlement{PaidByUserID: from, ReceivedByUserID: to, Amount: d(amount)}
}

func assertAmount(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Errorf("%s = %s, want %s", what, got, want)
	}
}

var testUsers = UsersByID(map[string]*models.User{
	"alice":   {ID: "alice", Name: "Alice", ImageURL: "https://img/alice.png"},
	"bob":     {ID: "bob", Name: "Bob"},
	"charlie": {ID: "charlie", Name: "charlie"},
	"diana":   {ID: "diana", Name: "Diana"},
})
