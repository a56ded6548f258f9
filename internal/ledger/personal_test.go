package ledger

import (
	"errors"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func TestPersonalBalances_EqualThreeWaySplit(t *testing.T) {
	expenses := []models.Expense{
		personalExpense("e1", "alice", "300", split("alice", "100"), split("bob", "100"), split("charlie", "100")),
	}

	alice := PersonalBalances(As("alice"), expenses, nil, testUsers)
	assertAmount(t, "alice youAreOwed", alice.YouAreOwed, "200")
	assertAmount(t, "alice youOwe", alice.YouOwe, "0")
	assertAmount(t, "alice totalBalance", alice.TotalBalance, "200")
	if len(alice.OweDetails.YouAreOwedBy) != 2 {
		t.Fatalf("alice youAreOwedBy: expected 2, got %d", len(alice.OweDetails.YouAreOwedBy))
	}
	for _, c := range alice.OweDetails.YouAreOwedBy {
		assertAmount(t, c.UserID+" owes alice", c.Amount, "100")
	}
	if len(alice.OweDetails.YouOwe) != 0 {
		t.Errorf("alice youOwe list: expected empty, got %v", alice.OweDetails.YouOwe)
	}

	bob := PersonalBalances(As("bob"), expenses, nil, testUsers)
	assertAmount(t, "bob youOwe", bob.YouOwe, "100")
	assertAmount(t, "bob totalBalance", bob.TotalBalance, "-100")
	if len(bob.OweDetails.YouOwe) != 1 {
		t.Fatalf("bob youOwe list: expected 1, got %d", len(bob.OweDetails.YouOwe))
	}
	got := bob.OweDetails.YouOwe[0]
	if got.UserID != "alice" || got.Name != "Alice" || got.ImageURL != "https://img/alice.png" {
		t.Errorf("bob owes: unexpected counterparty %+v", got)
	}
	if len(bob.OweDetails.YouAreOwedBy) != 0 {
		t.Errorf("bob youAreOwedBy: expected empty, got %v", bob.OweDetails.YouAreOwedBy)
	}
}

func TestPersonalBalances_SortedAndZeroExcluded(t *testing.T) {
	expenses := []models.Expense{
		personalExpense("e1", "alice", "30", split("bob", "30")),
		personalExpense("e2", "alice", "80", split("charlie", "80")),
		personalExpense("e3", "alice", "10", split("diana", "10")),
		personalExpense("e4", "bob", "5", split("alice", "5")),
	}
	settlements := []models.Settlement{settlement("diana", "alice", "10")}

	r := PersonalBalances(As("alice"), expenses, settlements, testUsers)

	list := r.OweDetails.YouAreOwedBy
	if len(list) != 2 {
		t.Fatalf("expected 2 debtors (diana settled), got %d: %v", len(list), list)
	}
	if list[0].UserID != "charlie" || list[1].UserID != "bob" {
		t.Errorf("expected charlie then bob, got %s then %s", list[0].UserID, list[1].UserID)
	}
	assertAmount(t, "bob net", list[1].Amount, "25")
	assertAmount(t, "youAreOwed", r.YouAreOwed, "105")
	assertAmount(t, "totalBalance", r.TotalBalance, "105")
}

func TestPersonalBalances_IgnoresGroupRecords(t *testing.T) {
	expenses := []models.Expense{
		groupExpense("e1", "g1", "alice", "100", split("bob", "100")),
	}
	settlements := []models.Settlement{
		{PaidByUserID: "bob", ReceivedByUserID: "alice", Amount: d("40"), Scope: models.GroupScope("g1")},
	}

	r := PersonalBalances(As("alice"), expenses, settlements, testUsers)
	assertAmount(t, "youAreOwed", r.YouAreOwed, "0")
	assertAmount(t, "youOwe", r.YouOwe, "0")
}

func TestPersonalBalances_UnknownCounterparty(t *testing.T) {
	expenses := []models.Expense{personalExpense("e1", "ghost", "12", split("alice", "12"))}

	r := PersonalBalances(As("alice"), expenses, nil, testUsers)
	if len(r.OweDetails.YouOwe) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(r.OweDetails.YouOwe))
	}
	if r.OweDetails.YouOwe[0].Name != UnknownUserName {
		t.Errorf("expected %q, got %q", UnknownUserName, r.OweDetails.YouOwe[0].Name)
	}
}

func TestPairBalance(t *testing.T) {
	expenses := []models.Expense{
		personalExpense("e1", "alice", "50", split("bob", "50")),
		personalExpense("e2", "bob", "20", split("alice", "20")),
		personalExpense("e3", "alice", "99", split("charlie", "99")),
	}
	settlements := []models.Settlement{settlement("bob", "alice", "10")}

	got, err := PairBalance(As("alice"), "bob", expenses, settlements)
	if err != nil {
		t.Fatalf("PairBalance failed: %v", err)
	}
	assertAmount(t, "alice vs bob", got, "20")

	got, err = PairBalance(As("bob"), "alice", expenses, settlements)
	if err != nil {
		t.Fatalf("PairBalance failed: %v", err)
	}
	assertAmount(t, "bob vs alice", got, "-20")

	if _, err := PairBalance(As("alice"), "alice", expenses, settlements); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("expected ErrInvalidScope, got %v", err)
	}
}
