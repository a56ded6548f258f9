package ledger

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/shopspring/decimal"
)

// Obligation is the effect of one unpaid split: Debtor owes Creditor Amount.
type Obligation struct {
	Debtor   string
	Creditor string
	Amount   decimal.Decimal
}

// Obligations classifies an expense into the debts it creates.
// The payer's own share and shares already marked paid create nothing.
func Obligations(e *models.Expense) []Obligation {
	var out []Obligation
	for _, s := range e.Splits {
		if s.UserID == e.PaidByUserID || s.Paid {
			continue
		}
		out = append(out, Obligation{Debtor: s.UserID, Creditor: e.PaidByUserID, Amount: s.Amount})
	}
	return out
}

// Filter selects the expenses and settlements relevant to one scope.
type Filter struct {
	scope       models.Scope
	viewpoint   string
	counterpart string
}

// PersonalFilter selects the personal records shared by vp and counterpart.
// Asking for the records between a user and themself fails with ErrInvalidScope.
func PersonalFilter(vp Viewpoint, counterpart string) (Filter, error) {
	if vp.UserID == counterpart {
		return Filter{}, fmt.Errorf("%w: cannot query yourself (%s)", ErrInvalidScope, counterpart)
	}
	return Filter{scope: models.PersonalScope(), viewpoint: vp.UserID, counterpart: counterpart}, nil
}

// ViewpointFilter selects every personal record that involves vp, whoever the other side is.
func ViewpointFilter(vp Viewpoint) Filter {
	return Filter{scope: models.PersonalScope(), viewpoint: vp.UserID}
}

// GroupFilter selects the records of one group.
func GroupFilter(groupID string) Filter {
	return Filter{scope: models.GroupScope(groupID)}
}

// Expenses returns the expenses that qualify under f, in input order.
func (f Filter) Expenses(all []models.Expense) []models.Expense {
	var out []models.Expense
	for i := range all {
		if f.matchExpense(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out
}

// Settlements returns the settlements that qualify under f, in input order.
func (f Filter) Settlements(all []models.Settlement) []models.Settlement {
	var out []models.Settlement
	for i := range all {
		if f.matchSettlement(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out
}

func (f Filter) matchExpense(e *models.Expense) bool {
	if e.Scope != f.scope {
		return false
	}
	if !f.scope.IsPersonal() {
		return true
	}
	if !e.Involves(f.viewpoint) {
		return false
	}
	return f.counterpart == "" || e.Involves(f.counterpart)
}

func (f Filter) matchSettlement(s *models.Settlement) bool {
	if s.Scope != f.scope {
		return false
	}
	if !f.scope.IsPersonal() {
		return true
	}
	if f.counterpart == "" {
		return s.Involves(f.viewpoint)
	}
	return s.Between(f.viewpoint, f.counterpart)
}

// participantsOf collects every user id referenced by the records, plus extra.
func participantsOf(expenses []models.Expense, settlements []models.Settlement, extra ...string) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	for _, id := range extra {
		add(id)
	}
	for i := range expenses {
		add(expenses[i].PaidByUserID)
		for _, s := range expenses[i].Splits {
			add(s.UserID)
		}
	}
	for i := range settlements {
		add(settlements[i].PaidByUserID)
		add(settlements[i].ReceivedByUserID)
	}
	return ids
}
