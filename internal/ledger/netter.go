package ledger

import (
	"sort"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/shopspring/decimal"
)

// Edge is one positive cell of a netted ledger, seen from one participant:
// the counterparty and the amount flowing between them.
type Edge struct {
	UserID string
	Amount decimal.Decimal
}

// Ledger is a pairwise debt matrix over a fixed participant set.
// owes[a][b] is the amount a currently owes b.
//
// After Net, for every pair at most one direction is positive.
type Ledger struct {
	ids  []string
	owes map[string]map[string]decimal.Decimal
}

// NewLedger returns a ledger with every ordered pair of distinct
// participants initialized to zero. Duplicate and empty ids are ignored.
func NewLedger(participants []string) *Ledger {
	set := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p != "" {
			set[p] = true
		}
	}
	ids := make([]string, 0, len(set))
	for p := range set {
		ids = append(ids, p)
	}
	sort.Strings(ids)

	owes := make(map[string]map[string]decimal.Decimal, len(ids))
	for _, a := range ids {
		row := make(map[string]decimal.Decimal, len(ids)-1)
		for _, b := range ids {
			if a != b {
				row[b] = decimal.Zero
			}
		}
		owes[a] = row
	}
	return &Ledger{ids: ids, owes: owes}
}

// BuildLedger accumulates the expenses and settlements over participants
// and nets the result.
func BuildLedger(participants []string, expenses []models.Expense, settlements []models.Settlement) *Ledger {
	l := NewLedger(participants)
	for i := range expenses {
		l.AddExpense(&expenses[i])
	}
	for i := range settlements {
		l.AddSettlement(&settlements[i])
	}
	l.Net()
	return l
}

// Participants returns the participant ids in ascending order.
func (l *Ledger) Participants() []string {
	return append([]string(nil), l.ids...)
}

// Has reports whether id is a participant.
func (l *Ledger) Has(id string) bool {
	_, ok := l.owes[id]
	return ok
}

// AddExpense records every unpaid obligation of e.
// Obligations touching a non-participant are ignored.
func (l *Ledger) AddExpense(e *models.Expense) {
	for _, o := range Obligations(e) {
		l.add(o.Debtor, o.Creditor, o.Amount)
	}
}

// AddSettlement reduces what the payer owes the receiver. Overpayment drives
// the cell negative, which Net turns into a debt in the other direction.
func (l *Ledger) AddSettlement(s *models.Settlement) {
	l.add(s.PaidByUserID, s.ReceivedByUserID, s.Amount.Neg())
}

func (l *Ledger) add(debtor, creditor string, amount decimal.Decimal) {
	if debtor == creditor {
		return
	}
	row, ok := l.owes[debtor]
	if !ok || !l.Has(creditor) {
		return
	}
	row[creditor] = row[creditor].Add(amount)
}

// Net collapses each unordered pair to a single directional amount.
// An exact zero difference settles the pair.
func (l *Ledger) Net() {
	for i, a := range l.ids {
		for _, b := range l.ids[i+1:] {
			diff := l.owes[a][b].Sub(l.owes[b][a])
			switch diff.Sign() {
			case 1:
				l.owes[a][b], l.owes[b][a] = diff, decimal.Zero
			case -1:
				l.owes[a][b], l.owes[b][a] = decimal.Zero, diff.Neg()
			default:
				l.owes[a][b], l.owes[b][a] = decimal.Zero, decimal.Zero
			}
		}
	}
}

// Owed returns how much debtor owes creditor.
func (l *Ledger) Owed(debtor, creditor string) decimal.Decimal {
	return l.owes[debtor][creditor]
}

// Owes lists the positive outgoing cells of id's row, ordered by counterparty id.
func (l *Ledger) Owes(id string) []Edge {
	var out []Edge
	for _, other := range l.ids {
		if amt := l.owes[id][other]; amt.IsPositive() {
			out = append(out, Edge{UserID: other, Amount: amt})
		}
	}
	return out
}

// OwedBy lists the positive incoming cells of id's column, ordered by counterparty id.
func (l *Ledger) OwedBy(id string) []Edge {
	var out []Edge
	for _, other := range l.ids {
		if other == id {
			continue
		}
		if amt := l.owes[other][id]; amt.IsPositive() {
			out = append(out, Edge{UserID: other, Amount: amt})
		}
	}
	return out
}

// TotalBalance is what others owe id minus what id owes others.
// Positive means id is a net creditor.
func (l *Ledger) TotalBalance(id string) decimal.Decimal {
	total := decimal.Zero
	for _, other := range l.ids {
		if other == id {
			continue
		}
		total = total.Add(l.owes[other][id]).Sub(l.owes[id][other])
	}
	return total
}
