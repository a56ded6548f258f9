package ledger

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/shopspring/decimal"
)

// MemberDetail is a group member's resolved profile.
type MemberDetail struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	ImageURL string      `json:"imageUrl,omitempty"`
	Role     models.Role `json:"role"`
}

// Debt is an amount a member owes To.
type Debt struct {
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Credit is an amount From owes a member.
type Credit struct {
	From   string          `json:"from"`
	Amount decimal.Decimal `json:"amount"`
}

// MemberBalance is one row of a group ledger.
type MemberBalance struct {
	MemberDetail
	TotalBalance decimal.Decimal `json:"totalBalance"`
	Owes         []Debt          `json:"owes"`
	OwedBy       []Credit        `json:"owedBy"`
}

type GroupSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GroupReport is the fully netted ledger of a group.
type GroupReport struct {
	Group       GroupSummary            `json:"group"`
	Members     []MemberDetail          `json:"members"`
	Expenses    []models.Expense        `json:"expenses"`
	Settlements []models.Settlement     `json:"settlements"`
	Balances    []MemberBalance         `json:"balances"`
	Lookup      map[string]MemberDetail `json:"userLookupMap"`
}

// GroupLedger nets a group's records over its full membership.
//
// It fails with ErrNotFound if group is nil and ErrPermissionDenied if vp is
// not a member. Members whose user record no longer exists still carry a
// balance row but are left out of Members and Lookup.
func GroupLedger(vp Viewpoint, group *models.Group, expenses []models.Expense, settlements []models.Settlement, users UserLookup) (GroupReport, error) {
	if group == nil {
		return GroupReport{}, fmt.Errorf("%w: group", ErrNotFound)
	}
	if !group.HasMember(vp.UserID) {
		return GroupReport{}, fmt.Errorf("%w: %s is not a member of group %s", ErrPermissionDenied, vp.UserID, group.ID)
	}

	f := GroupFilter(group.ID)
	expenses = f.Expenses(expenses)
	settlements = f.Settlements(settlements)

	memberIDs := group.MemberIDs()
	l := BuildLedger(memberIDs, expenses, settlements)

	report := GroupReport{
		Group:       GroupSummary{ID: group.ID, Name: group.Name, Description: group.Description},
		Members:     []MemberDetail{},
		Expenses:    expenses,
		Settlements: settlements,
		Lookup:      make(map[string]MemberDetail, len(group.Members)),
	}
	seen := make(map[string]bool, len(group.Members))
	for _, m := range group.Members {
		if seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true

		detail := MemberDetail{ID: m.UserID, Name: UnknownUserName, Role: m.Role}
		if u, ok := users(m.UserID); ok {
			detail.Name = u.Name
			detail.ImageURL = u.ImageURL
			report.Members = append(report.Members, detail)
			report.Lookup[detail.ID] = detail
		}

		row := MemberBalance{
			MemberDetail: detail,
			TotalBalance: l.TotalBalance(m.UserID),
			Owes:         []Debt{},
			OwedBy:       []Credit{},
		}
		for _, e := range l.Owes(m.UserID) {
			row.Owes = append(row.Owes, Debt{To: e.UserID, Amount: e.Amount})
		}
		for _, e := range l.OwedBy(m.UserID) {
			row.OwedBy = append(row.OwedBy, Credit{From: e.UserID, Amount: e.Amount})
		}
		report.Balances = append(report.Balances, row)
	}
	return report, nil
}

// MemberGroupBalance is vp's netted balance inside one group, without the rest of the ledger.
func MemberGroupBalance(vp Viewpoint, group *models.Group, expenses []models.Expense, settlements []models.Settlement) decimal.Decimal {
	f := GroupFilter(group.ID)
	l := BuildLedger(group.MemberIDs(), f.Expenses(expenses), f.Settlements(settlements))
	return l.TotalBalance(vp.UserID)
}
