package ledger

import (
	"sort"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/shopspring/decimal"
)

// UnknownUserName is shown for a counterparty whose user record is gone.
const UnknownUserName = "Unknown"

// UserLookup resolves a user id to its profile. ok is false if the user does not exist.
type UserLookup func(id string) (user models.User, ok bool)

// UsersByID adapts a map of users to a UserLookup.
func UsersByID(users map[string]*models.User) UserLookup {
	return func(id string) (models.User, bool) {
		u, ok := users[id]
		if !ok || u == nil {
			return models.User{}, false
		}
		return *u, true
	}
}

// Counterparty is one entry of a personal balance list.
type Counterparty struct {
	UserID   string          `json:"userId"`
	Name     string          `json:"name"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

type OweDetails struct {
	YouOwe       []Counterparty `json:"youOwe"`
	YouAreOwedBy []Counterparty `json:"youAreOwedBy"`
}

// PersonalReport is a viewpoint's net position over all personal (non-group) records.
type PersonalReport struct {
	YouOwe       decimal.Decimal `json:"youOwe"`
	YouAreOwed   decimal.Decimal `json:"youAreOwed"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
	OweDetails   OweDetails      `json:"oweDetails"`
}

// PersonalBalances nets every personal record involving vp against each counterparty.
// Records outside vp's personal scope are filtered out first.
// Both lists are sorted by amount, largest first, and omit settled counterparties.
func PersonalBalances(vp Viewpoint, expenses []models.Expense, settlements []models.Settlement, users UserLookup) PersonalReport {
	f := ViewpointFilter(vp)
	expenses = f.Expenses(expenses)
	settlements = f.Settlements(settlements)

	l := BuildLedger(participantsOf(expenses, settlements, vp.UserID), expenses, settlements)

	report := PersonalReport{
		YouOwe:     decimal.Zero,
		YouAreOwed: decimal.Zero,
		OweDetails: OweDetails{YouOwe: []Counterparty{}, YouAreOwedBy: []Counterparty{}},
	}
	for _, e := range l.Owes(vp.UserID) {
		report.YouOwe = report.YouOwe.Add(e.Amount)
		report.OweDetails.YouOwe = append(report.OweDetails.YouOwe, counterparty(e, users))
	}
	for _, e := range l.OwedBy(vp.UserID) {
		report.YouAreOwed = report.YouAreOwed.Add(e.Amount)
		report.OweDetails.YouAreOwedBy = append(report.OweDetails.YouAreOwedBy, counterparty(e, users))
	}
	report.TotalBalance = report.YouAreOwed.Sub(report.YouOwe)

	sortByAmountDesc(report.OweDetails.YouOwe)
	sortByAmountDesc(report.OweDetails.YouAreOwedBy)
	return report
}

// PairBalance nets the personal records between vp and counterpart.
// Positive means counterpart owes vp.
func PairBalance(vp Viewpoint, counterpart string, expenses []models.Expense, settlements []models.Settlement) (decimal.Decimal, error) {
	f, err := PersonalFilter(vp, counterpart)
	if err != nil {
		return decimal.Zero, err
	}
	l := BuildLedger([]string{vp.UserID, counterpart}, f.Expenses(expenses), f.Settlements(settlements))
	return l.Owed(counterpart, vp.UserID).Sub(l.Owed(vp.UserID, counterpart)), nil
}

func counterparty(e Edge, users UserLookup) Counterparty {
	c := Counterparty{UserID: e.UserID, Name: UnknownUserName, Amount: e.Amount}
	if u, ok := users(e.UserID); ok {
		c.Name = u.Name
		c.ImageURL = u.ImageURL
	}
	return c
}

func sortByAmountDesc(list []Counterparty) {
	sort.SliceStable(list, func(i, j int) bool {
		if c := list[i].Amount.Cmp(list[j].Amount); c != 0 {
			return c > 0
		}
		return list[i].UserID < list[j].UserID
	})
}
