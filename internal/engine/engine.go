// Package engine answers balance queries and applies record mutations on
// behalf of a viewpoint user. It loads a request-scoped snapshot from the
// record store and hands it to the ledger package; no balance is cached.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Engine is the reconciliation engine.
type Engine struct {
	store storage.Store
	loc   *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocation sets the time zone calendar months are bucketed in. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// New creates an Engine reading from store.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{store: store, loc: time.UTC}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Location returns the time zone calendar months are bucketed in.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// ResolveViewpoint maps a verified identity to the viewpoint of its user.
// An identity that was never synced fails with ErrUnauthenticated.
func (e *Engine) ResolveViewpoint(ctx context.Context, identity models.Identity) (ledger.Viewpoint, error) {
	if identity.TokenIdentifier == "" {
		return ledger.Viewpoint{}, ledger.ErrUnauthenticated
	}
	user, err := e.store.GetUserByToken(ctx, identity.TokenIdentifier)
	if errors.Is(err, storage.ErrNotFound) {
		return ledger.Viewpoint{}, fmt.Errorf("%w: identity %s has no user record", ledger.ErrUnauthenticated, identity.TokenIdentifier)
	}
	if err != nil {
		return ledger.Viewpoint{}, err
	}
	return ledger.As(user.ID), nil
}

// currentUser returns the user behind vp.
func (e *Engine) currentUser(ctx context.Context, vp ledger.Viewpoint) (*models.User, error) {
	if vp.IsZero() {
		return nil, ledger.ErrUnauthenticated
	}
	user, err := e.store.GetUser(ctx, vp.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: no user record for %s", ledger.ErrUnauthenticated, vp.UserID)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// users loads the profiles of ids as a lookup. Missing users resolve to ok=false.
func (e *Engine) users(ctx context.Context, ids []string) (ledger.UserLookup, error) {
	users, err := e.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return ledger.UsersByID(users), nil
}

// GetPersonalBalances nets vp's personal records against every counterparty.
func (e *Engine) GetPersonalBalances(ctx context.Context, vp ledger.Viewpoint) (ledger.PersonalReport, error) {
	if _, err := e.currentUser(ctx, vp); err != nil {
		return ledger.PersonalReport{}, err
	}

	expenses, err := e.store.ListExpenses(ctx, storage.ExpenseFilter{Scope: storage.Personal(), Participant: vp.UserID})
	if err != nil {
		return ledger.PersonalReport{}, err
	}
	settlements, err := e.store.ListSettlements(ctx, storage.SettlementFilter{Scope: storage.Personal(), Party: vp.UserID})
	if err != nil {
		return ledger.PersonalReport{}, err
	}

	f := ledger.ViewpointFilter(vp)
	expenses = f.Expenses(expenses)
	settlements = f.Settlements(settlements)

	lookup, err := e.users(ctx, idsOf(expenses, settlements))
	if err != nil {
		return ledger.PersonalReport{}, err
	}
	return ledger.PersonalBalances(vp, expenses, settlements, lookup), nil
}

// GetGroupLedger nets groupID's records over its full membership.
func (e *Engine) GetGroupLedger(ctx context.Context, vp ledger.Viewpoint, groupID string) (ledger.GroupReport, error) {
	if _, err := e.currentUser(ctx, vp); err != nil {
		return ledger.GroupReport{}, err
	}

	group, err := e.memberGroup(ctx, vp, groupID)
	if err != nil {
		return ledger.GroupReport{}, err
	}

	expenses, err := e.store.ListExpenses(ctx, storage.ExpenseFilter{Scope: storage.InGroup(groupID)})
	if err != nil {
		return ledger.GroupReport{}, err
	}
	settlements, err := e.store.ListSettlements(ctx, storage.SettlementFilter{Scope: storage.InGroup(groupID)})
	if err != nil {
		return ledger.GroupReport{}, err
	}

	lookup, err := e.users(ctx, group.MemberIDs())
	if err != nil {
		return ledger.GroupReport{}, err
	}
	return ledger.GroupLedger(vp, group, expenses, settlements, lookup)
}

// GetMonthlySpending returns vp's own share of spending per calendar month
// of year, January first. The result always has twelve entries.
func (e *Engine) GetMonthlySpending(ctx context.Context, vp ledger.Viewpoint, year int) ([]ledger.MonthTotal, error) {
	expenses, err := e.expensesInYear(ctx, vp, year)
	if err != nil {
		return nil, err
	}
	return ledger.MonthlySpending(vp, year, e.loc, expenses), nil
}

// GetTotalSpent returns vp's own share of spending across year.
func (e *Engine) GetTotalSpent(ctx context.Context, vp ledger.Viewpoint, year int) (decimal.Decimal, error) {
	expenses, err := e.expensesInYear(ctx, vp, year)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.TotalSpent(vp, year, e.loc, expenses), nil
}

func (e *Engine) expensesInYear(ctx context.Context, vp ledger.Viewpoint, year int) ([]models.Expense, error) {
	if _, err := e.currentUser(ctx, vp); err != nil {
		return nil, err
	}
	start, end := ledger.YearBounds(year, e.loc)
	return e.store.ListExpenses(ctx, storage.ExpenseFilter{From: start, To: end})
}

// GetContacts lists the users vp shares personal expenses with and the groups vp belongs to.
func (e *Engine) GetContacts(ctx context.Context, vp ledger.Viewpoint) (ledger.Contacts, error) {
	if _, err := e.currentUser(ctx, vp); err != nil {
		return ledger.Contacts{}, err
	}

	expenses, err := e.store.ListExpenses(ctx, storage.ExpenseFilter{Scope: storage.Personal(), Participant: vp.UserID})
	if err != nil {
		return ledger.Contacts{}, err
	}
	expenses = ledger.ViewpointFilter(vp).Expenses(expenses)

	groups, err := e.store.ListGroups(ctx)
	if err != nil {
		return ledger.Contacts{}, err
	}

	lookup, err := e.users(ctx, idsOf(expenses, nil))
	if err != nil {
		return ledger.Contacts{}, err
	}
	return ledger.ResolveContacts(vp, expenses, groups, lookup), nil
}

// Counterpart is the public profile of the other side of a pair history.
type Counterpart struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// PairHistory is every personal record between vp and one counterpart.
type PairHistory struct {
	Expenses    []models.Expense    `json:"expenses"`
	Settlements []models.Settlement `json:"settlements"`
	OtherUser   Counterpart         `json:"otherUser"`

	// Balance is positive when the counterpart owes vp.
	Balance decimal.Decimal `json:"balance"`
}

// GetExpensesBetween returns the personal expenses and settlements shared by
// vp and counterpartID, newest first, with the netted balance between them.
func (e *Engine) GetExpensesBetween(ctx context.Context, vp ledger.Viewpoint, counterpartID string) (PairHistory, error) {
	if _, err := e.currentUser(ctx, vp); err != nil {
		return PairHistory{}, err
	}
	f, err := ledger.PersonalFilter(vp, counterpartID)
	if err != nil {
		return PairHistory{}, err
	}

	expenses, err := e.store.ListExpenses(ctx, storage.ExpenseFilter{Scope: storage.Personal(), Participant: vp.UserID})
	if err != nil {
		return PairHistory{}, err
	}
	settlements, err := e.store.ListSettlements(ctx, storage.SettlementFilter{Scope: storage.Personal(), Party: vp.UserID})
	if err != nil {
		return PairHistory{}, err
	}
	expenses = f.Expenses(expenses)
	settlements = f.Settlements(settlements)

	other, err := e.store.GetUser(ctx, counterpartID)
	if err != nil {
		return PairHistory{}, err
	}

	balance, err := ledger.PairBalance(vp, counterpartID, expenses, settlements)
	if err != nil {
		return PairHistory{}, err
	}

	sort.SliceStable(expenses, func(i, j int) bool { return expenses[i].Date > expenses[j].Date })
	sort.SliceStable(settlements, func(i, j int) bool { return settlements[i].Date > settlements[j].Date })

	if expenses == nil {
		expenses = []models.Expense{}
	}
	if settlements == nil {
		settlements = []models.Settlement{}
	}
	return PairHistory{
		Expenses:    expenses,
		Settlements: settlements,
		OtherUser: Counterpart{
			ID:       other.ID,
			Name:     other.Name,
			Email:    other.Email,
			ImageURL: other.ImageURL,
		},
		Balance: balance,
	}, nil
}

// GroupBalance is a group vp belongs to, with vp's netted balance inside it.
type GroupBalance struct {
	models.Group
	Balance decimal.Decimal `json:"balance"`
}

// GetUserGroups lists every group vp is a member of with vp's balance in each.
func (e *Engine) GetUserGroups(ctx context.Context, vp ledger.Viewpoint) ([]GroupBalance, error) {
	if _, err := e.currentUser(ctx, vp); err != nil {
		return nil, err
	}

	groups, err := e.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	out := []GroupBalance{}
	for i := range groups {
		g := &groups[i]
		if !g.HasMember(vp.UserID) {
			continue
		}
		expenses, err := e.store.ListExpenses(ctx, storage.ExpenseFilter{Scope: storage.InGroup(g.ID)})
		if err != nil {
			return nil, err
		}
		settlements, err := e.store.ListSettlements(ctx, storage.SettlementFilter{Scope: storage.InGroup(g.ID)})
		if err != nil {
			return nil, err
		}
		out = append(out, GroupBalance{
			Group:   *g,
			Balance: ledger.MemberGroupBalance(vp, g, expenses, settlements),
		})
	}
	return out, nil
}

// idsOf collects every user id referenced by the given records, deduplicated.
func idsOf(expenses []models.Expense, settlements []models.Settlement) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, e := range expenses {
		add(e.PaidByUserID)
		for _, s := range e.Splits {
			add(s.UserID)
		}
	}
	for _, s := range settlements {
		add(s.PaidByUserID)
		add(s.ReceivedByUserID)
	}
	return ids
}
