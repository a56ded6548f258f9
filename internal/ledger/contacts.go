package ledger

import (
	"sort"

	"github.com/mmynk/splitledger/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	ContactTypeUser  = "user"
	ContactTypeGroup = "group"
)

type UserContact struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl,omitempty"`
	Type     string `json:"type"`
}

type GroupContact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MemberCount int    `json:"memberCount"`
	Type        string `json:"type"`
}

// Contacts are the people and groups a viewpoint shares expenses with.
type Contacts struct {
	Users  []UserContact  `json:"users"`
	Groups []GroupContact `json:"groups"`
}

// ResolveContacts lists every counterparty of vp's personal expenses and
// every group vp belongs to, each sorted by name.
// Counterparties whose user record is gone are skipped.
func ResolveContacts(vp Viewpoint, expenses []models.Expense, groups []models.Group, users UserLookup) Contacts {
	var ids []string
	seen := make(map[string]bool)
	for _, e := range ViewpointFilter(vp).Expenses(expenses) {
		for _, id := range counterpartiesOf(&e) {
			if id != vp.UserID && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	out := Contacts{
		Users: resolveOrSkip(ids, users, func(u models.User) UserContact {
			return UserContact{ID: u.ID, Name: u.Name, Email: u.Email, ImageURL: u.ImageURL, Type: ContactTypeUser}
		}),
		Groups: []GroupContact{},
	}
	for i := range groups {
		g := &groups[i]
		if !g.HasMember(vp.UserID) {
			continue
		}
		out.Groups = append(out.Groups, GroupContact{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			MemberCount: len(g.Members),
			Type:        ContactTypeGroup,
		})
	}

	byName := newNameOrder()
	sort.SliceStable(out.Users, func(i, j int) bool {
		return byName.less(out.Users[i].Name, out.Users[j].Name, out.Users[i].ID, out.Users[j].ID)
	})
	sort.SliceStable(out.Groups, func(i, j int) bool {
		return byName.less(out.Groups[i].Name, out.Groups[j].Name, out.Groups[i].ID, out.Groups[j].ID)
	})
	return out
}

func counterpartiesOf(e *models.Expense) []string {
	ids := make([]string, 0, len(e.Splits)+1)
	ids = append(ids, e.PaidByUserID)
	for _, s := range e.Splits {
		ids = append(ids, s.UserID)
	}
	return ids
}

// resolveOrSkip maps each id that resolves to a user through fn and drops the rest.
func resolveOrSkip[T any](ids []string, lookup UserLookup, fn func(models.User) T) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if u, ok := lookup(id); ok {
			out = append(out, fn(u))
		}
	}
	return out
}

// nameOrder collates names with the root locale: letters compare
// case-insensitively first and case only breaks ties.
type nameOrder struct {
	c *collate.Collator
}

func newNameOrder() nameOrder {
	return nameOrder{c: collate.New(language.Und)}
}

func (o nameOrder) less(a, b, idA, idB string) bool {
	if c := o.c.CompareString(a, b); c != 0 {
		return c < 0
	}
	return idA < idB
}
