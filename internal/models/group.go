package models

// Role is a member's role inside a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// GroupMember is one entry of a group's membership list.
type GroupMember struct {
	UserID   string `json:"userId"`
	Role     Role   `json:"role"`
	JoinedAt int64  `json:"joinedAt"` // epoch ms
}

// Group represents a named set of users who share expenses.
// The membership list is the only part the reconciliation engine reads.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Work Lunch").
	Name string `json:"name"`

	Description string `json:"description"`

	// CreatedBy is the user ID of the group's creator.
	CreatedBy string `json:"createdBy"`

	Members []GroupMember `json:"members"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// HasMember reports whether userID is in the group's membership list.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns the member user IDs in membership order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	return ids
}
