package models

import (
	"encoding/json"
	"fmt"
)

// Scope tells whether a record is a personal (1-to-1) record or belongs to a group.
// The zero value is the personal scope.
type Scope struct {
	groupID string
}

// PersonalScope returns the scope of records that belong to no group.
func PersonalScope() Scope {
	return Scope{}
}

// GroupScope returns the scope of records that belong to groupID.
// An empty groupID yields the personal scope.
func GroupScope(groupID string) Scope {
	return Scope{groupID: groupID}
}

// IsPersonal reports whether the scope is personal.
func (s Scope) IsPersonal() bool {
	return s.groupID == ""
}

// GroupID returns the group of a group scope. ok is false for the personal scope.
func (s Scope) GroupID() (id string, ok bool) {
	return s.groupID, s.groupID != ""
}

// String implements fmt.Stringer.
func (s Scope) String() string {
	if s.IsPersonal() {
		return "personal"
	}
	return "group:" + s.groupID
}

// MarshalJSON encodes a personal scope as null and a group scope as its group ID.
func (s Scope) MarshalJSON() ([]byte, error) {
	if s.IsPersonal() {
		return []byte("null"), nil
	}
	return json.Marshal(s.groupID)
}

// UnmarshalJSON accepts null, an empty string or a group ID.
func (s *Scope) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = PersonalScope()
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("scope must be a group id or null: %w", err)
	}
	*s = GroupScope(id)
	return nil
}
