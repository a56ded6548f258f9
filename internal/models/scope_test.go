package models

import (
	"encoding/json"
	"testing"
)

func TestScope_JSON(t *testing.T) {
	tests := []struct {
		name  string
		scope Scope
		json  string
	}{
		{"personal", PersonalScope(), "null"},
		{"group", GroupScope("g1"), `"g1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.scope)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != tt.json {
				t.Errorf("Marshal = %s, want %s", data, tt.json)
			}

			var got Scope
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if got != tt.scope {
				t.Errorf("Unmarshal = %s, want %s", got, tt.scope)
			}
		})
	}
}

func TestScope_AbsentFieldIsPersonal(t *testing.T) {
	var e Expense
	if err := json.Unmarshal([]byte(`{"id":"e1","amount":"10"}`), &e); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !e.Scope.IsPersonal() {
		t.Errorf("Expected personal scope, got %s", e.Scope)
	}
	if _, ok := e.Scope.GroupID(); ok {
		t.Error("Personal scope should have no group ID")
	}
}

func TestScope_RejectsNonString(t *testing.T) {
	var s Scope
	if err := json.Unmarshal([]byte(`42`), &s); err == nil {
		t.Error("Expected an error for a numeric scope")
	}
}
