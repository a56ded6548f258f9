package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

func TestEqualSplits(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []string
		want         []string
		wantErr      bool
	}{
		{
			name:         "divides evenly",
			amount:       "300",
			participants: []string{"alice", "bob", "charlie"},
			want:         []string{"100", "100", "100"},
		},
		{
			name:         "leftover cents go to the first participants",
			amount:       "100",
			participants: []string{"alice", "bob", "charlie"},
			want:         []string{"33.34", "33.33", "33.33"},
		},
		{
			name:         "two leftover cents",
			amount:       "0.05",
			participants: []string{"alice", "bob", "charlie"},
			want:         []string{"0.02", "0.02", "0.01"},
		},
		{
			name:         "sub-cent amount stays with the first",
			amount:       "10.005",
			participants: []string{"alice", "bob"},
			want:         []string{"5.005", "5"},
		},
		{
			name:         "single participant",
			amount:       "42.42",
			participants: []string{"alice"},
			want:         []string{"42.42"},
		},
		{
			name:         "no participants should error",
			amount:       "10",
			participants: nil,
			wantErr:      true,
		},
		{
			name:         "negative amount should error",
			amount:       "-1",
			participants: []string{"alice"},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			splits, err := EqualSplits(amount, tt.participants)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(splits) != len(tt.want) {
				t.Fatalf("Got %d splits, want %d", len(splits), len(tt.want))
			}
			sum := decimal.Zero
			for i, s := range splits {
				if s.UserID != tt.participants[i] {
					t.Errorf("splits[%d].UserID = %s, want %s", i, s.UserID, tt.participants[i])
				}
				if !s.Amount.Equal(decimal.RequireFromString(tt.want[i])) {
					t.Errorf("splits[%d].Amount = %s, want %s", i, s.Amount, tt.want[i])
				}
				sum = sum.Add(s.Amount)
			}
			if !sum.Equal(amount) {
				t.Errorf("Shares sum to %s, want %s", sum, amount)
			}
		})
	}
}

func TestFillEqual(t *testing.T) {
	amount := decimal.RequireFromString("10")

	t.Run("fills participants without amounts", func(t *testing.T) {
		splits, err := FillEqual(amount, []models.Split{{UserID: "alice", Paid: true}, {UserID: "bob"}})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !splits[0].Amount.Equal(decimal.NewFromInt(5)) || !splits[0].Paid || splits[1].Paid {
			t.Errorf("Unexpected splits: %+v", splits)
		}
	})

	t.Run("keeps explicit amounts", func(t *testing.T) {
		in := []models.Split{{UserID: "alice", Amount: decimal.NewFromInt(7)}, {UserID: "bob"}}
		splits, err := FillEqual(amount, in)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !splits[0].Amount.Equal(decimal.NewFromInt(7)) || !splits[1].Amount.IsZero() {
			t.Errorf("Explicit amounts were changed: %+v", splits)
		}
	})
}
