package ledger

import (
	"errors"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func TestValidateSplits(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		splits  []models.Split
		wantErr error
	}{
		{name: "exact", amount: "300", splits: []models.Split{split("a", "100"), split("b", "100"), split("c", "100")}},
		{name: "within tolerance", amount: "100", splits: []models.Split{split("a", "33.33"), split("b", "33.33"), split("c", "33.33")}},
		{name: "at tolerance", amount: "10", splits: []models.Split{split("a", "10.01")}},
		{name: "beyond tolerance", amount: "10", splits: []models.Split{split("a", "10.02")}, wantErr: ErrImbalancedSplit},
		{name: "short", amount: "100", splits: []models.Split{split("a", "50")}, wantErr: ErrImbalancedSplit},
		{name: "negative split", amount: "0", splits: []models.Split{split("a", "-5"), split("b", "5")}, wantErr: ErrInvalidArgument},
		{name: "negative amount", amount: "-1", splits: []models.Split{split("a", "-1")}, wantErr: ErrInvalidArgument},
		{name: "no splits", amount: "10", wantErr: ErrInvalidArgument},
		{name: "duplicate user", amount: "10", splits: []models.Split{split("a", "5"), split("a", "5")}, wantErr: ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSplits(d(tt.amount), tt.splits)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
