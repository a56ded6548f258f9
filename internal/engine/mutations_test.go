package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func TestEngine_CreateExpense(t *testing.T) {
	eng, store := setupTestEngine(t)
	ctx := context.Background()
	alice := ledger.As("alice")
	mustCreateGroup(t, store, "flat", "alice", "bob")

	t.Run("defaults category and records creator", func(t *testing.T) {
		expense := mustCreateExpense(t, eng, alice, NewExpense{
			Description:  "Taxi",
			Amount:       d("30"),
			PaidByUserID: "bob",
			Splits:       []models.Split{{UserID: "alice", Amount: d("15")}, {UserID: "bob", Amount: d("15")}},
		})
		if expense.Category != models.DefaultCategory {
			t.Errorf("Category = %q, want %q", expense.Category, models.DefaultCategory)
		}
		if expense.CreatedBy != "alice" {
			t.Errorf("CreatedBy = %q, want alice", expense.CreatedBy)
		}
	})

	t.Run("equal split without amounts is filled", func(t *testing.T) {
		expense := mustCreateExpense(t, eng, alice, NewExpense{
			Amount:       d("100"),
			PaidByUserID: "alice",
			SplitType:    models.SplitEqual,
			Splits:       []models.Split{{UserID: "alice"}, {UserID: "bob"}, {UserID: "charlie"}},
		})
		want := []string{"33.34", "33.33", "33.33"}
		for i, s := range expense.Splits {
			assertAmount(t, s.UserID, s.Amount, want[i])
		}
	})

	tests := []struct {
		name    string
		vp      ledger.Viewpoint
		in      NewExpense
		wantErr error
	}{
		{
			name: "imbalanced splits",
			vp:   alice,
			in: NewExpense{Amount: d("100"), PaidByUserID: "alice", SplitType: models.SplitExact,
				Splits: []models.Split{{UserID: "bob", Amount: d("99.98")}}},
			wantErr: ledger.ErrImbalancedSplit,
		},
		{
			name: "within tolerance is accepted",
			vp:   alice,
			in: NewExpense{Amount: d("100"), PaidByUserID: "alice", SplitType: models.SplitEqual,
				Splits: []models.Split{{UserID: "alice", Amount: d("33.33")}, {UserID: "bob", Amount: d("33.33")}, {UserID: "charlie", Amount: d("33.33")}}},
		},
		{
			name: "unknown split type",
			vp:   alice,
			in: NewExpense{Amount: d("1"), PaidByUserID: "alice", SplitType: "shares",
				Splits: []models.Split{{UserID: "bob", Amount: d("1")}}},
			wantErr: ledger.ErrInvalidArgument,
		},
		{
			name: "missing payer",
			vp:   alice,
			in: NewExpense{Amount: d("1"), SplitType: models.SplitExact,
				Splits: []models.Split{{UserID: "bob", Amount: d("1")}}},
			wantErr: ledger.ErrInvalidArgument,
		},
		{
			name: "group expense by non-member",
			vp:   ledger.As("diana"),
			in: NewExpense{Amount: d("1"), PaidByUserID: "diana", SplitType: models.SplitExact, Scope: models.GroupScope("flat"),
				Splits: []models.Split{{UserID: "alice", Amount: d("1")}}},
			wantErr: ledger.ErrPermissionDenied,
		},
		{
			name: "group expense in missing group",
			vp:   alice,
			in: NewExpense{Amount: d("1"), PaidByUserID: "alice", SplitType: models.SplitExact, Scope: models.GroupScope("nope"),
				Splits: []models.Split{{UserID: "bob", Amount: d("1")}}},
			wantErr: ledger.ErrNotFound,
		},
		{
			name: "group expense paid by non-member",
			vp:   alice,
			in: NewExpense{Amount: d("100"), PaidByUserID: "charlie", SplitType: models.SplitExact, Scope: models.GroupScope("flat"),
				Splits: []models.Split{{UserID: "alice", Amount: d("50")}, {UserID: "bob", Amount: d("50")}}},
			wantErr: ledger.ErrInvalidArgument,
		},
		{
			name: "group expense split with non-member",
			vp:   alice,
			in: NewExpense{Amount: d("100"), PaidByUserID: "alice", SplitType: models.SplitExact, Scope: models.GroupScope("flat"),
				Splits: []models.Split{{UserID: "bob", Amount: d("50")}, {UserID: "charlie", Amount: d("50")}}},
			wantErr: ledger.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.CreateExpense(ctx, tt.vp, tt.in)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEngine_DeleteExpense(t *testing.T) {
	eng, store := setupTestEngine(t)
	ctx := context.Background()
	alice, bob := ledger.As("alice"), ledger.As("bob")

	expense := mustCreateExpense(t, eng, alice, NewExpense{Amount: d("10"), PaidByUserID: "bob",
		Splits: []models.Split{{UserID: "alice", Amount: d("10")}}})
	settlement, err := eng.RecordSettlement(ctx, alice, NewSettlement{
		Amount: d("10"), PaidByUserID: "alice", ReceivedByUserID: "bob", RelatedExpenseIDs: []string{expense.ID},
	})
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	t.Run("outsider may not delete", func(t *testing.T) {
		err := eng.DeleteExpense(ctx, ledger.As("charlie"), expense.ID)
		if !errors.Is(err, ledger.ErrPermissionDenied) {
			t.Errorf("Expected ErrPermissionDenied, got %v", err)
		}
	})

	t.Run("payer deletes and orphaned settlement goes too", func(t *testing.T) {
		if err := eng.DeleteExpense(ctx, bob, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		settlements, err := store.ListSettlements(ctx, storage.SettlementFilter{Party: "alice"})
		if err != nil {
			t.Fatalf("ListSettlements failed: %v", err)
		}
		for _, s := range settlements {
			if s.ID == settlement.ID {
				t.Error("Expected settlement to be deleted with its only related expense")
			}
		}
	})

	t.Run("missing expense", func(t *testing.T) {
		err := eng.DeleteExpense(ctx, alice, expense.ID)
		if !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestEngine_RecordSettlement(t *testing.T) {
	eng, store := setupTestEngine(t)
	ctx := context.Background()
	alice := ledger.As("alice")
	mustCreateGroup(t, store, "flat", "alice", "bob")

	tests := []struct {
		name    string
		in      NewSettlement
		wantErr error
	}{
		{"personal", NewSettlement{Amount: d("5"), PaidByUserID: "alice", ReceivedByUserID: "charlie", Note: "cash"}, nil},
		{"group", NewSettlement{Amount: d("5"), PaidByUserID: "bob", ReceivedByUserID: "alice", Scope: models.GroupScope("flat")}, nil},
		{"zero amount", NewSettlement{Amount: d("0"), PaidByUserID: "alice", ReceivedByUserID: "bob"}, ledger.ErrInvalidArgument},
		{"self", NewSettlement{Amount: d("5"), PaidByUserID: "alice", ReceivedByUserID: "alice"}, ledger.ErrInvalidScope},
		{"not a party", NewSettlement{Amount: d("5"), PaidByUserID: "bob", ReceivedByUserID: "charlie"}, ledger.ErrPermissionDenied},
		{"receiver outside group", NewSettlement{Amount: d("5"), PaidByUserID: "alice", ReceivedByUserID: "charlie", Scope: models.GroupScope("flat")}, ledger.ErrInvalidArgument},
		{"unknown related expense", NewSettlement{Amount: d("5"), PaidByUserID: "alice", ReceivedByUserID: "bob", RelatedExpenseIDs: []string{"ghost"}}, ledger.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settlement, err := eng.RecordSettlement(ctx, alice, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("RecordSettlement failed: %v", err)
			}
			if settlement.ID == "" || settlement.CreatedBy != "alice" {
				t.Errorf("Unexpected settlement: %+v", settlement)
			}
		})
	}
}

func TestEngine_SyncUser(t *testing.T) {
	eng, _ := setupTestEngine(t)
	ctx := context.Background()

	t.Run("existing identity is renamed", func(t *testing.T) {
		user, err := eng.SyncUser(ctx, models.Identity{TokenIdentifier: "idp|alice", Name: "Alice Smith"})
		if err != nil {
			t.Fatalf("SyncUser failed: %v", err)
		}
		if user.ID != "alice" || user.Name != "Alice Smith" {
			t.Errorf("Unexpected user: %+v", user)
		}
	})

	t.Run("new identity without name is anonymous", func(t *testing.T) {
		user, err := eng.SyncUser(ctx, models.Identity{TokenIdentifier: "idp|new", Email: "new@example.com"})
		if err != nil {
			t.Fatalf("SyncUser failed: %v", err)
		}
		if user.Name != AnonymousUserName || user.ID == "" {
			t.Errorf("Unexpected user: %+v", user)
		}

		again, err := eng.SyncUser(ctx, models.Identity{TokenIdentifier: "idp|new"})
		if err != nil {
			t.Fatalf("SyncUser failed: %v", err)
		}
		if again.ID != user.ID {
			t.Errorf("Expected the same user on resync, got %s and %s", user.ID, again.ID)
		}

		vp, err := eng.ResolveViewpoint(ctx, models.Identity{TokenIdentifier: "idp|new"})
		if err != nil {
			t.Fatalf("ResolveViewpoint failed: %v", err)
		}
		if vp.UserID != user.ID {
			t.Errorf("Viewpoint = %s, want %s", vp.UserID, user.ID)
		}
	})

	t.Run("unsynced identity is unauthenticated", func(t *testing.T) {
		_, err := eng.ResolveViewpoint(ctx, models.Identity{TokenIdentifier: "idp|stranger"})
		if !errors.Is(err, ledger.ErrUnauthenticated) {
			t.Errorf("Expected ErrUnauthenticated, got %v", err)
		}
		if _, err := eng.SyncUser(ctx, models.Identity{}); !errors.Is(err, ledger.ErrUnauthenticated) {
			t.Errorf("Expected ErrUnauthenticated, got %v", err)
		}
	})
}
