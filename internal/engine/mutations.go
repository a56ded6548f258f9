package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// AnonymousUserName is given to a synced identity that carries no name.
const AnonymousUserName = "Anonymous"

// NewExpense is the input of CreateExpense.
type NewExpense struct {
	Description  string
	Amount       decimal.Decimal
	Category     string
	Date         int64
	PaidByUserID string
	SplitType    models.SplitType
	Splits       []models.Split
	Scope        models.Scope
}

// CreateExpense records an expense on behalf of vp.
//
// A group expense requires vp, the payer and every split user to be members
// of the group. The splits must
// add up to the amount within ledger.SplitTolerance. An equal split whose
// participants carry no amounts has them filled in to the cent.
func (e *Engine) CreateExpense(ctx context.Context, vp ledger.Viewpoint, in NewExpense) (*models.Expense, error) {
	if _, err := e.currentUser(ctx, vp); err != nil {
		return nil, err
	}

	var group *models.Group
	if groupID, ok := in.Scope.GroupID(); ok {
		g, err := e.memberGroup(ctx, vp, groupID)
		if err != nil {
			return nil, err
		}
		group = g
	}

	if in.PaidByUserID == "" {
		return nil, fmt.Errorf("%w: payer is required", ledger.ErrInvalidArgument)
	}
	if !in.SplitType.Valid() {
		return nil, fmt.Errorf("%w: unknown split type %q", ledger.ErrInvalidArgument, in.SplitType)
	}
	splits := in.Splits
	if in.SplitType == models.SplitEqual {
		filled, err := calculator.FillEqual(in.Amount, in.Splits)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ledger.ErrInvalidArgument, err)
		}
		splits = filled
	}
	if err := ledger.ValidateSplits(in.Amount, splits); err != nil {
		return nil, err
	}
	if group != nil {
		if !group.HasMember(in.PaidByUserID) {
			return nil, fmt.Errorf("%w: %s is not a member of group %s", ledger.ErrInvalidArgument, in.PaidByUserID, group.ID)
		}
		for _, s := range splits {
			if !group.HasMember(s.UserID) {
				return nil, fmt.Errorf("%w: %s is not a member of group %s", ledger.ErrInvalidArgument, s.UserID, group.ID)
			}
		}
	}

	category := in.Category
	if category == "" {
		category = models.DefaultCategory
	}

	expense := &models.Expense{
		Description:  in.Description,
		Amount:       in.Amount,
		Category:     category,
		Date:         in.Date,
		PaidByUserID: in.PaidByUserID,
		SplitType:    in.SplitType,
		Splits:       splits,
		Scope:        in.Scope,
		CreatedBy:    vp.UserID,
	}
	if err := e.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	slog.Info("Expense created", "expense_id", expense.ID, "scope", expense.Scope.String(), "amount", expense.Amount.String())
	return expense, nil
}

// DeleteExpense removes an expense. Only its creator or its payer may do so.
// Settlements referencing it lose the reference, and a settlement left
// without references is deleted with it.
func (e *Engine) DeleteExpense(ctx context.Context, vp ledger.Viewpoint, expenseID string) error {
	if _, err := e.currentUser(ctx, vp); err != nil {
		return err
	}

	expense, err := e.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.CreatedBy != vp.UserID && expense.PaidByUserID != vp.UserID {
		return fmt.Errorf("%w: %s may not delete expense %s", ledger.ErrPermissionDenied, vp.UserID, expenseID)
	}

	if err := e.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}

	slog.Info("Expense deleted", "expense_id", expenseID)
	return nil
}

// NewSettlement is the input of RecordSettlement.
type NewSettlement struct {
	Amount            decimal.Decimal
	Date              int64
	PaidByUserID      string
	ReceivedByUserID  string
	Scope             models.Scope
	RelatedExpenseIDs []string
	Note              string
}

// RecordSettlement records a direct payment between two users, one of whom is vp.
// Overpayment is allowed; netting turns it into a debt the other way.
func (e *Engine) RecordSettlement(ctx context.Context, vp ledger.Viewpoint, in NewSettlement) (*models.Settlement, error) {
	if _, err := e.currentUser(ctx, vp); err != nil {
		return nil, err
	}

	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: settlement amount must be positive", ledger.ErrInvalidArgument)
	}
	if in.PaidByUserID == "" || in.ReceivedByUserID == "" {
		return nil, fmt.Errorf("%w: payer and receiver are required", ledger.ErrInvalidArgument)
	}
	if in.PaidByUserID == in.ReceivedByUserID {
		return nil, fmt.Errorf("%w: cannot settle with yourself (%s)", ledger.ErrInvalidScope, in.PaidByUserID)
	}
	if vp.UserID != in.PaidByUserID && vp.UserID != in.ReceivedByUserID {
		return nil, fmt.Errorf("%w: %s is not a party to this settlement", ledger.ErrPermissionDenied, vp.UserID)
	}

	if groupID, ok := in.Scope.GroupID(); ok {
		group, err := e.memberGroup(ctx, vp, groupID)
		if err != nil {
			return nil, err
		}
		for _, id := range []string{in.PaidByUserID, in.ReceivedByUserID} {
			if !group.HasMember(id) {
				return nil, fmt.Errorf("%w: %s is not a member of group %s", ledger.ErrInvalidArgument, id, groupID)
			}
		}
	}

	for _, id := range in.RelatedExpenseIDs {
		if _, err := e.store.GetExpense(ctx, id); err != nil {
			return nil, err
		}
	}

	settlement := &models.Settlement{
		Amount:            in.Amount,
		Date:              in.Date,
		PaidByUserID:      in.PaidByUserID,
		ReceivedByUserID:  in.ReceivedByUserID,
		Scope:             in.Scope,
		RelatedExpenseIDs: in.RelatedExpenseIDs,
		CreatedBy:         vp.UserID,
		Note:              in.Note,
	}
	if err := e.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, err
	}

	slog.Info("Settlement recorded", "settlement_id", settlement.ID, "scope", settlement.Scope.String(), "amount", settlement.Amount.String())
	return settlement, nil
}

// SyncUser creates the user behind identity on first sight and keeps its
// name in step with the identity provider afterwards.
func (e *Engine) SyncUser(ctx context.Context, identity models.Identity) (*models.User, error) {
	if identity.TokenIdentifier == "" {
		return nil, fmt.Errorf("%w: identity without token identifier", ledger.ErrUnauthenticated)
	}

	user, err := e.store.GetUserByToken(ctx, identity.TokenIdentifier)
	switch {
	case err == nil:
		if identity.Name != "" && user.Name != identity.Name {
			if err := e.store.UpdateUserName(ctx, user.ID, identity.Name); err != nil {
				return nil, err
			}
			slog.Info("User renamed", "user_id", user.ID)
			user.Name = identity.Name
		}
		return user, nil
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	name := identity.Name
	if name == "" {
		name = AnonymousUserName
	}
	user = &models.User{
		Name:            name,
		Email:           identity.Email,
		ImageURL:        identity.PictureURL,
		TokenIdentifier: identity.TokenIdentifier,
	}
	if err := e.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("User created", "user_id", user.ID)
	return user, nil
}

// memberGroup loads groupID and checks that vp belongs to it.
func (e *Engine) memberGroup(ctx context.Context, vp ledger.Viewpoint, groupID string) (*models.Group, error) {
	group, err := e.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(vp.UserID) {
		return nil, fmt.Errorf("%w: %s is not a member of group %s", ledger.ErrPermissionDenied, vp.UserID, groupID)
	}
	return group, nil
}
