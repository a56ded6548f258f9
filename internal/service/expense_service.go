package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/engine"
)

const ExpenseServiceName = "splitledger.v1.ExpenseService"

const (
	ExpenseServiceCreateExpenseProcedure    = "/" + ExpenseServiceName + "/CreateExpense"
	ExpenseServiceDeleteExpenseProcedure    = "/" + ExpenseServiceName + "/DeleteExpense"
	ExpenseServiceRecordSettlementProcedure = "/" + ExpenseServiceName + "/RecordSettlement"
)

// ExpenseService serves the record mutations.
type ExpenseService struct {
	engine *engine.Engine
}

// NewExpenseService creates a new ExpenseService backed by eng.
func NewExpenseService(eng *engine.Engine) *ExpenseService {
	return &ExpenseService{engine: eng}
}

// NewExpenseServiceHandler builds an HTTP handler for every ExpenseService
// procedure. It returns the path prefix to mount the handler on.
func NewExpenseServiceHandler(svc *ExpenseService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, connect.WithCodec(jsonCodec{}))
	mux := http.NewServeMux()
	mux.Handle(ExpenseServiceCreateExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...))
	mux.Handle(ExpenseServiceDeleteExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	mux.Handle(ExpenseServiceRecordSettlementProcedure, connect.NewUnaryHandler(ExpenseServiceRecordSettlementProcedure, svc.RecordSettlement, opts...))
	return "/" + ExpenseServiceName + "/", mux
}

// CreateExpense records an expense paid by one user and split across participants.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"scope", req.Msg.Scope.String(),
		"amount", req.Msg.Amount.String(),
		"splits_count", len(req.Msg.Splits),
	)

	vp, err := viewpoint(ctx, s.engine)
	if err != nil {
		return nil, fail("CreateExpense", err)
	}

	expense, err := s.engine.CreateExpense(ctx, vp, engine.NewExpense{
		Description:  req.Msg.Description,
		Amount:       req.Msg.Amount,
		Category:     req.Msg.Category,
		Date:         req.Msg.Date,
		PaidByUserID: req.Msg.PaidByUserID,
		SplitType:    req.Msg.SplitType,
		Splits:       req.Msg.Splits,
		Scope:        req.Msg.Scope,
	})
	if err != nil {
		return nil, fail("CreateExpense", err, "user_id", vp.UserID)
	}

	return connect.NewResponse(&CreateExpenseResponse{Expense: expense}), nil
}

// DeleteExpense removes an expense the caller created or paid.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	vp, err := viewpoint(ctx, s.engine)
	if err != nil {
		return nil, fail("DeleteExpense", err)
	}

	if err := s.engine.DeleteExpense(ctx, vp, req.Msg.ExpenseID); err != nil {
		return nil, fail("DeleteExpense", err, "user_id", vp.UserID, "expense_id", req.Msg.ExpenseID)
	}

	return connect.NewResponse(&DeleteExpenseResponse{Success: true}), nil
}

// RecordSettlement records a direct payment the caller made or received.
func (s *ExpenseService) RecordSettlement(ctx context.Context, req *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error) {
	slog.Info("RecordSettlement request received",
		"scope", req.Msg.Scope.String(),
		"amount", req.Msg.Amount.String(),
	)

	vp, err := viewpoint(ctx, s.engine)
	if err != nil {
		return nil, fail("RecordSettlement", err)
	}

	settlement, err := s.engine.RecordSettlement(ctx, vp, engine.NewSettlement{
		Amount:            req.Msg.Amount,
		Date:              req.Msg.Date,
		PaidByUserID:      req.Msg.PaidByUserID,
		ReceivedByUserID:  req.Msg.ReceivedByUserID,
		Scope:             req.Msg.Scope,
		RelatedExpenseIDs: req.Msg.RelatedExpenseIDs,
		Note:              req.Msg.Note,
	})
	if err != nil {
		return nil, fail("RecordSettlement", err, "user_id", vp.UserID)
	}

	return connect.NewResponse(&RecordSettlementResponse{Settlement: settlement}), nil
}
