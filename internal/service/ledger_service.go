// Package service exposes the engine over Connect with a JSON codec.
package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/engine"
)

const LedgerServiceName = "splitledger.v1.LedgerService"

const (
	LedgerServiceGetPersonalBalancesProcedure = "/" + LedgerServiceName + "/GetPersonalBalances"
	LedgerServiceGetGroupLedgerProcedure      = "/" + LedgerServiceName + "/GetGroupLedger"
	LedgerServiceGetMonthlySpendingProcedure  = "/" + LedgerServiceName + "/GetMonthlySpending"
	LedgerServiceGetTotalSpentProcedure       = "/" + LedgerServiceName + "/GetTotalSpent"
	LedgerServiceGetContactsProcedure         = "/" + LedgerServiceName + "/GetContacts"
	LedgerServiceGetExpensesBetweenProcedure  = "/" + LedgerServiceName + "/GetExpensesBetween"
	LedgerServiceGetUserGroupsProcedure       = "/" + LedgerServiceName + "/GetUserGroups"
)

// LedgerService serves balance queries.
type LedgerService struct {
	engine *engine.Engine
	now    func() time.Time
}

// NewLedgerService creates a new LedgerService backed by eng.
func NewLedgerService(eng *engine.Engine) *LedgerService {
	return &LedgerService{engine: eng, now: time.Now}
}

// NewLedgerServiceHandler builds an HTTP handler for every LedgerService
// procedure. It returns the path prefix to mount the handler on.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, connect.WithCodec(jsonCodec{}))
	mux := http.NewServeMux()
	mux.Handle(LedgerServiceGetPersonalBalancesProcedure, connect.NewUnaryHandler(LedgerServiceGetPersonalBalancesProcedure, svc.GetPersonalBalances, opts...))
	mux.Handle(LedgerServiceGetGroupLedgerProcedure, connect.NewUnaryHandler(LedgerServiceGetGroupLedgerProcedure, svc.GetGroupLedger, opts...))
	mux.Handle(LedgerServiceGetMonthlySpendingProcedure, connect.NewUnaryHandler(LedgerServiceGetMonthlySpendingProcedure, svc.GetMonthlySpending, opts...))
	mux.Handle(LedgerServiceGetTotalSpentProcedure, connect.NewUnaryHandler(LedgerServiceGetTotalSpentProcedure, svc.GetTotalSpent, opts...))
	mux.Handle(LedgerServiceGetContactsProcedure, connect.NewUnaryHandler(LedgerServiceGetContactsProcedure, svc.GetContacts, opts...))
	mux.Handle(LedgerServiceGetExpensesBetweenProcedure, connect.NewUnaryHandler(LedgerServiceGetExpensesBetweenProcedure, svc.GetExpensesBetween, opts...))
	mux.Handle(LedgerServiceGetUserGroupsProcedure, connect.NewUnaryHandler(LedgerServiceGetUserGroupsProcedure, svc.GetUserGroups, opts...))
	return "/" + LedgerServiceName + "/", mux
}

// GetPersonalBalances returns the caller's netted 1-to-1 balances.
func (s *LedgerService) GetPersonalBalances(ctx context.Context, req *connect.Request[GetPersonalBalancesRequest]) (*connect.Response[GetPersonalBalancesResponse], error) {
	vp, err := viewpoint(ctx, s.engine)
	if err != nil {
		return nil, fail("GetPersonalBalances", err)
	}

	report, err := s.engine.GetPersonalBalances(ctx, vp)
	if err != nil {
		return nil, fail("GetPersonalBalances", err, "user_id", vp.UserID)
	}

	slog.Debug("GetPersonalBalances successful",
		"user_id", vp.UserID,
		"owe_count", len(report.OweDetails.YouOwe),
		"owed_by_count", len(report.OweDetails.YouAreOwedBy),
	)
	return connect.NewResponse(&GetPersonalBalancesResponse{PersonalReport: report}), nil
}

// GetGroupLedger returns the full netted ledger of a group the caller belongs to.
func (s *LedgerService) GetGroupLedger(ctx context.Context, req *connect.Request[GetGroupLedgerRequest]) (*connect.Response[GetGroupLedgerResponse], error) {
	vp, err := viewpoint(ctx, s.engine)
	if err != nil {
		return nil, fail("GetGroupLedger", err)
	}

	report, err := s.engine.GetGroupLedger(ctx, vp, req.Msg.GroupID)
	if err != nil {
		return nil, fail("GetGroupLedger", err, "user_id", vp.UserID, "group_id", req.Msg.GroupID)
	}

	slog.Debug("GetGroupLedger successful", "group_id", req.Msg.GroupID, "members", len(report.Balances))
	return connect.NewResponse(&GetGroupLedgerResponse{GroupReport: report}), nil
}

// GetMonthlySpending returns the caller's share of spending per month.
func (s *LedgerService) GetMonthlySpending(ctx context.Context, req *connect.Request[GetMonthlySpendingRequest]) (*connect.Response[GetMonthlySpendingResponse], error) {
	vp, err := viewpoint(ctx, s.engine)
	if err != nil {
		return nil, fail("GetMonthlySpending", err)
	}

	year := s.year(req.Msg.Year)
	months, err := s.engine.GetMonthlySpending(ctx, vp, year)
	if err != nil {
		return nil, fail("GetMonthlySpending", err, "user_id", vp.UserID, "year", year)
	}

	return connect.NewResponse(&GetMonthlySpendingResponse{Months: months}), nil
}

// GetTotalSpent returns the caller's share of spending across a year.
func (s *LedgerService) GetTotalSpent(ctx context.Context, req *connect.Request[GetTotalSpentRequest]) (*connect.Response[GetTotalSpentResponse], error) {
	vp, err := viewpoint(ctx, s.engine)
	if err != nil {
		return nil, fail("GetTotalSpent", err)
	}

	year := s.year(req.Msg.Year)
	total, err := s.engine.GetTotalSpent(ctx, vp, year)
	if err != nil {
		return nil, fail("GetTotalSpent", err, "user_id", vp.UserID, "year", year)
	}

	return connect.NewResponse(&GetTotalSpentResponse{Total: total}), nil
}

// GetContacts returns the people and groups the caller shares expenses with.
func (s *LedgerService) GetContacts(ctx context.Context, req *connect.Request[GetContactsRequest]) (*connect.Response[GetContactsResponse], error) {
	vp, err := viewpoint(ctx, s.engine)
	if err != nil {
		return nil, fail("GetContacts", err)
	}

	contacts, err := s.engine.GetContacts(ctx, vp)
	if err != nil {
		return nil, fail("GetContacts", err, "user_id", vp.UserID)
	}

	return connect.NewResponse(&GetContactsResponse{Contacts: contacts}), nil
}

// GetExpensesBetween returns the personal history between the caller and another user.
func (s *LedgerService) GetExpensesBetween(ctx context.Context, req *connect.Request[GetExpensesBetweenRequest]) (*connect.Response[GetExpensesBetweenResponse], error) {
	vp, err := viewpoint(ctx, s.engine)
	if err != nil {
		return nil, fail("GetExpensesBetween", err)
	}

	history, err := s.engine.GetExpensesBetween(ctx, vp, req.Msg.UserID)
	if err != nil {
		return nil, fail("GetExpensesBetween", err, "user_id", vp.UserID, "counterpart_id", req.Msg.UserID)
	}

	return connect.NewResponse(&GetExpensesBetweenResponse{PairHistory: history}), nil
}

// GetUserGroups returns the caller's groups with the caller's balance in each.
func (s *LedgerService) GetUserGroups(ctx context.Context, req *connect.Request[GetUserGroupsRequest]) (*connect.Response[GetUserGroupsResponse], error) {
	vp, err := viewpoint(ctx, s.engine)
	if err != nil {
		return nil, fail("GetUserGroups", err)
	}

	groups, err := s.engine.GetUserGroups(ctx, vp)
	if err != nil {
		return nil, fail("GetUserGroups", err, "user_id", vp.UserID)
	}

	return connect.NewResponse(&GetUserGroupsResponse{Groups: groups}), nil
}

func (s *LedgerService) year(requested int) int {
	if requested != 0 {
		return requested
	}
	return s.now().In(s.engine.Location()).Year()
}
