package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/engine"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
)

const UserServiceName = "splitledger.v1.UserService"

const UserServiceSyncUserProcedure = "/" + UserServiceName + "/SyncUser"

// UserService keeps user records in step with the identity provider.
type UserService struct {
	engine *engine.Engine
}

// NewUserService creates a new UserService backed by eng.
func NewUserService(eng *engine.Engine) *UserService {
	return &UserService{engine: eng}
}

// NewUserServiceHandler builds an HTTP handler for every UserService
// procedure. It returns the path prefix to mount the handler on.
func NewUserServiceHandler(svc *UserService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, connect.WithCodec(jsonCodec{}))
	mux := http.NewServeMux()
	mux.Handle(UserServiceSyncUserProcedure, connect.NewUnaryHandler(UserServiceSyncUserProcedure, svc.SyncUser, opts...))
	return "/" + UserServiceName + "/", mux
}

// SyncUser creates or refreshes the caller's user record from the token's identity.
// Clients call it once after sign-in, before any other procedure.
func (s *UserService) SyncUser(ctx context.Context, req *connect.Request[SyncUserRequest]) (*connect.Response[SyncUserResponse], error) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		return nil, fail("SyncUser", ledger.ErrUnauthenticated)
	}

	user, err := s.engine.SyncUser(ctx, identity)
	if err != nil {
		return nil, fail("SyncUser", err, "identity", identity.TokenIdentifier)
	}
	middleware.SetUserID(ctx, user.ID)

	return connect.NewResponse(&SyncUserResponse{User: user}), nil
}
