package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/engine"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
)

// codeOf maps engine errors to Connect codes.
func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, ledger.ErrUnauthenticated):
		return connect.CodeUnauthenticated
	case errors.Is(err, ledger.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, ledger.ErrPermissionDenied):
		return connect.CodePermissionDenied
	case errors.Is(err, ledger.ErrInvalidScope),
		errors.Is(err, ledger.ErrImbalancedSplit),
		errors.Is(err, ledger.ErrInvalidArgument):
		return connect.CodeInvalidArgument
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	default:
		return connect.CodeInternal
	}
}

// fail logs a failed operation and converts err for the wire.
// Caller mistakes log at warn; everything else is an error.
func fail(op string, err error, attrs ...any) *connect.Error {
	code := codeOf(err)
	attrs = append(attrs, "code", code, "error", err)
	if code == connect.CodeInternal {
		slog.Error(op+" failed", attrs...)
	} else {
		slog.Warn(op+" failed", attrs...)
	}
	return connect.NewError(code, err)
}

// viewpoint resolves the authenticated caller into an engine viewpoint.
func viewpoint(ctx context.Context, eng *engine.Engine) (ledger.Viewpoint, error) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		return ledger.Viewpoint{}, ledger.ErrUnauthenticated
	}
	vp, err := eng.ResolveViewpoint(ctx, identity)
	if err != nil {
		return ledger.Viewpoint{}, err
	}
	middleware.SetUserID(ctx, vp.UserID)
	return vp, nil
}
