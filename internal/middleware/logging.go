package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// callKey carries the *call a handler annotates for the access log line.
type callKey struct{}

// call collects what a handler learns about its caller.
type call struct {
	userID string
}

// SetUserID records the user a handler resolved the caller to. It is a no-op
// outside LoggingInterceptor.
func SetUserID(ctx context.Context, userID string) {
	if c, ok := ctx.Value(callKey{}).(*call); ok {
		c.userID = userID
	}
}

// LoggingInterceptor returns a Connect interceptor that writes one access line
// per RPC with the procedure, the resolved user and the outcome. Caller
// mistakes log at warn and server faults at error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			c := &call{}
			start := time.Now()
			resp, err := next(context.WithValue(ctx, callKey{}, c), req)

			level := slog.LevelInfo
			attrs := []any{"procedure", req.Spec().Procedure, "user_id", c.userID}
			if c.userID == "" {
				if identity, ok := GetIdentity(ctx); ok {
					attrs = append(attrs, "subject", identity.TokenIdentifier)
				}
			}
			if err != nil {
				code := connect.CodeOf(err)
				level = slog.LevelWarn
				if code == connect.CodeInternal || code == connect.CodeUnknown {
					level = slog.LevelError
				}
				attrs = append(attrs, "code", code.String())
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					attrs = append(attrs, "error", connectErr.Message())
				} else {
					attrs = append(attrs, "error", err)
				}
			}
			attrs = append(attrs, "duration_ms", time.Since(start).Milliseconds())

			slog.Log(ctx, level, "RPC", attrs...)
			return resp, err
		}
	}
}
