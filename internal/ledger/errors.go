// Package ledger reconciles expenses and settlements into balances.
//
// Every function in this package is a pure computation over a record
// snapshot handed in by the caller. Nothing is cached between calls.
package ledger

import "errors"

var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidScope     = errors.New("invalid scope")
	ErrImbalancedSplit  = errors.New("split amounts must add up to the total expense amount")
	ErrInvalidArgument  = errors.New("invalid argument")
)
