// Package models defines the core domain records for Splitledger.
//
// # Records
//
// The following records are owned by the record store and read by the
// reconciliation engine:
//   - User: an identity synced from the external identity provider
//   - Group: a named membership list
//   - Expense: a payment made by one user with weighted obligations (splits)
//   - Settlement: a direct payment that reduces an existing obligation
//
// Balances are never persisted. Every query recomputes them from the current
// expense and settlement history.
//
// # Design Principles
//
//  1. Reference by ID: records refer to each other with ID strings, never pointers
//  2. Exact money: amounts are decimal.Decimal, never float64
//  3. Explicit scope: an expense or settlement is either personal or belongs
//     to exactly one group, expressed with Scope rather than an empty GroupID
package models
