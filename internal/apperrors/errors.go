package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
// Soft-deleted ledger entries are reported with this same error; callers
// cannot distinguish a deleted row from one that never existed.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that a write collided with existing state: a duplicate
// active account name, an idempotency key reused with a different payload, or
// a concurrent update detected by the storage layer.
var ErrConflict = errors.New("conflict")

// ErrGateway indicates that the exchange rate gateway call failed.
var ErrGateway = errors.New("exchange rate gateway failure")
