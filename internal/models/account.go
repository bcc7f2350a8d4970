package models

import "time"

// Account mirrors a row of the accounts table.
// Active account names are kept unique by a partial unique index; inactive
// accounts may share a name with each other and with no active account.
type Account struct {
	AccountID string    `db:"account_id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}
