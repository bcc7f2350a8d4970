package domain

import "time"

// Account represents a named bucket that ledger entries are recorded against.
// Accounts are never physically deleted; is_active=false retires the name and
// frees it for a later reactivation.
type Account struct {
	AccountID string    `json:"accountID"` // Primary Key (UUID)
	Name      string    `json:"name"`      // Unique among active accounts only
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
