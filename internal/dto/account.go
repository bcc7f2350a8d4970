package dto

import (
	"time"

	"github.com/ledgerbook/ledgerbook/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create (or reactivate) an account.
type CreateAccountRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	IsActive *bool  `json:"isActive"` // Optional, defaults to true
}

// UpdateAccountRequest defines the data allowed for a partial account update.
// Pointers distinguish omitted fields from zero values.
type UpdateAccountRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	IsActive *bool   `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID string    `json:"accountID"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListAccountsResponse wraps the list of active accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: acc.AccountID,
		Name:      acc.Name,
		IsActive:  acc.IsActive,
		CreatedAt: acc.CreatedAt,
	}
}

// ToListAccountsResponse converts a slice of domain accounts.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: res}
}
