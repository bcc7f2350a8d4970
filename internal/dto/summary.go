package dto

import (
	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SummaryParams defines the optional filters of the summary endpoint.
type SummaryParams struct {
	AccountName string `form:"account_name"`
	Currency    string `form:"currency"`
	StartDate   string `form:"start_date"`
	EndDate     string `form:"end_date"`
}

// SummaryResponse is the aggregated debit/credit view of the ledger.
type SummaryResponse struct {
	NumDebits         int64           `json:"numDebits"`
	TotalDebitAmount  decimal.Decimal `json:"totalDebitAmount"`
	NumCredits        int64           `json:"numCredits"`
	TotalCreditAmount decimal.Decimal `json:"totalCreditAmount"`
	IsBalanced        bool            `json:"isBalanced"`
}

// ToSummaryResponse converts a domain.LedgerSummary to its response DTO.
func ToSummaryResponse(s domain.LedgerSummary) SummaryResponse {
	return SummaryResponse{
		NumDebits:         s.NumDebits,
		TotalDebitAmount:  s.TotalDebitAmount,
		NumCredits:        s.NumCredits,
		TotalCreditAmount: s.TotalCreditAmount,
		IsBalanced:        s.IsBalanced,
	}
}
