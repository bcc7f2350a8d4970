package domain

import "github.com/shopspring/decimal"

// LedgerSummary is the aggregate view over non-deleted entries: per-type
// counts and totals plus the balance check.
type LedgerSummary struct {
	NumDebits         int64           `json:"numDebits"`
	TotalDebitAmount  decimal.Decimal `json:"totalDebitAmount"`
	NumCredits        int64           `json:"numCredits"`
	TotalCreditAmount decimal.Decimal `json:"totalCreditAmount"`
	IsBalanced        bool            `json:"isBalanced"`
}

// ZeroLedgerSummary returns the summary of an empty result set. Zero debits
// equal zero credits, so the empty ledger is balanced.
func ZeroLedgerSummary() LedgerSummary {
	return LedgerSummary{
		TotalDebitAmount:  decimal.New(0, -2),
		TotalCreditAmount: decimal.New(0, -2),
		IsBalanced:        true,
	}
}
