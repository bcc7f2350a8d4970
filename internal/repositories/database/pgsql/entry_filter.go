package pgsql

import (
	"fmt"
	"strings"

	"github.com/ledgerbook/ledgerbook/internal/core/domain"
)

// appendEntryFilter renders an EntryFilter into SQL predicates over the
// aliased tables (e = ledger_entries, a = accounts), appending to conds and
// args. The same predicates back entry listing, counting and summary
// aggregation so the three queries can never drift apart.
func appendEntryFilter(filter domain.EntryFilter, conds []string, args []any) ([]string, []any) {
	if filter.AccountName != "" {
		args = append(args, strings.ToLower(filter.AccountName))
		conds = append(conds, fmt.Sprintf("LOWER(a.name) = $%d", len(args)))
	}
	if filter.Currency != "" {
		args = append(args, strings.ToUpper(filter.Currency))
		conds = append(conds, fmt.Sprintf("e.currency = $%d", len(args)))
	}
	if filter.EntryType != nil {
		args = append(args, string(*filter.EntryType))
		conds = append(conds, fmt.Sprintf("e.entry_type = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conds = append(conds, fmt.Sprintf("e.entry_date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conds = append(conds, fmt.Sprintf("e.entry_date <= $%d", len(args)))
	}
	return conds, args
}
