package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	portsrepo "github.com/ledgerbook/ledgerbook/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type PgxSummaryRepository struct {
	BaseRepository
}

func newPgxSummaryRepository(pool *pgxpool.Pool) portsrepo.SummaryRepository {
	return &PgxSummaryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SummaryRepository = (*PgxSummaryRepository)(nil)

// AggregateEntries groups non-deleted entries matching the filter by entry
// type. The aggregation runs in a single statement so concurrent writes can
// never be half-counted: a row either committed before this query's snapshot
// or it did not.
func (r *PgxSummaryRepository) AggregateEntries(ctx context.Context, filter domain.EntryFilter) ([]portsrepo.EntryTypeTotal, error) {
	conds := []string{"e.is_deleted = FALSE"}
	args := []any{}
	conds, args = appendEntryFilter(filter, conds, args)

	query := `
		SELECT e.entry_type, COUNT(*), COALESCE(SUM(e.amount), 0.00)
		FROM ledger_entries e
		JOIN accounts a ON a.account_id = e.account_id
		WHERE ` + strings.Join(conds, " AND ") + `
		GROUP BY e.entry_type;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ledger entries: %w", err)
	}
	defer rows.Close()

	totals := []portsrepo.EntryTypeTotal{}
	for rows.Next() {
		var entryType string
		var count int64
		var total decimal.Decimal
		if err := rows.Scan(&entryType, &count, &total); err != nil {
			return nil, fmt.Errorf("failed to scan aggregation row: %w", err)
		}
		totals = append(totals, portsrepo.EntryTypeTotal{
			EntryType: domain.EntryType(entryType),
			Count:     count,
			Total:     total,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aggregation rows: %w", err)
	}
	return totals, nil
}
