package gateways

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateProvider supplies the USD to CAD conversion rate used to enrich entry
// responses with a display amount. Implementations must return a positive
// rate or an error wrapping apperrors.ErrGateway.
type RateProvider interface {
	UsdToCadRate(ctx context.Context) (decimal.Decimal, error)
}
