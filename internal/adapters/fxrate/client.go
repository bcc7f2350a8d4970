package fxrate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ledgerbook/ledgerbook/internal/apperrors"
	"github.com/ledgerbook/ledgerbook/internal/core/ports/gateways"
	"github.com/ledgerbook/ledgerbook/internal/platform/config"
	"github.com/shopspring/decimal"
)

// Client fetches the latest available USD to CAD rate of exchange from the
// US Treasury fiscal data API. It is stateless; every call performs one HTTP
// request bounded by the configured timeout.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient builds a gateway client from the application configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		url:        cfg.FXRateURL,
		httpClient: &http.Client{Timeout: cfg.FXRateTimeout},
	}
}

var _ gateways.RateProvider = (*Client)(nil)

// treasuryResponse is the shape of the rates_of_exchange payload, reduced to
// the field we read. The rate arrives as a string.
type treasuryResponse struct {
	Data []struct {
		ExchangeRate string `json:"exchange_rate"`
	} `json:"data"`
}

// UsdToCadRate returns the most recent USD to CAD conversion rate. Network
// errors and malformed or non-positive rates surface as apperrors.ErrGateway.
func (c *Client) UsdToCadRate(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: building rate request: %v", apperrors.ErrGateway, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: fetching exchange rate: %v", apperrors.ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: exchange rate endpoint returned status %d", apperrors.ErrGateway, resp.StatusCode)
	}

	var payload treasuryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decoding exchange rate response: %v", apperrors.ErrGateway, err)
	}

	if len(payload.Data) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no exchange rate records for Canada-Dollar", apperrors.ErrGateway)
	}

	rate, err := decimal.NewFromString(payload.Data[0].ExchangeRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: unparseable exchange rate %q", apperrors.ErrGateway, payload.Data[0].ExchangeRate)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: non-positive exchange rate %s", apperrors.ErrGateway, rate)
	}

	return rate, nil
}
