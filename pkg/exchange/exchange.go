// Package exchange defines the unified market-data view over a venue's
// futures REST API and the registry that holds the configured venues.
package exchange

import (
	"context"
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"tradewatch/pkg/core"
)

// Pair is a symbol and its last traded price.
type Pair struct {
	Symbol string       `json:"symbol"`
	Price  *apd.Decimal `json:"price"`
}

// Candle is one kline row.
type Candle struct {
	// Timestamp is the open time of the candle in epoch milliseconds.
	Timestamp int64        `json:"timestamp"`
	Open      *apd.Decimal `json:"open"`
	High      *apd.Decimal `json:"high"`
	Low       *apd.Decimal `json:"low"`
	Close     *apd.Decimal `json:"close"`
	Volume    *apd.Decimal `json:"volume"`
}

// Balance is one asset's wallet balance.
type Balance struct {
	Asset  string       `json:"asset"`
	Amount *apd.Decimal `json:"amount"`
}

// KlineQuery bounds a kline request. Start and End are epoch milliseconds;
// zero means unbounded.
type KlineQuery struct {
	Base     string
	Quote    string
	Interval Interval
	Start    int64
	End      int64
	Limit    int
}

// Exchange is a read-only view over one venue's futures market data plus
// the signed wallet balance lookup. Implementations hold no per-call state
// and are safe for concurrent use.
type Exchange interface {
	Name() string

	// FuturesPrice returns the last traded price for base/quote.
	FuturesPrice(ctx context.Context, base, quote string) (*apd.Decimal, error)

	// FuturesPrices returns the last traded price for every listed pair.
	FuturesPrices(ctx context.Context) ([]Pair, error)

	// FuturesKline returns candlestick rows bounded by the query.
	FuturesKline(ctx context.Context, q KlineQuery) ([]Candle, error)

	// WalletBalance returns per-asset balances. Credentials are supplied by
	// the caller and used only for this call.
	WalletBalance(ctx context.Context, creds core.Credentials) ([]Balance, error)
}

// ParseDecimal converts an exchange-reported numeric string.
func ParseDecimal(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}
