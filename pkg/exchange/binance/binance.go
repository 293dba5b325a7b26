// Package binance implements the exchange.Exchange interface over the
// Binance USD-M futures REST API.
package binance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"
	"github.com/rs/zerolog"

	"tradewatch/internal/ratelimit"
	"tradewatch/pkg/client"
	"tradewatch/pkg/core"
	"tradewatch/pkg/exchange"
)

const (
	ProductionURL = "https://fapi.binance.com"
	TestnetURL    = "https://testnet.binancefuture.com"

	// maxWeight is the per-minute request weight budget binance enforces
	// server-side; the local guard keeps us under it.
	maxWeight    = 2400
	weightPeriod = time.Minute
)

// Endpoint weights as advertised by the API documentation.
const (
	weightPrice   = 1
	weightPrices  = 2
	weightKlines  = 10
	weightBalance = 5
)

// Binance is the exchange.Exchange implementation for Binance futures.
type Binance struct {
	client  *client.Client
	limiter *ratelimit.Limiter
	logger  zerolog.Logger
	baseURL string
}

// Option is a functional option for configuring the Binance exchange.
type Option func(*Options)

// Options holds configuration options for the Binance exchange.
type Options struct {
	Logger  zerolog.Logger
	BaseURL string
}

// WithLogger returns an option that sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithBaseURL returns an option that overrides the API base URL, used for
// the testnet and in tests.
func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

// New creates a Binance exchange backed by the given request client.
func New(c *client.Client, opts ...Option) *Binance {
	options := &Options{
		Logger:  zerolog.Nop(),
		BaseURL: ProductionURL,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Binance{
		client:  c,
		limiter: ratelimit.New(maxWeight, weightPeriod),
		logger:  options.Logger,
		baseURL: options.BaseURL,
	}
}

// Name returns the venue identifier "binance".
func (e *Binance) Name() string {
	return core.ExchangeBinance.String()
}

type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// FuturesPrice returns the last traded price for base/quote.
func (e *Binance) FuturesPrice(ctx context.Context, base, quote string) (*apd.Decimal, error) {
	if err := e.limiter.Wait(ctx, weightPrice); err != nil {
		return nil, fmt.Errorf("weight limit: %w", err)
	}

	params := core.Params{"symbol": formatSymbol(base, quote)}
	resp, err := e.client.Public(ctx, core.VerbGet, e.baseURL, "/fapi/v1/ticker/price", params, true)
	if err != nil {
		return nil, err
	}

	var data tickerPrice
	if err := sonic.Unmarshal(resp.Body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal ticker price: %w", err)
	}
	return exchange.ParseDecimal(data.Price)
}

// FuturesPrices returns the last traded price for every listed pair.
func (e *Binance) FuturesPrices(ctx context.Context) ([]exchange.Pair, error) {
	if err := e.limiter.Wait(ctx, weightPrices); err != nil {
		return nil, fmt.Errorf("weight limit: %w", err)
	}

	resp, err := e.client.Public(ctx, core.VerbGet, e.baseURL, "/fapi/v1/ticker/price", nil, true)
	if err != nil {
		return nil, err
	}

	var data []tickerPrice
	if err := sonic.Unmarshal(resp.Body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal ticker prices: %w", err)
	}

	pairs := make([]exchange.Pair, 0, len(data))
	for _, row := range data {
		price, err := exchange.ParseDecimal(row.Price)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, exchange.Pair{Symbol: row.Symbol, Price: price})
	}
	return pairs, nil
}

// FuturesKline returns candlestick rows bounded by the query.
func (e *Binance) FuturesKline(ctx context.Context, q exchange.KlineQuery) ([]exchange.Candle, error) {
	if err := e.limiter.Wait(ctx, weightKlines); err != nil {
		return nil, fmt.Errorf("weight limit: %w", err)
	}

	limit := q.Limit
	if limit == 0 {
		limit = 500
	}

	params := core.Params{
		"symbol":   formatSymbol(q.Base, q.Quote),
		"interval": q.Interval.String(),
		"limit":    limit,
	}
	if q.Start > 0 {
		params["startTime"] = q.Start
	}
	if q.End > 0 {
		params["endTime"] = q.End
	}

	resp, err := e.client.Public(ctx, core.VerbGet, e.baseURL, "/fapi/v1/klines", params, true)
	if err != nil {
		return nil, err
	}

	var rows [][]any
	if err := sonic.Unmarshal(resp.Body, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal klines: %w", err)
	}

	candles := make([]exchange.Candle, 0, len(rows))
	for _, row := range rows {
		candle, err := parseKline(row)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

type balanceRow struct {
	Asset   string `json:"asset"`
	Balance string `json:"balance"`
}

// WalletBalance returns per-asset futures wallet balances. Requires a
// signed request under the standard scheme.
func (e *Binance) WalletBalance(ctx context.Context, creds core.Credentials) ([]exchange.Balance, error) {
	if err := e.limiter.Wait(ctx, weightBalance); err != nil {
		return nil, fmt.Errorf("weight limit: %w", err)
	}

	resp, err := e.client.Signed(ctx, core.VerbGet, "/fapi/v2/balance", core.Params{},
		core.ExchangeBinance, e.baseURL, creds)
	if err != nil {
		return nil, err
	}

	var rows []balanceRow
	if err := sonic.Unmarshal(resp.Body, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal balances: %w", err)
	}

	balances := make([]exchange.Balance, 0, len(rows))
	for _, row := range rows {
		amount, err := exchange.ParseDecimal(row.Balance)
		if err != nil {
			return nil, err
		}
		balances = append(balances, exchange.Balance{Asset: row.Asset, Amount: amount})
	}
	return balances, nil
}

// Register creates a Binance exchange and registers it with the container.
func Register(container *exchange.Container, c *client.Client, opts ...Option) {
	ex := New(c, opts...)
	container.Register(ex.Name(), ex)
}

func formatSymbol(base, quote string) string {
	return strings.ToUpper(base) + strings.ToUpper(quote)
}

// Kline rows arrive as mixed-type arrays: open time is a number, prices
// and volume are strings.
func parseKline(row []any) (exchange.Candle, error) {
	if len(row) < 6 {
		return exchange.Candle{}, fmt.Errorf("kline row has %d fields, want at least 6", len(row))
	}

	ts, ok := row[0].(float64)
	if !ok {
		return exchange.Candle{}, fmt.Errorf("kline open time is %T, want number", row[0])
	}

	fields := make([]*apd.Decimal, 5)
	for i := 1; i <= 5; i++ {
		s, ok := row[i].(string)
		if !ok {
			return exchange.Candle{}, fmt.Errorf("kline field %d is %T, want string", i, row[i])
		}
		d, err := exchange.ParseDecimal(s)
		if err != nil {
			return exchange.Candle{}, err
		}
		fields[i-1] = d
	}

	return exchange.Candle{
		Timestamp: int64(ts),
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}, nil
}
