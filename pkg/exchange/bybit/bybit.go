// Package bybit implements the exchange.Exchange interface over the
// Bybit v5 REST API for linear perpetuals.
package bybit

import (
	"context"
	"fmt"
	"strconv"
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
	ProductionURL = "https://api.bybit.com"
	TestnetURL    = "https://api-testnet.bybit.com"

	// maxWeight is the per-minute request budget the venue tolerates for a
	// single key; every v5 endpoint here costs one unit.
	maxWeight    = 120
	weightPeriod = time.Minute
	callWeight   = 1

	// category selects the linear perpetual product line on every market
	// endpoint.
	category = "linear"
)

// Bybit is the exchange.Exchange implementation for Bybit linear
// perpetuals.
type Bybit struct {
	client  *client.Client
	limiter *ratelimit.Limiter
	logger  zerolog.Logger
	baseURL string
}

// Option is a functional option for configuring the Bybit exchange.
type Option func(*Options)

// Options holds configuration options for the Bybit exchange.
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

// New creates a Bybit exchange backed by the given request client.
func New(c *client.Client, opts ...Option) *Bybit {
	options := &Options{
		Logger:  zerolog.Nop(),
		BaseURL: ProductionURL,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Bybit{
		client:  c,
		limiter: ratelimit.New(maxWeight, weightPeriod),
		logger:  options.Logger,
		baseURL: options.BaseURL,
	}
}

// Name returns the venue identifier "bybit".
func (e *Bybit) Name() string {
	return core.ExchangeBybit.String()
}

type tickerRow struct {
	Symbol    string `json:"symbol"`
	LastPrice string `json:"lastPrice"`
}

type tickersResponse struct {
	Result struct {
		List []tickerRow `json:"list"`
	} `json:"result"`
}

// FuturesPrice returns the last traded price for base/quote.
func (e *Bybit) FuturesPrice(ctx context.Context, base, quote string) (*apd.Decimal, error) {
	if err := e.limiter.Wait(ctx, callWeight); err != nil {
		return nil, fmt.Errorf("weight limit: %w", err)
	}

	params := core.Params{
		"category": category,
		"symbol":   formatSymbol(base, quote),
	}
	resp, err := e.client.Public(ctx, core.VerbGet, e.baseURL, "/v5/market/tickers", params, true)
	if err != nil {
		return nil, err
	}

	var data tickersResponse
	if err := sonic.Unmarshal(resp.Body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal tickers: %w", err)
	}
	if len(data.Result.List) == 0 {
		return nil, fmt.Errorf("no ticker returned for %s", formatSymbol(base, quote))
	}
	return exchange.ParseDecimal(data.Result.List[0].LastPrice)
}

// FuturesPrices returns the last traded price for every listed pair.
func (e *Bybit) FuturesPrices(ctx context.Context) ([]exchange.Pair, error) {
	if err := e.limiter.Wait(ctx, callWeight); err != nil {
		return nil, fmt.Errorf("weight limit: %w", err)
	}

	params := core.Params{"category": category}
	resp, err := e.client.Public(ctx, core.VerbGet, e.baseURL, "/v5/market/tickers", params, true)
	if err != nil {
		return nil, err
	}

	var data tickersResponse
	if err := sonic.Unmarshal(resp.Body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal tickers: %w", err)
	}

	pairs := make([]exchange.Pair, 0, len(data.Result.List))
	for _, row := range data.Result.List {
		price, err := exchange.ParseDecimal(row.LastPrice)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, exchange.Pair{Symbol: row.Symbol, Price: price})
	}
	return pairs, nil
}

type klineResponse struct {
	Result struct {
		List [][]string `json:"list"`
	} `json:"result"`
}

// FuturesKline returns candlestick rows bounded by the query. The venue
// emits rows newest first; rows that open after the requested end are
// dropped.
func (e *Bybit) FuturesKline(ctx context.Context, q exchange.KlineQuery) ([]exchange.Candle, error) {
	if err := e.limiter.Wait(ctx, callWeight); err != nil {
		return nil, fmt.Errorf("weight limit: %w", err)
	}

	limit := q.Limit
	if limit == 0 {
		limit = 200
	}

	params := core.Params{
		"category": category,
		"symbol":   formatSymbol(q.Base, q.Quote),
		"interval": q.Interval.Bybit(),
		"limit":    limit,
	}
	if q.Start > 0 {
		params["start"] = q.Start
	}
	if q.End > 0 {
		params["end"] = q.End
	}

	resp, err := e.client.Public(ctx, core.VerbGet, e.baseURL, "/v5/market/kline", params, true)
	if err != nil {
		return nil, err
	}

	var data klineResponse
	if err := sonic.Unmarshal(resp.Body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal klines: %w", err)
	}

	candles := make([]exchange.Candle, 0, len(data.Result.List))
	for _, row := range data.Result.List {
		candle, err := parseKline(row)
		if err != nil {
			return nil, err
		}
		if q.End > 0 && candle.Timestamp > q.End {
			continue
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

type walletResponse struct {
	Result struct {
		List []struct {
			Coin []struct {
				Coin          string `json:"coin"`
				WalletBalance string `json:"walletBalance"`
			} `json:"coin"`
		} `json:"list"`
	} `json:"result"`
}

// WalletBalance returns per-asset balances of the unified trading account.
// Requires a signed request under the timestamp-prefixed scheme.
func (e *Bybit) WalletBalance(ctx context.Context, creds core.Credentials) ([]exchange.Balance, error) {
	if err := e.limiter.Wait(ctx, callWeight); err != nil {
		return nil, fmt.Errorf("weight limit: %w", err)
	}

	params := core.Params{"accountType": "UNIFIED"}
	resp, err := e.client.Signed(ctx, core.VerbGet, "/v5/account/wallet-balance", params,
		core.ExchangeBybit, e.baseURL, creds)
	if err != nil {
		return nil, err
	}

	var data walletResponse
	if err := sonic.Unmarshal(resp.Body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal wallet balance: %w", err)
	}
	if len(data.Result.List) == 0 {
		return nil, nil
	}

	coins := data.Result.List[0].Coin
	balances := make([]exchange.Balance, 0, len(coins))
	for _, c := range coins {
		amount, err := exchange.ParseDecimal(c.WalletBalance)
		if err != nil {
			return nil, err
		}
		balances = append(balances, exchange.Balance{Asset: c.Coin, Amount: amount})
	}
	return balances, nil
}

// Register creates a Bybit exchange and registers it with the container.
func Register(container *exchange.Container, c *client.Client, opts ...Option) {
	ex := New(c, opts...)
	container.Register(ex.Name(), ex)
}

func formatSymbol(base, quote string) string {
	return strings.ToUpper(base) + strings.ToUpper(quote)
}

// Kline rows arrive as string arrays: start time, open, high, low, close,
// volume, turnover.
func parseKline(row []string) (exchange.Candle, error) {
	if len(row) < 6 {
		return exchange.Candle{}, fmt.Errorf("kline row has %d fields, want at least 6", len(row))
	}

	msec, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return exchange.Candle{}, fmt.Errorf("kline start time: %w", err)
	}

	fields := make([]*apd.Decimal, 5)
	for i := 1; i <= 5; i++ {
		d, err := exchange.ParseDecimal(row[i])
		if err != nil {
			return exchange.Candle{}, err
		}
		fields[i-1] = d
	}

	return exchange.Candle{
		Timestamp: msec,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}, nil
}
