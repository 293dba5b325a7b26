package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"tradewatch/cmd/utils"
	"tradewatch/pkg/client"
	"tradewatch/pkg/core"
	"tradewatch/pkg/exchange"
	"tradewatch/pkg/exchange/binance"
	"tradewatch/pkg/exchange/bybit"
	"tradewatch/pkg/timeutil"
)

// setup builds the shared request client and the venue registry, and
// resolves the venue named on the command line.
func setup(ctx *cli.Context) (exchange.Exchange, *client.Client, error) {
	level := zerolog.WarnLevel
	if ctx.Bool(utils.DebugFlag.Name) {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.NewConsoleWriter()).
		Level(level).
		With().Timestamp().Logger()

	c, err := client.New(client.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	container := exchange.NewContainer()
	if ctx.Bool(utils.TestnetFlag.Name) {
		binance.Register(container, c, binance.WithLogger(logger), binance.WithBaseURL(binance.TestnetURL))
		bybit.Register(container, c, bybit.WithLogger(logger), bybit.WithBaseURL(bybit.TestnetURL))
	} else {
		binance.Register(container, c, binance.WithLogger(logger))
		bybit.Register(container, c, bybit.WithLogger(logger))
	}

	ex, err := container.Get(ctx.String(utils.ExchangeFlag.Name))
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return ex, c, nil
}

func priceAction(ctx *cli.Context) error {
	ex, c, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	base := ctx.String(utils.BaseFlag.Name)
	quote := ctx.String(utils.QuoteFlag.Name)
	price, err := ex.FuturesPrice(ctx.Context, base, quote)
	if err != nil {
		return err
	}

	fmt.Printf("%s%s %s\n", base, quote, price.String())
	return nil
}

func pricesAction(ctx *cli.Context) error {
	ex, c, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	pairs, err := ex.FuturesPrices(ctx.Context)
	if err != nil {
		return err
	}

	for _, p := range pairs {
		fmt.Printf("%s %s\n", p.Symbol, p.Price.String())
	}
	return nil
}

func klineAction(ctx *cli.Context) error {
	ex, c, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	interval, err := exchange.ParseInterval(ctx.String(utils.IntervalFlag.Name))
	if err != nil {
		return err
	}

	q := exchange.KlineQuery{
		Base:     ctx.String(utils.BaseFlag.Name),
		Quote:    ctx.String(utils.QuoteFlag.Name),
		Interval: interval,
		Limit:    ctx.Int(utils.LimitFlag.Name),
	}
	if days := ctx.Int(utils.DaysFlag.Name); days > 0 {
		q.Start = timeutil.StartMillisecondsAgo(days)
		q.End = timeutil.EndMillisecondsAgo(0)
	}

	candles, err := ex.FuturesKline(ctx.Context, q)
	if err != nil {
		return err
	}

	for _, k := range candles {
		fmt.Printf("%d open=%s high=%s low=%s close=%s volume=%s\n",
			k.Timestamp, k.Open, k.High, k.Low, k.Close, k.Volume)
	}
	return nil
}

func balanceAction(ctx *cli.Context) error {
	ex, c, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	creds := core.Credentials{
		APIKey:    ctx.String(utils.APIKeyFlag.Name),
		SecretKey: ctx.String(utils.SecretKeyFlag.Name),
	}
	if creds.Empty() {
		return fmt.Errorf("api credentials required: set --api-key/--secret-key or the TRADEWATCH_API_KEY/TRADEWATCH_SECRET_KEY environment variables")
	}

	balances, err := ex.WalletBalance(ctx.Context, creds)
	if err != nil {
		return err
	}

	for _, b := range balances {
		fmt.Printf("%s %s\n", b.Asset, b.Amount.String())
	}
	return nil
}
