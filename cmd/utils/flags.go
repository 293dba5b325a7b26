package utils

import "github.com/urfave/cli/v2"

var (
	ExchangeFlag = &cli.StringFlag{
		Name:    "exchange",
		Aliases: []string{"e"},
		Value:   "binance",
		Usage:   "venue to query (binance or bybit)",
	}
	BaseFlag = &cli.StringFlag{
		Name:  "base",
		Value: "BTC",
		Usage: "base asset of the pair",
	}
	QuoteFlag = &cli.StringFlag{
		Name:  "quote",
		Value: "USDT",
		Usage: "quote asset of the pair",
	}
	IntervalFlag = &cli.StringFlag{
		Name:    "interval",
		Aliases: []string{"i"},
		Value:   "1h",
		Usage:   "kline period (1m 5m 15m 1h 4h 1d 1w)",
	}
	LimitFlag = &cli.IntFlag{
		Name:  "limit",
		Value: 0,
		Usage: "maximum number of kline rows, 0 for the venue default",
	}
	DaysFlag = &cli.IntFlag{
		Name:  "days",
		Value: 0,
		Usage: "bound the kline window to the last `N` whole days",
	}
	TestnetFlag = &cli.BoolFlag{
		Name:  "testnet",
		Value: false,
		Usage: "talk to the venue's testnet instead of production",
	}
	DebugFlag = &cli.BoolFlag{
		Name:  "debug",
		Value: false,
		Usage: "enable debug logging",
	}
	APIKeyFlag = &cli.StringFlag{
		Name:    "api-key",
		EnvVars: []string{"TRADEWATCH_API_KEY"},
		Usage:   "API key for signed endpoints",
	}
	SecretKeyFlag = &cli.StringFlag{
		Name:    "secret-key",
		EnvVars: []string{"TRADEWATCH_SECRET_KEY"},
		Usage:   "API secret for signed endpoints",
	}
)
