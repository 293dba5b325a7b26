package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"tradewatch/cmd/utils"
)

var app *cli.App

func init() {
	app = &cli.App{
		Name:    filepath.Base(os.Args[0]),
		Usage:   "query futures market data and balances across exchanges",
		Version: "0.1.0",
	}

	app.Commands = []*cli.Command{
		{
			Action: priceAction,
			Name:   "price",
			Usage:  "print the last traded price of one pair",
			Flags:  []cli.Flag{utils.BaseFlag, utils.QuoteFlag},
		},
		{
			Action: pricesAction,
			Name:   "prices",
			Usage:  "print the last traded price of every listed pair",
		},
		{
			Action: klineAction,
			Name:   "kline",
			Usage:  "print candlestick rows for one pair",
			Flags: []cli.Flag{
				utils.BaseFlag, utils.QuoteFlag, utils.IntervalFlag,
				utils.LimitFlag, utils.DaysFlag,
			},
		},
		{
			Action: balanceAction,
			Name:   "balance",
			Usage:  "print wallet balances (requires api credentials)",
			Flags:  []cli.Flag{utils.APIKeyFlag, utils.SecretKeyFlag},
		},
	}
	app.Flags = []cli.Flag{
		utils.ExchangeFlag,
		utils.TestnetFlag,
		utils.DebugFlag,
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	if err := app.RunContext(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
