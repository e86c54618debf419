package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/adshao/go-binance/v2"
	"github.com/hirokisan/bybit/v2"
	hyperliquid "github.com/sonirico/go-hyperliquid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/papervault/config"
	"github.com/vadiminshakov/papervault/internal"
	"github.com/vadiminshakov/papervault/internal/services/pricer"
	"github.com/vadiminshakov/papervault/internal/setup"
	"github.com/vadiminshakov/papervault/internal/storage/snapshots"
	"github.com/vadiminshakov/papervault/internal/storage/vaultstate"
	"github.com/vadiminshakov/papervault/internal/vault"
	"github.com/vadiminshakov/papervault/internal/web"
)

func main() {
	setupFlag := flag.Bool("setup", false, "run interactive config wizard")

	conf, confErr := config.Get()

	if *setupFlag {
		if err := setup.RunTUI(); err != nil {
			fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if confErr != nil {
		logger.Fatal("failed to get configuration", zap.Error(confErr))
	}

	pair := conf.Pair

	priceFeed, err := newPricer(conf.Platform)
	if err != nil {
		logger.Fatal("failed to create pricer", zap.Error(err))
	}

	stateStore, err := vaultstate.NewStore(conf.StateDir, pair)
	if err != nil {
		logger.Fatal("failed to init vault state store", zap.Error(err))
	}

	snapshotStore, err := snapshots.NewWALStore(conf.WalDir, pair)
	if err != nil {
		logger.Fatal("failed to init snapshot WAL", zap.Error(err))
	}
	defer snapshotStore.Close()

	v := vault.New(logger, conf.Balances)
	if state, err := stateStore.Load(); err != nil {
		logger.Warn("failed to restore vault state, starting fresh", zap.Error(err))
	} else if state != nil {
		v = vault.FromState(logger, conf.Balances, *state)
		logger.Info("vault state restored",
			zap.String("risk_balance", v.RiskBalance().String()),
			zap.String("quote_balance", v.QuoteBalance().String()))
	}

	bot, err := internal.NewVaultBot(v, priceFeed, pair, conf.PollPriceInterval, stateStore, snapshotStore, logger)
	if err != nil {
		logger.Fatal("failed to create vault bot", zap.Error(err))
	}

	webServer := web.NewServer(conf.ListenAddr, snapshotStore, bot)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Run(gctx) })
	g.Go(func() error { return webServer.Start(gctx) })

	logger.Info("papervault started",
		zap.String("pair", pair.String()),
		zap.String("platform", conf.Platform),
		zap.String("listen", conf.ListenAddr))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("papervault stopped", zap.Error(err))
	}
	logger.Info("papervault stopped")
}

func newPricer(platform string) (internal.Pricer, error) {
	switch platform {
	case "binance":
		// public endpoints only, no credentials needed
		return pricer.NewBinancePricer(binance.NewClient("", "")), nil
	case "bybit":
		return pricer.NewBybitPricer(bybit.NewClient()), nil
	case "hyperliquid":
		info := hyperliquid.NewInfo(context.Background(), hyperliquid.MainnetAPIURL, true, nil, nil)
		return pricer.NewHyperliquidPricer(info), nil
	default:
		return nil, fmt.Errorf("unknown platform: %s", platform)
	}
}
