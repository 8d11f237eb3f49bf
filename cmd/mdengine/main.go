// Command mdengine runs one WebSocket client per configured
// (exchange, market) pair, parses every incoming frame into the
// normalized record types, and exposes Prometheus metrics. Grounded on
// cmd/ingest/main.go's zerolog setup, env-driven configuration, and
// signal-based shutdown, trimmed of the Redis publishing, credentials,
// and spread-discovery concerns that are out of scope here (see
// DESIGN.md).
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/crypto-feed/md-engine/internal/exchange"
	"github.com/crypto-feed/md-engine/internal/exchange/binance"
	"github.com/crypto-feed/md-engine/internal/exchange/bitmex"
	"github.com/crypto-feed/md-engine/internal/exchange/bitstamp"
	"github.com/crypto-feed/md-engine/internal/exchange/bybit"
	"github.com/crypto-feed/md-engine/internal/exchange/gate"
	"github.com/crypto-feed/md-engine/internal/exchange/kucoin"
	"github.com/crypto-feed/md-engine/internal/exchange/okex"
	"github.com/crypto-feed/md-engine/internal/metrics"
	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/crypto-feed/md-engine/internal/parser"
	"github.com/crypto-feed/md-engine/internal/reftable"
)

// defaultSymbols lists one representative symbol per exchange, in that
// exchange's native grammar, to subscribe at startup.
var defaultSymbols = map[string][]string{
	"okex":     {"BTC-USDT", "BTC-USDT-SWAP"},
	"bitmex":   {"XBTUSD"},
	"bitstamp": {"btcusd"},
	"gate":     {"BTC_USDT"},
	"bybit":    {"BTCUSD"},
	"kucoin":   {"BTC-USDT", "XBTUSDTM"},
	"binance":  {"BTCUSDT"},
}

type runningClient struct {
	exchange string
	client   exchange.Client
	out      chan []byte
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	metricsPort := getEnv("METRICS_PORT", "9090")
	enabledExchanges := getEnv("ENABLED_EXCHANGES", "okex,bitmex,bitstamp,gate,bybit,kucoin,binance")

	log.Info().
		Str("metrics", ":"+metricsPort).
		Str("exchanges", enabledExchanges).
		Msg("mdengine: starting market data ingestion engine")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reftable.Load(ctx)

	metricsServer := metrics.NewServer(":" + metricsPort)
	go func() {
		if err := metricsServer.Start(); err != nil {
			log.Error().Err(err).Msg("mdengine: metrics server error")
		}
	}()

	var clients []runningClient
	for _, name := range strings.Split(enabledExchanges, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		rc, err := newClient(ctx, name)
		if err != nil {
			log.Error().Err(err).Str("exchange", name).Msg("mdengine: failed to start client")
			metrics.RecordConnectionError(name, "start_failed")
			continue
		}
		if rc.client == nil {
			continue
		}
		clients = append(clients, rc)
		metrics.RecordConnectionStatus(name, true)
		go rc.run(ctx)
		go rc.drain(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("mdengine: shutting down")
	for _, rc := range clients {
		metrics.RecordConnectionStatus(rc.exchange, false)
		if err := rc.client.Close(); err != nil {
			log.Error().Err(err).Str("exchange", rc.exchange).Msg("mdengine: error closing client")
		}
	}
	cancel()
	if err := metricsServer.Stop(); err != nil {
		log.Error().Err(err).Msg("mdengine: error stopping metrics server")
	}
}

func newClient(ctx context.Context, name string) (runningClient, error) {
	out := make(chan []byte, 1024)
	symbols := defaultSymbols[name]

	var client exchange.Client
	var err error
	switch name {
	case "okex":
		client, err = okex.New(ctx, out, "")
	case "bitmex":
		client, err = bitmex.New(ctx, out, "")
	case "bitstamp":
		client, err = bitstamp.New(ctx, out, "")
	case "gate":
		client, err = gate.NewLinear(ctx, out, "")
	case "bybit":
		client, err = bybit.New(ctx, out, "")
	case "kucoin":
		client, err = kucoin.New(ctx, out, "")
	case "binance":
		client, err = binance.New(ctx, out, "")
	default:
		log.Warn().Str("exchange", name).Msg("mdengine: unknown exchange, skipping")
		return runningClient{}, nil
	}
	if err != nil {
		return runningClient{}, err
	}
	if err := client.SubscribeTrade(symbols); err != nil {
		log.Warn().Err(err).Str("exchange", name).Msg("mdengine: trade subscription unavailable")
	}
	if err := client.SubscribeOrderBook(symbols); err != nil {
		log.Warn().Err(err).Str("exchange", name).Msg("mdengine: orderbook subscription unavailable")
	}
	return runningClient{exchange: name, client: client, out: out}, nil
}

func (rc runningClient) run(ctx context.Context) {
	if err := rc.client.Run(ctx, 0); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Str("exchange", rc.exchange).Msg("mdengine: client run loop exited")
	}
}

// drain parses every raw frame the client forwards and records
// metrics for it; parse failures are counted by internal/parser's
// metrics (not logged) and are never fatal to the engine.
func (rc runningClient) drain(ctx context.Context) {
	now := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-rc.out:
			if !ok {
				return
			}
			text := string(raw)
			if trades, err := parser.ParseTrade(rc.exchange, model.Unknown, text, &now); err == nil {
				for _, t := range trades {
					metrics.RecordTrade(rc.exchange, t.Symbol, string(t.Side), t.QuantityBase)
				}
			}
			if books, err := parser.ParseOrderBook(rc.exchange, model.Unknown, text, &now); err == nil {
				for _, b := range books {
					metrics.RecordOrderbookUpdate(rc.exchange, b.Symbol, len(b.Bids), len(b.Asks))
				}
			}
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
