package pairnorm

import (
	"testing"

	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestInferMarketType(t *testing.T) {
	cases := []struct {
		exchange string
		symbol   string
		want     model.MarketType
	}{
		{"bitmex", "XBTUSD", model.InverseSwap},
		{"bitmex", "XBTZ24", model.InverseFuture},
		{"bitmex", "ADAZ21", model.LinearFuture},
		{"bitmex", "ETHUSD", model.QuantoSwap},
		{"okex", "BTC-USDT", model.Spot},
		{"okex", "BTC-USDT-SWAP", model.InverseSwap},
		{"okex", "BTC-USDT-210625", model.LinearFuture},
		{"okex", "BTC-USD-210625-40000-C", model.EuropeanOption},
		{"kucoin", "BTC-USDT", model.Spot},
		{"kucoin", "XBTUSDTM", model.LinearSwap},
		{"kucoin", "XBTUSDM", model.InverseSwap},
		{"binance", "BTCUSDT_PERP", model.InverseSwap},
		{"binance", "BTCUSDT", model.LinearSwap},
		{"binance", "BTCETH", model.Spot},
		{"gate", "BTC_USDT", model.LinearSwap},
		{"gate", "BTC_USD", model.InverseSwap},
		{"gate", "BTC_ETH", model.Spot},
		{"coinbase_pro", "BTC-USD", model.Spot},
		{"bitstamp", "btcusd", model.Spot},
		{"bybit", "BTCUSD", model.InverseSwap},
		{"not-a-real-exchange", "BTCUSD", model.Unknown},
	}
	for _, c := range cases {
		got := InferMarketType(c.exchange, c.symbol)
		assert.Equal(t, c.want, got, "%s/%s", c.exchange, c.symbol)
	}
}

func TestInferBitmexShortSymbolIsUnknown(t *testing.T) {
	assert.Equal(t, model.Unknown, inferBitmex("X"))
}

func TestInferOkexUnrecognizedDashCountIsUnknown(t *testing.T) {
	assert.Equal(t, model.Unknown, InferMarketType("okex", "BTC-USDT-EXTRA-SEGMENT"))
}
