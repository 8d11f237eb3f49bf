package pairnorm

import (
	"testing"

	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePairIsIdempotent(t *testing.T) {
	for _, exchange := range []string{"okex", "bitmex", "gate", "kucoin", "binance", "bitstamp", "bybit", "deribit", "ftx", "coinbase_pro"} {
		pair, err := NormalizePair(exchange, "BTC/USDT")
		require.NoError(t, err, exchange)
		assert.Equal(t, model.Pair("BTC/USDT"), pair, exchange)
	}
}

func TestNormalizeDeribit(t *testing.T) {
	cases := map[string]model.Pair{
		"BTC-PERPETUAL":      "BTC/USD",
		"BTC-28JUN24":        "BTC/USD",
		"BTC-28JUN24-60000-C": "BTC/BTC",
	}
	for symbol, want := range cases {
		got, err := NormalizePair("deribit", symbol)
		require.NoError(t, err, symbol)
		assert.Equal(t, want, got, symbol)
	}
}

func TestNormalizeFTX(t *testing.T) {
	cases := map[string]model.Pair{
		"BTC-PERP":      "BTC/USD",
		"BTC-MOVE-0928": "BTC/USD",
		"BTC-0628":      "BTC/USD",
	}
	for symbol, want := range cases {
		got, err := NormalizePair("ftx", symbol)
		require.NoError(t, err, symbol)
		assert.Equal(t, want, got, symbol)
	}
}

func TestNormalizeBitmexAliasesXBTAndInfersQuote(t *testing.T) {
	cases := map[string]model.Pair{
		"XBTUSD":  "BTC/USD",
		"ETHUSDT": "ETH/USDT",
		"XBTH24":  "BTC/USD",
	}
	for symbol, want := range cases {
		got, err := NormalizePair("bitmex", symbol)
		require.NoError(t, err, symbol)
		assert.Equal(t, want, got, symbol)
	}
}

func TestNormalizeOkexDashed(t *testing.T) {
	got, err := NormalizePair("okex", "BTC-USDT-SWAP")
	require.NoError(t, err)
	assert.Equal(t, model.Pair("BTC/USDT"), got)
}

func TestNormalizeGateUnderscore(t *testing.T) {
	got, err := NormalizePair("gate", "BTC_USDT")
	require.NoError(t, err)
	assert.Equal(t, model.Pair("BTC/USDT"), got)
}

func TestNormalizeKucoinContractAliasesXBT(t *testing.T) {
	got, err := NormalizePair("kucoin", "XBTUSDTM")
	require.NoError(t, err)
	assert.Equal(t, model.Pair("BTC/USDT"), got)

	got, err = NormalizePair("kucoin", "BTC-USDT")
	require.NoError(t, err)
	assert.Equal(t, model.Pair("BTC/USDT"), got)
}

func TestNormalizeBinanceConcatenatedAndPerp(t *testing.T) {
	got, err := NormalizePair("binance", "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, model.Pair("BTC/USDT"), got)

	got, err = NormalizePair("binance", "BTCUSD_PERP")
	require.NoError(t, err)
	assert.Equal(t, model.Pair("BTC/USD"), got)
}

func TestNormalizeBybitConcatenated(t *testing.T) {
	got, err := NormalizePair("bybit", "BTCUSD")
	require.NoError(t, err)
	assert.Equal(t, model.Pair("BTC/USD"), got)
}

func TestNormalizeUnknownExchangeFails(t *testing.T) {
	_, err := NormalizePair("not-a-real-exchange", "BTCUSDT")
	assert.ErrorIs(t, err, ErrUnknownSymbolShape)
}

func TestNormalizeUnknownShapeFails(t *testing.T) {
	_, err := NormalizePair("deribit", "not-a-deribit-symbol")
	assert.ErrorIs(t, err, ErrUnknownSymbolShape)
}
