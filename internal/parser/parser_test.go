package parser

import (
	"testing"

	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTradeUnsupportedExchange(t *testing.T) {
	_, err := ParseTrade("not-a-real-exchange", model.Unknown, "{}", nil)
	assert.ErrorIs(t, err, ErrUnsupportedExchange)
}

func TestParseOrderBookUnsupportedExchange(t *testing.T) {
	_, err := ParseOrderBook("not-a-real-exchange", model.Unknown, "{}", nil)
	assert.ErrorIs(t, err, ErrUnsupportedExchange)
}

func TestParseFundingRateUnsupportedExchange(t *testing.T) {
	// coinbase_pro is a real, parseable exchange for trades/books but
	// has no funding-rate channel (spot-only), so it must not be
	// registered in fundingParsers.
	_, err := ParseFundingRate("coinbase_pro", model.Unknown, "{}", nil)
	assert.ErrorIs(t, err, ErrUnsupportedExchange)
}

func TestExtractSymbolUnsupportedExchange(t *testing.T) {
	_, err := ExtractSymbol("not-a-real-exchange", "{}")
	assert.ErrorIs(t, err, ErrUnsupportedExchange)
}

func TestParseGateTradeEndToEnd(t *testing.T) {
	raw := `{"channel":"futures.trades","event":"update","result":[
		{"id":12345,"create_time_ms":1700000000123,"price":"30000.5","size":10,"contract":"BTC_USDT"}
	]}`
	trades, err := ParseTrade("gate", model.Unknown, raw, nil)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	tr := trades[0]
	assert.Equal(t, model.Pair("BTC/USDT"), tr.Pair)
	assert.Equal(t, model.Buy, tr.Side)
	assert.Equal(t, 30000.5, tr.Price)
	assert.Equal(t, "12345", tr.TradeID)
	assert.Equal(t, int64(1700000000123), tr.Timestamp)
}

func TestParseGateTradeNegativeSizeIsSell(t *testing.T) {
	raw := `{"channel":"futures.trades","event":"update","result":[
		{"id":1,"create_time_ms":1700000000000,"price":"30000","size":-5,"contract":"BTC_USDT"}
	]}`
	trades, err := ParseTrade("gate", model.Unknown, raw, nil)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, model.Sell, trades[0].Side)
}

// Funding rates for perpetual swaps are expected to stay within a
// modest magnitude (well under 100% per period); this is a sanity
// bound on the parsed value, not a protocol invariant.
func TestParseGateFundingRateWithinSaneBounds(t *testing.T) {
	raw := `{"channel":"futures.tickers","event":"update","result":[
		{"contract":"BTC_USDT","funding_rate":"0.0003","funding_rate_indicative":"0.0004"}
	]}`
	rates, err := ParseFundingRate("gate", model.Unknown, raw, nil)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Less(t, rates[0].FundingRate, 1.0)
	assert.Greater(t, rates[0].FundingRate, -1.0)
}

func TestExtractSymbolEachExchange(t *testing.T) {
	cases := map[string]struct {
		raw    string
		symbol string
	}{
		"bitmex":       {`{"table":"trade","data":[{"symbol":"XBTUSD"}]}`, "XBTUSD"},
		"coinbase_pro": {`{"product_id":"BTC-USD"}`, "BTC-USD"},
		"binance":      {`{"s":"BTCUSDT"}`, "BTCUSDT"},
		"bitstamp":     {`{"channel":"live_trades_btcusd"}`, "btcusd"},
		"kucoin":       {`{"topic":"/market/level2:BTC-USDT"}`, "BTC-USDT"},
		"gate":         {`{"channel":"futures.trades","result":[{"contract":"BTC_USDT"}]}`, "BTC_USDT"},
	}
	for exchange, c := range cases {
		symbol, err := ExtractSymbol(exchange, c.raw)
		require.NoError(t, err, exchange)
		assert.Equal(t, c.symbol, symbol, exchange)
	}
}
