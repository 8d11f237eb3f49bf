package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderJSONRoundTripSpot(t *testing.T) {
	o := Order{Price: 29000.5, QuantityBase: 1.25, QuantityQuote: 36250.625}
	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `[29000.5,1.25,36250.625]`, string(b))

	var got Order
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, o, got)
}

func TestOrderJSONRoundTripDerivative(t *testing.T) {
	qc := 5.0
	o := Order{Price: 29000.5, QuantityBase: 1.25, QuantityQuote: 36250.625, QuantityContract: &qc}
	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `[29000.5,1.25,36250.625,5]`, string(b))

	var got Order
	require.NoError(t, json.Unmarshal(b, &got))
	require.NotNil(t, got.QuantityContract)
	assert.Equal(t, o.Price, got.Price)
	assert.Equal(t, *o.QuantityContract, *got.QuantityContract)
}

func TestOrderUnmarshalInvalidLength(t *testing.T) {
	var o Order
	err := json.Unmarshal([]byte(`[1,2]`), &o)
	require.Error(t, err)
	var invalid *InvalidOrderArrayError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 2, invalid.Len)
}

func TestNewPairUppercasesAndJoins(t *testing.T) {
	assert.Equal(t, Pair("BTC/USDT"), NewPair("btc", "usdt"))
	assert.Equal(t, Pair("ETH/USD"), NewPair("ETH", "usd"))
}

func TestMarketTypeClassification(t *testing.T) {
	assert.True(t, InverseSwap.IsInverse())
	assert.True(t, QuantoFuture.IsInverse())
	assert.False(t, LinearSwap.IsInverse())
	assert.False(t, Spot.IsInverse())

	assert.True(t, LinearSwap.IsLinear())
	assert.True(t, EuropeanOption.IsLinear())
	assert.False(t, InverseSwap.IsLinear())
}

func TestNewTradeMsgSetsIdentity(t *testing.T) {
	msg := NewTradeMsg("okex", LinearSwap, "BTC-USDT-SWAP", NewPair("btc", "usdt"), 1700000000123)
	assert.Equal(t, "okex", msg.Exchange)
	assert.Equal(t, LinearSwap, msg.MarketType)
	assert.Equal(t, "BTC-USDT-SWAP", msg.Symbol)
	assert.Equal(t, Pair("BTC/USDT"), msg.Pair)
	assert.Equal(t, MsgTrade, msg.MsgType)
	assert.Equal(t, int64(1700000000123), msg.Timestamp)
}

func TestNewOrderBookMsgSnapshotVsEvent(t *testing.T) {
	snap := NewOrderBookMsg("bitmex", InverseSwap, "XBTUSD", NewPair("btc", "usd"), 1700000000000, true)
	assert.Equal(t, MsgL2Snapshot, snap.MsgType)
	assert.True(t, snap.Snapshot)

	evt := NewOrderBookMsg("bitmex", InverseSwap, "XBTUSD", NewPair("btc", "usd"), 1700000000000, false)
	assert.Equal(t, MsgL2Event, evt.MsgType)
	assert.False(t, evt.Snapshot)
}

// Timestamps throughout the engine are millisecond epoch values; this
// checks a representative fixture produces the expected 13-digit width.
func TestTimestampWidthConvention(t *testing.T) {
	msg := NewTradeMsg("okex", Spot, "BTC-USDT", NewPair("btc", "usdt"), 1700000000123)
	width := 0
	for v := msg.Timestamp; v > 0; v /= 10 {
		width++
	}
	assert.Equal(t, 13, width)
}
