package parser

import (
	"testing"
	"time"

	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBitmexTrade(t *testing.T) {
	raw := `{"table":"trade","action":"insert","data":[{
		"symbol":"XBTUSD","side":"Buy","size":100,"price":30000,
		"trdMatchID":"abc-123","homeNotional":0.00333333,
		"foreignNotional":100,"timestamp":"2023-11-14T22:13:20.000Z"
	}]}`
	trades, err := ParseTrade("bitmex", model.Unknown, raw, nil)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	tr := trades[0]
	assert.Equal(t, "bitmex", tr.Exchange)
	assert.Equal(t, model.InverseSwap, tr.MarketType)
	assert.Equal(t, model.Pair("BTC/USD"), tr.Pair)
	assert.Equal(t, model.Buy, tr.Side)
	assert.Equal(t, "abc-123", tr.TradeID)
	assert.Equal(t, 30000.0, tr.Price)
	require.NotNil(t, tr.QuantityContract)
	assert.Equal(t, 100.0, *tr.QuantityContract)
	assert.Equal(t, int64(1700000000000), tr.Timestamp)
}

func TestParseBitmexOrderBookUsesIDToPriceWhenPriceAbsent(t *testing.T) {
	// id 8797000000 maps to price 30000 for XBTUSD (Index 88, TickSize 0.01).
	raw := `{"table":"orderBookL2","action":"partial","data":[
		{"symbol":"XBTUSD","id":8797000000,"side":"Buy","size":100}
	]}`
	now := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	books, err := ParseOrderBook("bitmex", model.Unknown, raw, &now)
	require.NoError(t, err)
	require.Len(t, books, 1)
	book := books[0]
	assert.True(t, book.Snapshot)
	require.Len(t, book.Bids, 1)
	assert.InDelta(t, 30000.0, book.Bids[0].Price, 1e-6)
}

func TestParseBitmexFundingRate(t *testing.T) {
	raw := `{"table":"funding","action":"insert","data":[{
		"symbol":"XBTUSD","fundingRate":0.0001,
		"timestamp":"2023-11-14T20:00:00.000Z"
	}]}`
	rates, err := ParseFundingRate("bitmex", model.Unknown, raw, nil)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, 0.0001, rates[0].FundingRate)
	assert.Equal(t, model.Pair("BTC/USD"), rates[0].Pair)
}
