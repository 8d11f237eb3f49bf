package bybit

import (
	"testing"

	"github.com/crypto-feed/md-engine/internal/exchange"
	"github.com/crypto-feed/md-engine/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRawChannel(t *testing.T) {
	assert.Equal(t, "trade.BTCUSD", toRawChannel("trade", "BTCUSD"))
}

func TestChannelsToCommandsSingleCommand(t *testing.T) {
	commands := channelsToCommands([]string{"trade.BTCUSD", "instrument_info.100ms.BTCUSD"}, true)
	require.Len(t, commands, 1)
	assert.Contains(t, commands[0], `"op":"subscribe"`)
	assert.Contains(t, commands[0], "trade.BTCUSD")
}

func TestCandlestickIntervalMapping(t *testing.T) {
	assert.Equal(t, "1", candlestickIntervals[60])
	assert.Equal(t, "D", candlestickIntervals[86400])
	assert.Equal(t, "W", candlestickIntervals[604800])
}

func TestOnMiscMsgClassification(t *testing.T) {
	assert.Equal(t, transport.KindPong, onMiscMsg(`{"op":"pong"}`).Kind)
	assert.Equal(t, transport.KindMisc, onMiscMsg(`{"op":"subscribe","success":true}`).Kind)
	assert.Equal(t, transport.KindNormal, onMiscMsg(`{"topic":"trade.BTCUSD","data":[]}`).Kind)
	assert.Equal(t, transport.KindMisc, onMiscMsg("not json").Kind)
}

func TestUnsupportedCapabilitiesReturnSentinel(t *testing.T) {
	c := &Client{}
	assert.ErrorIs(t, c.SubscribeBBO(nil), exchange.ErrUnsupportedCapability)
	assert.ErrorIs(t, c.SubscribeL3OrderBook(nil), exchange.ErrUnsupportedCapability)
}

func TestSubscribeCandlestickUnsupportedInterval(t *testing.T) {
	c := &Client{}
	err := c.SubscribeCandlestick("BTCUSD", 42)
	assert.Error(t, err)
}
