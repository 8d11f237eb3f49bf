package binance

import (
	"encoding/json"
	"testing"

	"github.com/crypto-feed/md-engine/internal/exchange"
	"github.com/crypto-feed/md-engine/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRawChannelLowercasesSymbol(t *testing.T) {
	assert.Equal(t, "btcusdt@trade", toRawChannel("trade", "BTCUSDT"))
}

func TestChannelsToCommandsShape(t *testing.T) {
	commands := channelsToCommands([]string{"btcusdt@trade"}, true)
	require.Len(t, commands, 1)
	var cmd binanceCommand
	require.NoError(t, json.Unmarshal([]byte(commands[0]), &cmd))
	assert.Equal(t, "SUBSCRIBE", cmd.Method)
	assert.Equal(t, []string{"btcusdt@trade"}, cmd.Params)
}

func TestChannelsToCommandsUnsubscribe(t *testing.T) {
	commands := channelsToCommands([]string{"btcusdt@trade"}, false)
	var cmd binanceCommand
	require.NoError(t, json.Unmarshal([]byte(commands[0]), &cmd))
	assert.Equal(t, "UNSUBSCRIBE", cmd.Method)
}

func TestOnMiscMsgClassification(t *testing.T) {
	id := int64(1)
	_ = id
	assert.Equal(t, transport.KindMisc, onMiscMsg(`{"result":null,"id":1}`).Kind)
	assert.Equal(t, transport.KindNormal, onMiscMsg(`{"e":"trade","s":"BTCUSDT"}`).Kind)
	assert.Equal(t, transport.KindMisc, onMiscMsg("not json").Kind)
}

func TestUnsupportedCapabilitiesReturnSentinel(t *testing.T) {
	c := &Client{}
	assert.ErrorIs(t, c.SubscribeL3OrderBook(nil), exchange.ErrUnsupportedCapability)
}

func TestSubscribeCandlestickUnsupportedInterval(t *testing.T) {
	c := &Client{}
	err := c.SubscribeCandlestick("BTCUSDT", 42)
	assert.Error(t, err)
}
