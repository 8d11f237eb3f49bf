package kucoin

import (
	"encoding/json"
	"testing"

	"github.com/crypto-feed/md-engine/internal/exchange"
	"github.com/crypto-feed/md-engine/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinSymbols(t *testing.T) {
	assert.Equal(t, "BTC-USDT", join([]string{"BTC-USDT"}))
	assert.Equal(t, "BTC-USDT,ETH-USDT", join([]string{"BTC-USDT", "ETH-USDT"}))
}

func TestChannelsToCommandsOnePerChannel(t *testing.T) {
	commands := channelsToCommands([]string{"/market/match:BTC-USDT", "/market/match:ETH-USDT"}, true)
	require.Len(t, commands, 2)
	var cmd kucoinCommand
	require.NoError(t, json.Unmarshal([]byte(commands[0]), &cmd))
	assert.Equal(t, "subscribe", cmd.Type)
	assert.Equal(t, "/market/match:BTC-USDT", cmd.Topic)
	assert.True(t, cmd.Response)
}

func TestOnMiscMsgClassification(t *testing.T) {
	assert.Equal(t, transport.KindPong, onMiscMsg(`{"type":"pong"}`).Kind)
	assert.Equal(t, transport.KindMisc, onMiscMsg(`{"type":"welcome"}`).Kind)
	assert.Equal(t, transport.KindNormal, onMiscMsg(`{"type":"message","topic":"/market/match:BTC-USDT"}`).Kind)
	assert.Equal(t, transport.KindMisc, onMiscMsg("not json").Kind)
}

func TestUnsupportedCapabilitiesReturnSentinel(t *testing.T) {
	c := &Client{}
	assert.ErrorIs(t, c.SubscribeL3OrderBook(nil), exchange.ErrUnsupportedCapability)
}

func TestSubscribeCandlestickUnsupportedInterval(t *testing.T) {
	c := &Client{}
	err := c.SubscribeCandlestick("BTC-USDT", 42)
	assert.Error(t, err)
}
