package bitstamp

import (
	"testing"

	"github.com/crypto-feed/md-engine/internal/exchange"
	"github.com/crypto-feed/md-engine/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRawChannel(t *testing.T) {
	assert.Equal(t, "live_trades_btcusd", toRawChannel("live_trades", "btcusd"))
}

func TestChannelsToCommandsOneCommandPerChannel(t *testing.T) {
	commands := channelsToCommands([]string{"live_trades_btcusd", "diff_order_book_ethusd"}, true)
	require.Len(t, commands, 2)
	assert.Contains(t, commands[0], `"event":"bts:subscribe"`)
	assert.Contains(t, commands[0], `"channel":"live_trades_btcusd"`)
	assert.Contains(t, commands[1], `"channel":"diff_order_book_ethusd"`)
}

func TestChannelsToCommandsUnsubscribe(t *testing.T) {
	commands := channelsToCommands([]string{"live_trades_btcusd"}, false)
	require.Len(t, commands, 1)
	assert.Contains(t, commands[0], `"event":"bts:unsubscribe"`)
}

func TestOnMiscMsgClassification(t *testing.T) {
	assert.Equal(t, transport.KindMisc, onMiscMsg(`{"event":"bts:subscription_succeeded"}`).Kind)
	assert.Equal(t, transport.KindMisc, onMiscMsg(`{"event":"bts:heartbeat"}`).Kind)
	assert.Equal(t, transport.KindReconnect, onMiscMsg(`{"event":"bts:request_reconnect"}`).Kind)
	assert.Equal(t, transport.KindNormal, onMiscMsg(`{"event":"trade","data":{}}`).Kind)
	assert.Equal(t, transport.KindMisc, onMiscMsg("not json").Kind)
}

func TestUnsupportedCapabilitiesReturnSentinel(t *testing.T) {
	c := &Client{}
	assert.ErrorIs(t, c.SubscribeBBO(nil), exchange.ErrUnsupportedCapability)
	assert.ErrorIs(t, c.SubscribeTicker(nil), exchange.ErrUnsupportedCapability)
	assert.ErrorIs(t, c.SubscribeCandlestick("btcusd", 60), exchange.ErrUnsupportedCapability)
}
