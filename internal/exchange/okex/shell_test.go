package okex

import (
	"strings"
	"testing"

	"github.com/crypto-feed/md-engine/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairToMarketType(t *testing.T) {
	assert.Equal(t, "spot", pairToMarketType("BTC-USDT"))
	assert.Equal(t, "futures", pairToMarketType("BTC-USDT-210625"))
	assert.Equal(t, "swap", pairToMarketType("BTC-USDT-SWAP"))
	assert.Equal(t, "option", pairToMarketType("BTC-USD-210625-60000-C"))
	assert.Equal(t, "option", pairToMarketType("BTC-USD-210625-60000-P"))
}

func TestToRawChannel(t *testing.T) {
	assert.Equal(t, "spot/trade:BTC-USDT", toRawChannel("trade", "BTC-USDT"))
	assert.Equal(t, "swap/ticker:BTC-USDT-SWAP", toRawChannel("ticker", "BTC-USDT-SWAP"))
}

func TestChannelsToCommandsSingleBatch(t *testing.T) {
	channels := []string{"spot/trade:BTC-USDT", "spot/trade:ETH-USDT"}
	commands := channelsToCommands(channels, true)
	require.Len(t, commands, 1)
	assert.Contains(t, commands[0], `"op":"subscribe"`)
	assert.Contains(t, commands[0], "BTC-USDT")
	assert.Contains(t, commands[0], "ETH-USDT")
}

func TestChannelsToCommandsSplitsOnFrameSize(t *testing.T) {
	// Build enough channels that a single command would exceed
	// wsFrameSize, forcing at least two commands out.
	var channels []string
	for i := 0; i < 3000; i++ {
		channels = append(channels, toRawChannel("trade", "BTC-USDT"))
	}
	commands := channelsToCommands(channels, true)
	require.Greater(t, len(commands), 1)
	for _, cmd := range commands {
		assert.LessOrEqual(t, len(cmd), wsFrameSize)
	}
}

func TestChannelsToCommandsUnsubscribe(t *testing.T) {
	commands := channelsToCommands([]string{"spot/trade:BTC-USDT"}, false)
	require.Len(t, commands, 1)
	assert.Contains(t, commands[0], `"op":"unsubscribe"`)
}

func TestOnMiscMsgClassification(t *testing.T) {
	assert.Equal(t, transport.KindPong, onMiscMsg("pong").Kind)
	assert.Equal(t, transport.KindMisc, onMiscMsg(`{"event":"subscribe"}`).Kind)
	assert.Equal(t, transport.KindMisc, onMiscMsg("not json").Kind)
	assert.Equal(t, transport.KindNormal, onMiscMsg(`{"table":"spot/trade","data":[{"price":1}]}`).Kind)
}

func TestCandlestickIntervalValidation(t *testing.T) {
	for interval := range candlestickIntervals {
		assert.True(t, candlestickIntervals[interval])
	}
	assert.False(t, candlestickIntervals[123])
}

func TestTopicCommandIsValidJSONShape(t *testing.T) {
	cmd := topicCommand([]string{"spot/trade:BTC-USDT"}, true)
	assert.True(t, strings.HasPrefix(cmd, `{"op":"subscribe","args":[`))
}
