package transport

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(cfg Config) *Client {
	return &Client{cfg: cfg, out: make(chan []byte, 4), channels: make(map[string]struct{})}
}

func TestHandleMsgNormalForwardsToOutChannel(t *testing.T) {
	c := newTestClient(Config{OnMiscMsg: func(string) MiscMessage { return MiscMessage{Kind: KindNormal} }})
	out := make(chan []byte, 1)
	c.out = out

	forwarded := c.handleMsg(context.Background(), `{"x":1}`)
	assert.True(t, forwarded)
	assert.Equal(t, `{"x":1}`, string(<-out))
}

func TestHandleMsgMiscDoesNotForward(t *testing.T) {
	c := newTestClient(Config{OnMiscMsg: func(string) MiscMessage { return MiscMessage{Kind: KindMisc} }})
	forwarded := c.handleMsg(context.Background(), "ignored")
	assert.False(t, forwarded)
	assert.Empty(t, c.out)
}

func TestHandleMsgPongResetsUnansweredCount(t *testing.T) {
	c := newTestClient(Config{OnMiscMsg: func(string) MiscMessage { return MiscMessage{Kind: KindPong} }})
	c.numUnansweredPing.Store(3)
	forwarded := c.handleMsg(context.Background(), "pong")
	assert.False(t, forwarded)
	assert.Equal(t, int32(0), c.numUnansweredPing.Load())
}

func TestFailOrReconnectFailsFastWhenDisabled(t *testing.T) {
	called := false
	origExit := fatalExit
	fatalExit = func() { called = true }
	defer func() { fatalExit = origExit }()

	c := newTestClient(Config{Reconnect: false})
	err := c.failOrReconnect(context.Background())
	assert.Error(t, err)
	assert.True(t, called)
}

func TestDecompressGzip(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(`{"hello":"world"}`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	c := newTestClient(Config{Decompression: DecompressionGzip})
	text, err := c.decompress(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, `{"hello":"world"}`, text)
}

func TestDecompressNoneConfiguredErrors(t *testing.T) {
	c := newTestClient(Config{})
	_, err := c.decompress([]byte("anything"))
	assert.Error(t, err)
}

func TestReadTimeoutUsesHalfServerPingIntervalWhenConfigured(t *testing.T) {
	c := newTestClient(Config{ServerPingInterval: 180 * time.Second})
	assert.Equal(t, 90*time.Second, c.readTimeout())
}

func TestReadTimeoutFallsBackToDefaultInClientPingMode(t *testing.T) {
	c := newTestClient(Config{ClientPing: &PingConfig{Interval: 20 * time.Second}})
	assert.Equal(t, defaultReadTimeout, c.readTimeout())
}
