package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// newEchoServer upgrades every connection and records every text
// frame it receives onto received, for assertions on what Subscribe
// actually wrote to the wire.
func newEchoServer(t *testing.T, received chan<- string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- string(msg)
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func passthroughCommands(channels []string, subscribe bool) []string {
	return append([]string{}, channels...)
}

func noopMisc(text string) MiscMessage { return MiscMessage{Kind: KindNormal} }

func TestConfigValidateRequiresChannelsToCommands(t *testing.T) {
	err := Config{OnMiscMsg: noopMisc}.validate()
	assert.Error(t, err)
}

func TestConfigValidateRequiresOnMiscMsg(t *testing.T) {
	err := Config{ChannelsToCommands: passthroughCommands}.validate()
	assert.Error(t, err)
}

func TestConfigValidateRejectsBothPingModes(t *testing.T) {
	err := Config{
		ChannelsToCommands: passthroughCommands,
		OnMiscMsg:          noopMisc,
		ClientPing:         &PingConfig{Interval: time.Second, Payload: "ping"},
		ServerPingInterval: time.Second,
	}.validate()
	assert.Error(t, err)
}

func TestNewDialsAndSubscribeWritesDiffOnly(t *testing.T) {
	received := make(chan string, 10)
	server := newEchoServer(t, received)
	defer server.Close()

	cfg := Config{
		Exchange:           "test",
		URL:                wsURL(server),
		ChannelsToCommands: passthroughCommands,
		OnMiscMsg:          noopMisc,
	}
	client, err := New(context.Background(), cfg, make(chan []byte, 1), "")
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Subscribe([]string{"trade:BTC-USDT", "trade:ETH-USDT"}))
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case msg := <-received:
			seen[msg] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for subscribe commands")
		}
	}
	assert.True(t, seen["trade:BTC-USDT"])
	assert.True(t, seen["trade:ETH-USDT"])

	// Resubscribing to an already-tracked channel must not write
	// anything new to the wire; only the diff is sent.
	require.NoError(t, client.Subscribe([]string{"trade:BTC-USDT"}))
	select {
	case msg := <-received:
		t.Fatalf("unexpected duplicate subscribe command written: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnsubscribeOnlyWritesTrackedChannels(t *testing.T) {
	received := make(chan string, 10)
	server := newEchoServer(t, received)
	defer server.Close()

	cfg := Config{
		Exchange:           "test",
		URL:                wsURL(server),
		ChannelsToCommands: passthroughCommands,
		OnMiscMsg:          noopMisc,
	}
	client, err := New(context.Background(), cfg, make(chan []byte, 1), "")
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Subscribe([]string{"trade:BTC-USDT"}))
	<-received

	require.NoError(t, client.Unsubscribe([]string{"trade:BTC-USDT", "trade:NEVER-SUBSCRIBED"}))
	select {
	case msg := <-received:
		assert.Equal(t, "trade:BTC-USDT", msg)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for unsubscribe command")
	}
	select {
	case msg := <-received:
		t.Fatalf("unexpected unsubscribe command for untracked channel: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil, "ws://example.invalid")
	assert.Error(t, err)
}
