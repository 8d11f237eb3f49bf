// Package bitstamp is the L4 client shell for Bitstamp's spot-only
// market. Grounded on
// original_source/crypto-ws-client/src/clients/bitstamp.rs:
// "{channel}_{pair}" raw-channel grammar, bts:subscribe/unsubscribe
// command envelope, bts:heartbeat client ping, and
// bts:request_reconnect classified as a reconnect request; this shell
// runs with Reconnect: false, so the transport exits the process on it.
package bitstamp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crypto-feed/md-engine/internal/exchange"
	"github.com/crypto-feed/md-engine/internal/transport"
)

const (
	exchangeName = "bitstamp"
	websocketURL = "wss://ws.bitstamp.net"
)

// Client is the bitstamp L4 shell.
type Client struct {
	ws *transport.Client
}

func New(ctx context.Context, out chan<- []byte, urlOverride string) (*Client, error) {
	cfg := transport.Config{
		Exchange:           exchangeName,
		URL:                websocketURL,
		ChannelsToCommands: channelsToCommands,
		OnMiscMsg:          onMiscMsg,
		ClientPing:         &transport.PingConfig{Interval: 10 * time.Second, Payload: `{"event": "bts:heartbeat"}`},
		Reconnect:          false,
	}
	ws, err := transport.New(ctx, cfg, out, urlOverride)
	if err != nil {
		return nil, fmt.Errorf("bitstamp: %w", err)
	}
	return &Client{ws: ws}, nil
}

func (c *Client) SubscribeTrade(symbols []string) error {
	return c.subscribe("live_trades", symbols)
}
func (c *Client) SubscribeOrderBook(symbols []string) error {
	return c.subscribe("diff_order_book", symbols)
}
func (c *Client) SubscribeOrderBookTopK(symbols []string) error {
	return c.subscribe("order_book", symbols)
}
func (c *Client) SubscribeL3OrderBook(symbols []string) error {
	return c.subscribe("live_orders", symbols)
}
func (c *Client) SubscribeBBO(symbols []string) error { return exchange.ErrUnsupportedCapability }
func (c *Client) SubscribeTicker(symbols []string) error {
	return exchange.ErrUnsupportedCapability
}
func (c *Client) SubscribeCandlestick(symbol string, intervalSeconds int) error {
	return exchange.ErrUnsupportedCapability
}

func (c *Client) Subscribe(channels []string) error   { return c.ws.Subscribe(channels) }
func (c *Client) Unsubscribe(channels []string) error { return c.ws.Unsubscribe(channels) }
func (c *Client) Run(ctx context.Context, duration time.Duration) error {
	return c.ws.Run(ctx, duration)
}
func (c *Client) Close() error { return c.ws.Close() }

func (c *Client) subscribe(channel string, symbols []string) error {
	channels := make([]string, len(symbols))
	for i, s := range symbols {
		channels[i] = toRawChannel(channel, s)
	}
	return c.ws.Subscribe(channels)
}

func toRawChannel(channel, pair string) string {
	return channel + "_" + pair
}

func channelToCommand(channel string, subscribe bool) string {
	event := "unsubscribe"
	if subscribe {
		event = "subscribe"
	}
	return fmt.Sprintf(`{"event":"bts:%s","data":{"channel":"%s"}}`, event, channel)
}

func channelsToCommands(channels []string, subscribe bool) []string {
	commands := make([]string, len(channels))
	for i, ch := range channels {
		commands[i] = channelToCommand(ch, subscribe)
	}
	return commands
}

func onMiscMsg(text string) transport.MiscMessage {
	var obj struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return transport.MiscMessage{Kind: transport.KindMisc}
	}
	switch obj.Event {
	case "bts:subscription_succeeded", "bts:unsubscription_succeeded", "bts:heartbeat":
		return transport.MiscMessage{Kind: transport.KindMisc}
	case "bts:error":
		return transport.MiscMessage{Kind: transport.KindMisc}
	case "bts:request_reconnect":
		return transport.MiscMessage{Kind: transport.KindReconnect}
	default:
		return transport.MiscMessage{Kind: transport.KindNormal}
	}
}
