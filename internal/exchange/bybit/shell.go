// Package bybit is the L4 client shell for Bybit's inverse-swap
// market. Grounded on
// original_source/crypto-ws-client/src/clients/bybit/bybit_inverse_swap.rs
// for the channel names, candlestick interval mapping, and
// unsupported-BBO capability; the {"op":"subscribe","args":[...]}
// command envelope and {"op":"ping"} keepalive are not in the
// retrieved pack (bybit/utils.rs was not included) and are authored
// from Bybit's documented v1 inverse-perpetual WebSocket API.
package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crypto-feed/md-engine/internal/exchange"
	"github.com/crypto-feed/md-engine/internal/transport"
)

const (
	exchangeName = "bybit"
	websocketURL = "wss://stream.bybit.com/realtime"
)

var candlestickIntervals = map[int]string{
	60: "1", 180: "3", 300: "5", 900: "15", 1800: "30",
	3600: "60", 7200: "120", 14400: "240", 21600: "360",
	86400: "D", 604800: "W", 2592000: "M",
}

// Client is the bybit inverse-swap L4 shell.
type Client struct {
	ws *transport.Client
}

func New(ctx context.Context, out chan<- []byte, urlOverride string) (*Client, error) {
	cfg := transport.Config{
		Exchange:           exchangeName,
		URL:                websocketURL,
		ChannelsToCommands: channelsToCommands,
		OnMiscMsg:          onMiscMsg,
		ClientPing:         &transport.PingConfig{Interval: 30 * time.Second, Payload: `{"op":"ping"}`},
		Reconnect:          false,
	}
	ws, err := transport.New(ctx, cfg, out, urlOverride)
	if err != nil {
		return nil, fmt.Errorf("bybit: %w", err)
	}
	return &Client{ws: ws}, nil
}

func (c *Client) SubscribeTrade(symbols []string) error { return c.subscribe("trade", symbols) }
func (c *Client) SubscribeOrderBook(symbols []string) error {
	return c.subscribe("orderBookL2_25", symbols)
}
func (c *Client) SubscribeOrderBookTopK(symbols []string) error {
	return c.subscribe("orderBookL2_25", symbols)
}
func (c *Client) SubscribeL3OrderBook(symbols []string) error {
	return exchange.ErrUnsupportedCapability
}
func (c *Client) SubscribeBBO(symbols []string) error { return exchange.ErrUnsupportedCapability }
func (c *Client) SubscribeTicker(symbols []string) error {
	return c.subscribe("instrument_info.100ms", symbols)
}

func (c *Client) SubscribeCandlestick(symbol string, intervalSeconds int) error {
	interval, ok := candlestickIntervals[intervalSeconds]
	if !ok {
		return fmt.Errorf("bybit: unsupported candlestick interval %ds", intervalSeconds)
	}
	return c.ws.Subscribe([]string{fmt.Sprintf("klineV2.%s.%s", interval, symbol)})
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

func toRawChannel(channel, symbol string) string {
	return channel + "." + symbol
}

type bybitCommand struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

func channelsToCommands(channels []string, subscribe bool) []string {
	op := "unsubscribe"
	if subscribe {
		op = "subscribe"
	}
	b, err := json.Marshal(bybitCommand{Op: op, Args: channels})
	if err != nil {
		return nil
	}
	return []string{string(b)}
}

func onMiscMsg(text string) transport.MiscMessage {
	var obj struct {
		Op      string `json:"op"`
		Success *bool  `json:"success"`
		Topic   string `json:"topic"`
	}
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return transport.MiscMessage{Kind: transport.KindMisc}
	}
	switch obj.Op {
	case "pong":
		return transport.MiscMessage{Kind: transport.KindPong}
	case "subscribe", "unsubscribe":
		return transport.MiscMessage{Kind: transport.KindMisc}
	}
	if obj.Topic != "" {
		return transport.MiscMessage{Kind: transport.KindNormal}
	}
	return transport.MiscMessage{Kind: transport.KindMisc}
}
