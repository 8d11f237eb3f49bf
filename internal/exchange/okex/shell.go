// Package okex is the L4 client shell for OKEx spot, futures, swap and
// option markets. Grounded on
// original_source/crypto-ws-client/src/clients/okex.rs: raw-channel
// grammar "{market_type}/{channel}:{pair}", "ping"/"pong" text
// keepalive, {"op":"subscribe","args":[...]} command envelope batched
// under a 64KiB frame cap.
package okex

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/crypto-feed/md-engine/internal/exchange"
	"github.com/crypto-feed/md-engine/internal/transport"
)

const (
	exchangeName = "okex"
	websocketURL = "wss://real.okex.com:8443/ws/v3"
	wsFrameSize  = 65536
)

var candlestickIntervals = map[int]bool{
	60: true, 180: true, 300: true, 900: true, 1800: true, 3600: true,
	7200: true, 14400: true, 21600: true, 43200: true, 86400: true, 604800: true,
}

// Client is the okex L4 shell.
type Client struct {
	ws *transport.Client
}

// New dials url (or the default okex endpoint if urlOverride is
// empty) and returns a ready-to-run Client.
func New(ctx context.Context, out chan<- []byte, urlOverride string) (*Client, error) {
	cfg := transport.Config{
		Exchange:           exchangeName,
		URL:                websocketURL,
		ChannelsToCommands: channelsToCommands,
		OnMiscMsg:          onMiscMsg,
		ClientPing:         &transport.PingConfig{Interval: 30 * time.Second, Payload: "ping"},
		Decompression:      transport.DecompressionDeflate,
		Reconnect:          true,
	}
	ws, err := transport.New(ctx, cfg, out, urlOverride)
	if err != nil {
		return nil, fmt.Errorf("okex: %w", err)
	}
	return &Client{ws: ws}, nil
}

func (c *Client) SubscribeTrade(symbols []string) error { return c.subscribe("trade", symbols) }
func (c *Client) SubscribeOrderBook(symbols []string) error {
	return c.subscribe("depth_l2_tbt", symbols)
}
func (c *Client) SubscribeOrderBookTopK(symbols []string) error {
	return c.subscribe("depth5", symbols)
}
func (c *Client) SubscribeL3OrderBook(symbols []string) error {
	return exchange.ErrUnsupportedCapability
}
func (c *Client) SubscribeBBO(symbols []string) error    { return c.subscribe("ticker", symbols) }
func (c *Client) SubscribeTicker(symbols []string) error { return c.subscribe("ticker", symbols) }

func (c *Client) SubscribeCandlestick(symbol string, intervalSeconds int) error {
	if !candlestickIntervals[intervalSeconds] {
		return fmt.Errorf("okex: unsupported candlestick interval %ds", intervalSeconds)
	}
	channel := fmt.Sprintf("candle%ds", intervalSeconds)
	return c.ws.Subscribe([]string{toRawChannel(channel, symbol)})
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

// pairToMarketType infers okex's channel segment from the symbol's
// dash count: one dash is spot, two is a dated future, a "-SWAP" suffix
// is a perpetual swap, and a "-C"/"-P" suffix is an option.
func pairToMarketType(pair string) string {
	switch {
	case strings.HasSuffix(pair, "-SWAP"):
		return "swap"
	case strings.HasSuffix(pair, "-C") || strings.HasSuffix(pair, "-P"):
		return "option"
	case strings.Count(pair, "-") == 2:
		return "futures"
	default:
		return "spot"
	}
}

func toRawChannel(channel, pair string) string {
	return fmt.Sprintf("%s/%s:%s", pairToMarketType(pair), channel, pair)
}

func topicCommand(channels []string, subscribe bool) string {
	op := "unsubscribe"
	if subscribe {
		op = "subscribe"
	}
	args, _ := json.Marshal(channels)
	return fmt.Sprintf(`{"op":%q,"args":%s}`, op, args)
}

// channelsToCommands batches channels into as few commands as possible
// while keeping each wire frame under wsFrameSize bytes, okex's 64KiB
// frame cap. Not a verbatim port of ensure_frame_size, which is not in
// the retrieved pack.
func channelsToCommands(channels []string, subscribe bool) []string {
	var commands []string
	var batch []string
	for _, ch := range channels {
		candidate := append(append([]string{}, batch...), ch)
		if len(topicCommand(candidate, subscribe)) > wsFrameSize && len(batch) > 0 {
			commands = append(commands, topicCommand(batch, subscribe))
			batch = []string{ch}
			continue
		}
		batch = candidate
	}
	if len(batch) > 0 {
		commands = append(commands, topicCommand(batch, subscribe))
	}
	return commands
}

func onMiscMsg(text string) transport.MiscMessage {
	if text == "pong" {
		return transport.MiscMessage{Kind: transport.KindPong}
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return transport.MiscMessage{Kind: transport.KindMisc}
	}
	if _, ok := obj["event"]; ok {
		return transport.MiscMessage{Kind: transport.KindMisc}
	}
	if _, hasTable := obj["table"]; !hasTable {
		return transport.MiscMessage{Kind: transport.KindMisc}
	}
	if _, hasData := obj["data"]; !hasData {
		return transport.MiscMessage{Kind: transport.KindMisc}
	}
	return transport.MiscMessage{Kind: transport.KindNormal}
}
