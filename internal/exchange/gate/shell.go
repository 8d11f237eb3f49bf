// Package gate is the L4 client shell for Gate's USD-margined
// (inverse) and USDT-margined (linear) futures markets. Grounded on
// original_source/crypto-ws-client/src/clients/gate/gate_future.rs for
// the channel names, separate inverse/linear WebSocket URLs, and the
// BBO/OrderBookTopK/L3 unsupported-capability set; the
// {"time","channel","event","payload"} command envelope is not in the
// retrieved pack and is authored from Gate's documented v4 futures
// WebSocket API.
package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crypto-feed/md-engine/internal/exchange"
	"github.com/crypto-feed/md-engine/internal/transport"
)

const (
	exchangeName = "gate"

	// InverseURL is the BTC-settled futures endpoint.
	InverseURL = "wss://fx-ws.gateio.ws/v4/ws/delivery/btc"
	// LinearURL is the USDT-settled futures endpoint.
	LinearURL = "wss://fx-ws.gateio.ws/v4/ws/delivery/usdt"
)

var candlestickIntervals = map[int]string{
	10: "10s", 60: "1m", 300: "5m", 900: "15m", 1800: "30m",
	3600: "1h", 14400: "4h", 86400: "1d", 604800: "7d",
}

// Client is one gate futures L4 shell, bound to either InverseURL or
// LinearURL at construction.
type Client struct {
	ws *transport.Client
}

// New dials url (InverseURL, LinearURL, or urlOverride) and returns a
// ready-to-run Client.
func New(ctx context.Context, out chan<- []byte, url string, urlOverride string) (*Client, error) {
	cfg := transport.Config{
		Exchange:           exchangeName,
		URL:                url,
		ChannelsToCommands: channelsToCommands,
		OnMiscMsg:          onMiscMsg,
		Reconnect:          true,
	}
	ws, err := transport.New(ctx, cfg, out, urlOverride)
	if err != nil {
		return nil, fmt.Errorf("gate: %w", err)
	}
	return &Client{ws: ws}, nil
}

// NewInverse is a convenience constructor bound to InverseURL.
func NewInverse(ctx context.Context, out chan<- []byte, urlOverride string) (*Client, error) {
	return New(ctx, out, InverseURL, urlOverride)
}

// NewLinear is a convenience constructor bound to LinearURL.
func NewLinear(ctx context.Context, out chan<- []byte, urlOverride string) (*Client, error) {
	return New(ctx, out, LinearURL, urlOverride)
}

func (c *Client) SubscribeTrade(symbols []string) error {
	return c.subscribe("futures.trades", symbols)
}
func (c *Client) SubscribeOrderBook(symbols []string) error {
	return c.subscribe("futures.order_book", symbols)
}
func (c *Client) SubscribeOrderBookTopK(symbols []string) error {
	return exchange.ErrUnsupportedCapability
}
func (c *Client) SubscribeL3OrderBook(symbols []string) error {
	return exchange.ErrUnsupportedCapability
}
func (c *Client) SubscribeBBO(symbols []string) error { return exchange.ErrUnsupportedCapability }
func (c *Client) SubscribeTicker(symbols []string) error {
	return c.subscribe("futures.tickers", symbols)
}

func (c *Client) SubscribeCandlestick(symbol string, intervalSeconds int) error {
	interval, ok := candlestickIntervals[intervalSeconds]
	if !ok {
		return fmt.Errorf("gate: unsupported candlestick interval %ds", intervalSeconds)
	}
	return c.ws.Subscribe([]string{fmt.Sprintf("futures.candlesticks:%s_%s", interval, symbol)})
}

func (c *Client) Subscribe(channels []string) error   { return c.ws.Subscribe(channels) }
func (c *Client) Unsubscribe(channels []string) error { return c.ws.Unsubscribe(channels) }
func (c *Client) Run(ctx context.Context, duration time.Duration) error {
	return c.ws.Run(ctx, duration)
}
func (c *Client) Close() error { return c.ws.Close() }

func (c *Client) subscribe(channel string, symbols []string) error {
	raw := make([]string, len(symbols))
	for i, s := range symbols {
		raw[i] = toRawChannel(channel, s)
	}
	return c.ws.Subscribe(raw)
}

// toRawChannel encodes both the gate channel name and its payload
// symbol into one string ("<channel>:<symbol>"); channelsToCommands
// splits it back apart to build the payload array.
func toRawChannel(channel, pair string) string {
	return channel + ":" + pair
}

type gateCommand struct {
	Time    int64    `json:"time"`
	Channel string   `json:"channel"`
	Event   string   `json:"event"`
	Payload []string `json:"payload"`
}

func channelsToCommands(channels []string, subscribe bool) []string {
	event := "unsubscribe"
	if subscribe {
		event = "subscribe"
	}
	byChannel := make(map[string][]string)
	var order []string
	for _, ch := range channels {
		name, symbol, ok := splitRawChannel(ch)
		if !ok {
			continue
		}
		if _, seen := byChannel[name]; !seen {
			order = append(order, name)
		}
		byChannel[name] = append(byChannel[name], symbol)
	}
	commands := make([]string, 0, len(order))
	for _, name := range order {
		cmd := gateCommand{Time: time.Now().Unix(), Channel: name, Event: event, Payload: byChannel[name]}
		b, err := json.Marshal(cmd)
		if err != nil {
			continue
		}
		commands = append(commands, string(b))
	}
	return commands
}

func splitRawChannel(raw string) (channel, symbol string, ok bool) {
	for i := len(raw) - 1; i >= 0; i-- {
		if raw[i] == ':' {
			return raw[:i], raw[i+1:], true
		}
	}
	return "", "", false
}

func onMiscMsg(text string) transport.MiscMessage {
	var obj struct {
		Event  string `json:"event"`
		Error  json.RawMessage `json:"error"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return transport.MiscMessage{Kind: transport.KindMisc}
	}
	if obj.Event == "subscribe" || obj.Event == "unsubscribe" {
		return transport.MiscMessage{Kind: transport.KindMisc}
	}
	if obj.Event == "update" || obj.Event == "all" {
		return transport.MiscMessage{Kind: transport.KindNormal}
	}
	return transport.MiscMessage{Kind: transport.KindMisc}
}
