// Package transport implements the single-socket-per-client WebSocket
// engine: Run's goroutine reads the connection; other goroutines may
// mutate the subscribed-channel set and write commands directly to the
// socket under the connection mutex. Grounded on
// original_source/crypto-ws-client/src/clients/ws_client_internal.rs,
// translated from Rust's Mutex<T>+AtomicBool/AtomicIsize pair into Go
// sync.Mutex/atomic types.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"

	"github.com/crypto-feed/md-engine/internal/metrics"
)

// MiscKind classifies a raw text/binary frame once decompressed.
type MiscKind int

const (
	KindNormal MiscKind = iota
	KindMisc
	KindPong
	KindReconnect
	KindWebSocket
)

// MiscMessage is the result of classifying one decoded frame.
type MiscMessage struct {
	Kind MiscKind
	// WireFrame is the payload to write back to the server; only
	// meaningful when Kind == KindWebSocket.
	WireFrame string
}

// DecompressionMode selects the binary-frame codec a client needs:
// gzip for huobi/binance/bitget/bitz, deflate for okex.
type DecompressionMode int

const (
	DecompressionNone DecompressionMode = iota
	DecompressionGzip
	DecompressionDeflate
)

// PingConfig is the client-initiated keepalive: send Payload every
// Interval. Mutually exclusive with Config.ServerPingInterval.
type PingConfig struct {
	Interval time.Duration
	Payload  string
}

// Config describes one (exchange, market) client instance.
type Config struct {
	Exchange string
	URL      string

	// ChannelsToCommands batches a diff of channel names into wire
	// commands honoring the exchange's frame-size / command-rate
	// limits.
	ChannelsToCommands func(channels []string, subscribe bool) []string

	// OnMiscMsg classifies one decoded frame.
	OnMiscMsg func(text string) MiscMessage

	// Exactly one of ClientPing / ServerPingInterval may be set.
	ClientPing         *PingConfig
	ServerPingInterval time.Duration

	Decompression DecompressionMode

	// SendIntervalMs enforces the exchange's outbound rate limit
	// (binance and kucoin: 100ms between subscribe commands).
	SendIntervalMs int

	// Reconnect, when true, makes a lost connection or a
	// KindReconnect classification replay the channel set on a fresh
	// socket instead of exiting the process (bitmex, okex, and gate
	// default to this; other shells fail fast).
	Reconnect bool
}

func (c Config) validate() error {
	if c.ChannelsToCommands == nil {
		return fmt.Errorf("transport: Config.ChannelsToCommands is required")
	}
	if c.OnMiscMsg == nil {
		return fmt.Errorf("transport: Config.OnMiscMsg is required")
	}
	if c.ClientPing != nil && c.ServerPingInterval != 0 {
		return fmt.Errorf("transport: only one of ClientPing and ServerPingInterval may be set")
	}
	return nil
}

// Client is a single engine instance: one socket, one channel set,
// one outbound record sink.
type Client struct {
	cfg Config
	out chan<- []byte

	connMu sync.Mutex
	conn   *websocket.Conn

	chanMu   sync.Mutex
	channels map[string]struct{}

	shouldStop        atomic.Bool
	numUnansweredPing atomic.Int32
}

// New dials url (or cfg.URL if urlOverride is empty) and returns a
// ready-to-run Client. Mirrors the exchange-shell constructors'
// `new(sender, optional_url_override)` signature.
func New(ctx context.Context, cfg Config, out chan<- []byte, urlOverride string) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if urlOverride != "" {
		cfg.URL = urlOverride
	}
	conn, err := connectWithRetry(ctx, cfg.Exchange, cfg.URL)
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg:      cfg,
		out:      out,
		conn:     conn,
		channels: make(map[string]struct{}),
	}, nil
}

func connectWithRetry(ctx context.Context, exchange, rawURL string) (*websocket.Conn, error) {
	if _, err := url.Parse(rawURL); err != nil {
		metrics.RecordConnectionError(exchange, "dial")
		return nil, fmt.Errorf("transport: invalid url %q: %w", rawURL, err)
	}
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	backoff := time.Second
	const maxAttempts = 5
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		conn, _, err := dialer.DialContext(ctx, rawURL, nil)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		metrics.RecordConnectionError(exchange, "dial")
		log.Warn().Err(err).Str("url", rawURL).Int("attempt", attempt).Msg("transport: dial failed, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("transport: failed to connect to %s after %d attempts: %w", rawURL, maxAttempts, lastErr)
}

// Subscribe adds channels to the subscription set and writes the
// resulting wire commands.
func (c *Client) Subscribe(channels []string) error {
	return c.subscribeOrUnsubscribe(channels, true)
}

// Unsubscribe removes channels from the subscription set.
func (c *Client) Unsubscribe(channels []string) error {
	return c.subscribeOrUnsubscribe(channels, false)
}

func (c *Client) subscribeOrUnsubscribe(channels []string, subscribe bool) error {
	diff := make([]string, 0, len(channels))
	c.chanMu.Lock()
	for _, ch := range channels {
		if subscribe {
			if _, exists := c.channels[ch]; !exists {
				c.channels[ch] = struct{}{}
				diff = append(diff, ch)
			}
		} else {
			if _, exists := c.channels[ch]; exists {
				delete(c.channels, ch)
				diff = append(diff, ch)
			}
		}
	}
	c.chanMu.Unlock()

	if len(diff) == 0 {
		return nil
	}
	commands := c.cfg.ChannelsToCommands(diff, subscribe)
	return c.writeCommands(commands)
}

// writeCommands sends each command as a text frame, sleeping the
// exchange's inter-send delay between writes. A write failure is
// fatal: the operator's process supervisor restarts the engine.
func (c *Client) writeCommands(commands []string) error {
	for _, cmd := range commands {
		c.connMu.Lock()
		err := c.conn.WriteMessage(websocket.TextMessage, []byte(cmd))
		c.connMu.Unlock()
		if err != nil {
			log.Error().Err(err).Str("exchange", c.cfg.Exchange).Msg("transport: failed to send command, exiting")
			fatalExit()
			return fmt.Errorf("transport: write command: %w", err)
		}
		if c.cfg.SendIntervalMs > 0 {
			time.Sleep(time.Duration(c.cfg.SendIntervalMs) * time.Millisecond)
		}
	}
	return nil
}

// reconnect re-dials and re-subscribes every currently tracked
// channel.
func (c *Client) reconnect(ctx context.Context) error {
	log.Warn().Str("exchange", c.cfg.Exchange).Str("url", c.cfg.URL).Msg("transport: reconnecting")
	metrics.RecordReconnect(c.cfg.Exchange)
	metrics.RecordConnectionStatus(c.cfg.Exchange, false)
	conn, err := connectWithRetry(ctx, c.cfg.Exchange, c.cfg.URL)
	if err != nil {
		return err
	}
	metrics.RecordConnectionStatus(c.cfg.Exchange, true)
	c.connMu.Lock()
	old := c.conn
	c.conn = conn
	c.connMu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	c.chanMu.Lock()
	channels := make([]string, 0, len(c.channels))
	for ch := range c.channels {
		channels = append(channels, ch)
	}
	c.chanMu.Unlock()
	if len(channels) == 0 {
		return nil
	}
	return c.writeCommands(c.cfg.ChannelsToCommands(channels, true))
}

// decompress applies the client's configured binary-frame codec.
func (c *Client) decompress(binary []byte) (string, error) {
	switch c.cfg.Decompression {
	case DecompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(binary))
		if err != nil {
			return "", err
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		return string(out), err
	case DecompressionDeflate:
		r := flate.NewReader(bytes.NewReader(binary))
		defer r.Close()
		out, err := io.ReadAll(r)
		return string(out), err
	default:
		return "", fmt.Errorf("transport: received binary frame with no decompression configured for %s", c.cfg.Exchange)
	}
}

// Close stops Run's loop and closes the socket. Idempotent.
func (c *Client) Close() error {
	if !c.shouldStop.CompareAndSwap(false, true) {
		return nil
	}
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.conn.Close()
}
