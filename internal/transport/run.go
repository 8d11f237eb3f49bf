package transport

import (
	"context"
	"errors"
	"net"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/crypto-feed/md-engine/internal/metrics"
)

// fatalExit mirrors the original's fail-fast convention: sleep 5s
// then exit the process so the operator's supervisor restarts it.
// Tests override this to avoid killing the test binary.
var fatalExit = func() {
	time.Sleep(5 * time.Second)
	os.Exit(1)
}

// defaultReadTimeout bounds the read deadline for client-ping mode,
// where liveness is already governed by ClientPing.Interval and the
// unanswered-ping counter.
const defaultReadTimeout = 30 * time.Second

// readTimeout returns the read deadline for the current ping mode.
// Server-ping mode has no client-initiated keepalive to bound
// liveness, so the deadline is derived from the server's own ping
// cadence: half the interval, so a single missed server ping is
// caught before the next one is due.
func (c *Client) readTimeout() time.Duration {
	if c.cfg.ServerPingInterval > 0 {
		return c.cfg.ServerPingInterval / 2
	}
	return defaultReadTimeout
}

// Run drives the engine's single read loop until ctx is cancelled,
// Close is called, or duration elapses after a normal message is
// processed. duration <= 0 means run indefinitely.
func (c *Client) Run(ctx context.Context, duration time.Duration) error {
	start := time.Now()
	lastPing := time.Now()
	numReadTimeout := 0

	for !c.shouldStop.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		c.connMu.Lock()
		_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout()))
		msgType, data, err := c.conn.ReadMessage()
		c.connMu.Unlock()

		succeeded := false
		if err != nil {
			if c.shouldStop.Load() {
				return nil
			}
			var netErr net.Error
			switch {
			case errors.As(err, &netErr) && netErr.Timeout():
				numReadTimeout++
				log.Debug().Int("num_read_timeout", numReadTimeout).Msg("transport: read timeout")
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				log.Warn().Str("exchange", c.cfg.Exchange).Msg("transport: server closed connection normally")
			default:
				log.Error().Err(err).Str("exchange", c.cfg.Exchange).Msg("transport: read failed")
				if recErr := c.failOrReconnect(ctx); recErr != nil {
					return recErr
				}
				continue
			}
		} else {
			switch msgType {
			case websocket.TextMessage:
				metrics.FramesReceived.WithLabelValues(c.cfg.Exchange, "text").Inc()
				numReadTimeout = 0
				succeeded = c.handleMsg(ctx, string(data))
			case websocket.BinaryMessage:
				metrics.FramesReceived.WithLabelValues(c.cfg.Exchange, "binary").Inc()
				numReadTimeout = 0
				text, decErr := c.decompress(data)
				if decErr != nil {
					log.Error().Err(decErr).Str("exchange", c.cfg.Exchange).Msg("transport: decompression failed, exiting")
					fatalExit()
					return decErr
				} else {
					succeeded = c.handleMsg(ctx, text)
				}
			case websocket.PingMessage:
				metrics.FramesReceived.WithLabelValues(c.cfg.Exchange, "ping").Inc()
				c.connMu.Lock()
				werr := c.conn.WriteMessage(websocket.PongMessage, data)
				c.connMu.Unlock()
				if werr != nil {
					log.Error().Err(werr).Msg("transport: failed to reply to ping")
				}
			case websocket.PongMessage:
				metrics.FramesReceived.WithLabelValues(c.cfg.Exchange, "pong").Inc()
				c.numUnansweredPing.Store(0)
			}
		}

		if c.cfg.ClientPing != nil {
			if n := c.numUnansweredPing.Load(); n > 5 {
				log.Error().Int32("num_unanswered_ping", n).Str("exchange", c.cfg.Exchange).Msg("transport: too many unanswered pings")
				if recErr := c.failOrReconnect(ctx); recErr != nil {
					return recErr
				}
				c.numUnansweredPing.Store(0)
			}
			if time.Since(lastPing) >= c.cfg.ClientPing.Interval/2 {
				if err := c.sendPing(); err != nil {
					log.Error().Err(err).Msg("transport: failed to send ping")
				}
				c.numUnansweredPing.Add(1)
				lastPing = time.Now()
			}
		} else if numReadTimeout > 5 {
			log.Error().Int("num_read_timeout", numReadTimeout).Str("exchange", c.cfg.Exchange).Msg("transport: too many read timeouts")
			if recErr := c.failOrReconnect(ctx); recErr != nil {
				return recErr
			}
			numReadTimeout = 0
		}

		if duration > 0 && time.Since(start) > duration && succeeded {
			return nil
		}
	}
	return nil
}

func (c *Client) sendPing() error {
	msg := websocket.PingMessage
	payload := []byte(nil)
	if c.cfg.ClientPing.Payload != "" {
		msg = websocket.TextMessage
		payload = []byte(c.cfg.ClientPing.Payload)
	}
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.conn.WriteMessage(msg, payload)
}

// failOrReconnect replays the channel set on a fresh socket when the
// client is configured to reconnect (bitmex, okex, gate); otherwise it
// fails fast like the rest of the fleet.
func (c *Client) failOrReconnect(ctx context.Context) error {
	if !c.cfg.Reconnect {
		fatalExit()
		return errors.New("transport: fatal error, process exiting")
	}
	if err := c.reconnect(ctx); err != nil {
		log.Error().Err(err).Str("exchange", c.cfg.Exchange).Msg("transport: reconnect failed, exiting")
		fatalExit()
		return err
	}
	return nil
}

// handleMsg classifies a decoded frame via cfg.OnMiscMsg and returns
// true only for MiscKind == Normal, matching the original's
// handle_msg return convention used to gate the duration cutoff.
func (c *Client) handleMsg(ctx context.Context, text string) bool {
	result := c.cfg.OnMiscMsg(text)
	switch result.Kind {
	case KindMisc:
		return false
	case KindPong:
		c.numUnansweredPing.Store(0)
		return false
	case KindReconnect:
		_ = c.failOrReconnect(ctx)
		return false
	case KindWebSocket:
		c.connMu.Lock()
		err := c.conn.WriteMessage(websocket.TextMessage, []byte(result.WireFrame))
		c.connMu.Unlock()
		if err != nil {
			log.Error().Err(err).Msg("transport: failed to send reply frame")
		}
		return false
	default: // KindNormal
		select {
		case c.out <- []byte(text):
		default:
			log.Warn().Str("exchange", c.cfg.Exchange).Msg("transport: output channel full, dropping message")
		}
		return true
	}
}
