// Package exchange defines the fixed per-(exchange, market) capability
// set every L4 client shell implements, so a caller can hold any shell
// behind one interface regardless of which channels the underlying
// exchange actually offers.
package exchange

import (
	"context"
	"fmt"
	"time"
)

// ErrUnsupportedCapability is returned by a Subscribe* method the
// target exchange does not offer, e.g. Bitstamp's ticker channel or
// Gate's BBO channel. Never a panic.
var ErrUnsupportedCapability = fmt.Errorf("exchange: capability not supported by this shell")

// Client is the capability set every per-exchange shell implements.
// Subscribe*/Subscribe/Unsubscribe take exchange-native symbols; the
// shell formats them into the exchange's raw channel grammar.
type Client interface {
	SubscribeTrade(symbols []string) error
	SubscribeOrderBook(symbols []string) error
	SubscribeOrderBookTopK(symbols []string) error
	SubscribeL3OrderBook(symbols []string) error
	SubscribeBBO(symbols []string) error
	SubscribeTicker(symbols []string) error
	SubscribeCandlestick(symbol string, intervalSeconds int) error

	Subscribe(channels []string) error
	Unsubscribe(channels []string) error

	Run(ctx context.Context, duration time.Duration) error
	Close() error
}
