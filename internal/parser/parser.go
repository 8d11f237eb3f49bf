// Package parser implements the per-exchange L2 decoders: raw
// WebSocket text in, normalized records out. Every parser accepts the
// same (exchange, market_type, raw_text, received_at) shape and is
// grounded on the matching exchange module under
// original_source/crypto-msg-parser/src/exchanges/.
package parser

import (
	"fmt"
	"time"

	"github.com/crypto-feed/md-engine/internal/metrics"
	"github.com/crypto-feed/md-engine/internal/model"
)

// ErrUnsupportedExchange is returned when no parser is registered for
// the requested exchange.
var ErrUnsupportedExchange = fmt.Errorf("parser: unsupported exchange")

// ErrNoTimestamp is returned for envelopes that carry no timestamp of
// their own (coinbase_pro L2 snapshots) when the caller didn't supply
// receivedAt.
var ErrNoTimestamp = fmt.Errorf("parser: message has no timestamp and none was supplied")

type tradeParser func(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.TradeMsg, error)
type bookParser func(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.OrderBookMsg, error)
type fundingParser func(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.FundingRateMsg, error)
type symbolExtractor func(rawText string) (string, error)

var tradeParsers = map[string]tradeParser{
	"bitmex":       parseBitmexTrade,
	"okex":         parseOkexTrade,
	"coinbase_pro": parseCoinbaseTrade,
	"kucoin":       parseKucoinTrade,
	"binance":      parseBinanceTrade,
	"bitstamp":     parseBitstampTrade,
	"gate":         parseGateTrade,
	"bybit":        parseBybitTrade,
}

var bookParsers = map[string]bookParser{
	"bitmex":       parseBitmexOrderBook,
	"okex":         parseOkexOrderBook,
	"coinbase_pro": parseCoinbaseOrderBook,
	"kucoin":       parseKucoinOrderBook,
	"binance":      parseBinanceOrderBook,
	"bitstamp":     parseBitstampOrderBook,
	"gate":         parseGateOrderBook,
	"bybit":        parseBybitOrderBook,
}

var fundingParsers = map[string]fundingParser{
	"bitmex": parseBitmexFundingRate,
	"okex":   parseOkexFundingRate,
	"gate":   parseGateFundingRate,
	"bybit":  parseBybitFundingRate,
}

var symbolExtractors = map[string]symbolExtractor{
	"bitmex":       extractSymbolField("symbol"),
	"okex":         extractOkexSymbol,
	"coinbase_pro": extractSymbolField("product_id"),
	"kucoin":       extractKucoinSymbol,
	"binance":      extractSymbolField("s"),
	"bitstamp":     extractBitstampSymbol,
	"gate":         extractGateSymbol,
	"bybit":        extractBybitSymbol,
}

// ParseTrade decodes rawText into zero or more TradeMsg for exchange.
// receivedAt, if non-nil, is used for envelopes that carry no
// timestamp of their own.
func ParseTrade(exchange string, marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.TradeMsg, error) {
	fn, ok := tradeParsers[exchange]
	if !ok {
		metrics.RecordParseError(exchange, "trade")
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExchange, exchange)
	}
	out, err := fn(marketType, rawText, receivedAt)
	if err != nil {
		metrics.RecordParseError(exchange, "trade")
	}
	return out, err
}

// ParseOrderBook decodes rawText into zero or more OrderBookMsg
// (incremental or snapshot) for exchange.
func ParseOrderBook(exchange string, marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.OrderBookMsg, error) {
	fn, ok := bookParsers[exchange]
	if !ok {
		metrics.RecordParseError(exchange, "orderbook")
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExchange, exchange)
	}
	out, err := fn(marketType, rawText, receivedAt)
	if err != nil {
		metrics.RecordParseError(exchange, "orderbook")
	}
	return out, err
}

// ParseFundingRate decodes rawText into zero or more FundingRateMsg
// for exchange. Only perpetual-swap exchanges register one.
func ParseFundingRate(exchange string, marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.FundingRateMsg, error) {
	fn, ok := fundingParsers[exchange]
	if !ok {
		metrics.RecordParseError(exchange, "funding_rate")
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExchange, exchange)
	}
	out, err := fn(marketType, rawText, receivedAt)
	if err != nil {
		metrics.RecordParseError(exchange, "funding_rate")
	}
	return out, err
}

// ExtractSymbol pulls the raw exchange symbol out of rawText without
// fully decoding the message, so a caller can normalize the pair
// before deciding how to parse.
func ExtractSymbol(exchange string, rawText string) (string, error) {
	fn, ok := symbolExtractors[exchange]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedExchange, exchange)
	}
	return fn(rawText)
}
