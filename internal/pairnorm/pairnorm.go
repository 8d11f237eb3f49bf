// Package pairnorm implements per-exchange normalize_pair and
// symbol->market-type inference. Each exchange's symbol grammar gets
// its own small function, grounded on the exchange's wire format as
// observed in the original_source client/parser modules and in the
// per-exchange L4 shells.
package pairnorm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/crypto-feed/md-engine/internal/model"
)

// ErrUnknownSymbolShape is returned when a symbol does not match any
// known shape for its exchange.
var ErrUnknownSymbolShape = fmt.Errorf("pairnorm: symbol does not match any known shape")

// NormalizePair dispatches to the per-exchange normalize_pair. The
// result is idempotent where the input is already a valid "BASE/QUOTE"
// pair.
func NormalizePair(exchange, symbol string) (model.Pair, error) {
	if strings.Contains(symbol, "/") {
		parts := strings.SplitN(symbol, "/", 2)
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			return model.NewPair(parts[0], parts[1]), nil
		}
	}
	switch exchange {
	case "deribit":
		return normalizeDeribit(symbol)
	case "ftx":
		return normalizeFTX(symbol)
	case "bitmex":
		return normalizeBitmex(symbol)
	case "okex":
		return normalizeDashed(symbol, 2)
	case "coinbase_pro":
		return normalizeDashed(symbol, 2)
	case "gate":
		return normalizeUnderscore(symbol)
	case "kucoin":
		return normalizeKucoin(symbol)
	case "binance":
		return normalizeConcatenated(symbol, "_PERP")
	case "bitstamp":
		return normalizeConcatenated(symbol, "")
	case "bybit":
		return normalizeConcatenated(symbol, "")
	default:
		return "", fmt.Errorf("%w: exchange %q", ErrUnknownSymbolShape, exchange)
	}
}

// normalizeDeribit mirrors original_source/crypto-pair/src/exchanges/deribit.rs:
// "BTC-PERPETUAL" -> "BTC/USD"; "BTC-28JUN24" -> "BTC/USD" (inverse
// future, base before the first dash); "BTC-28JUN24-60000-C" ->
// "BTC/BTC" (option, quote currency is the settlement currency).
func normalizeDeribit(symbol string) (model.Pair, error) {
	if strings.HasSuffix(symbol, "-PERPETUAL") {
		base := strings.TrimSuffix(symbol, "-PERPETUAL")
		return model.NewPair(base, "USD"), nil
	}
	if strings.HasSuffix(symbol, "-P") || strings.HasSuffix(symbol, "-C") {
		pos := strings.Index(symbol, "-")
		if pos < 0 {
			return "", ErrUnknownSymbolShape
		}
		base := symbol[:pos]
		return model.NewPair(base, base), nil
	}
	if len(symbol) > 7 {
		if _, err := strconv.ParseInt(symbol[len(symbol)-2:], 10, 64); err == nil {
			pos := strings.Index(symbol, "-")
			if pos < 0 {
				return "", ErrUnknownSymbolShape
			}
			return model.NewPair(symbol[:pos], "USD"), nil
		}
	}
	return "", ErrUnknownSymbolShape
}

// normalizeFTX mirrors original_source/crypto-pair/src/exchanges/ftx.rs:
// "BTC-PERP" -> "BTC/USD"; "BTC-MOVE-0928" -> "BTC/USD"; symbols
// containing "/" pass through; otherwise the base before the last
// dash is a linear future against USD; a bare symbol is a prediction
// market against USD.
func normalizeFTX(symbol string) (model.Pair, error) {
	if strings.HasSuffix(symbol, "-PERP") {
		return model.NewPair(strings.TrimSuffix(symbol, "-PERP"), "USD"), nil
	}
	if strings.Contains(symbol, "-MOVE-") {
		return model.NewPair(strings.SplitN(symbol, "-", 2)[0], "USD"), nil
	}
	if pos := strings.LastIndex(symbol, "-"); pos >= 0 {
		return model.NewPair(symbol[:pos], "USD"), nil
	}
	return model.NewPair(symbol, "USD"), nil
}

// normalizeBitmex aliases the XBT base to BTC and infers quote from
// the symbol's suffix, matching bitmex's settlement conventions
// (USDT-quoted contracts carry the literal suffix; everything else,
// including inverse/quanto contracts, is quoted in USD).
func normalizeBitmex(symbol string) (model.Pair, error) {
	if symbol == "" {
		return "", ErrUnknownSymbolShape
	}
	base := symbol
	quote := "USD"
	switch {
	case strings.Contains(symbol, "USDT"):
		idx := strings.Index(symbol, "USDT")
		base, quote = symbol[:idx], "USDT"
	case strings.Contains(symbol, "USD"):
		idx := strings.Index(symbol, "USD")
		base, quote = symbol[:idx], "USD"
	default:
		// futures with no fiat leg in the symbol, e.g. "ADAZ21": strip
		// the one-letter month code + two-digit year.
		if len(symbol) > 3 {
			base = symbol[:len(symbol)-3]
		}
	}
	if base == "XBT" {
		base = "BTC"
	}
	if base == "" {
		return "", ErrUnknownSymbolShape
	}
	return model.NewPair(base, quote), nil
}

// normalizeDashed splits a "-"-delimited symbol and keeps the first
// minParts components as base/quote (okex "BTC-USDT-210625" ->
// "BTC/USDT"; coinbase_pro "BTC-USD" -> "BTC/USD").
func normalizeDashed(symbol string, minParts int) (model.Pair, error) {
	parts := strings.Split(symbol, "-")
	if len(parts) < minParts {
		return "", ErrUnknownSymbolShape
	}
	return model.NewPair(parts[0], parts[1]), nil
}

// normalizeUnderscore splits a "_"-delimited symbol (gate: "BTC_USDT").
func normalizeUnderscore(symbol string) (model.Pair, error) {
	parts := strings.SplitN(symbol, "_", 2)
	if len(parts) != 2 {
		return "", ErrUnknownSymbolShape
	}
	return model.NewPair(parts[0], parts[1]), nil
}

// normalizeKucoin handles both kucoin's dashed spot symbols
// ("BTC-USDT") and its concatenated contract symbols ("XBTUSDTM",
// "XBTUSDM"): contract symbols carry a trailing "M" and the base is
// aliased from XBT to BTC exactly as bitmex's is.
func normalizeKucoin(symbol string) (model.Pair, error) {
	if strings.Contains(symbol, "-") {
		return normalizeDashed(symbol, 2)
	}
	trimmed := strings.TrimSuffix(symbol, "M")
	pair, err := normalizeConcatenated(trimmed, "")
	if err != nil {
		return "", err
	}
	parts := strings.SplitN(string(pair), "/", 2)
	if parts[0] == "XBT" {
		return model.NewPair("BTC", parts[1]), nil
	}
	return pair, nil
}

// knownQuotes lists quote currencies tried longest-first when
// splitting a concatenated symbol such as binance's "BTCUSDT" or
// bybit's "BTCUSD".
var knownQuotes = []string{"USDT", "BUSD", "USDC", "TUSD", "USD", "BTC", "ETH", "BNB"}

// normalizeConcatenated splits a base+quote symbol with no separator
// by matching the longest known quote suffix (binance, bitstamp,
// bybit). perpSuffix, if non-empty and present, is stripped first and
// marks an inverse-settled contract quoted in USD (binance's
// "BTCUSD_PERP").
func normalizeConcatenated(symbol string, perpSuffix string) (model.Pair, error) {
	if perpSuffix != "" && strings.HasSuffix(symbol, perpSuffix) {
		base := strings.TrimSuffix(symbol, perpSuffix)
		for _, q := range knownQuotes {
			if strings.HasSuffix(base, q) {
				return model.NewPair(strings.TrimSuffix(base, q), q), nil
			}
		}
		return "", ErrUnknownSymbolShape
	}
	for _, q := range knownQuotes {
		if strings.HasSuffix(symbol, q) && len(symbol) > len(q) {
			return model.NewPair(strings.TrimSuffix(symbol, q), q), nil
		}
	}
	return "", ErrUnknownSymbolShape
}
