package pairnorm

import (
	"strconv"
	"strings"

	"github.com/crypto-feed/md-engine/internal/model"
)

// InferMarketType classifies a raw symbol when the caller passed
// model.Unknown. Each exchange's shape is a direct string-pattern
// classifier, grounded on
// original_source/crypto-msg-parser/src/exchanges/bitmex.rs's
// get_market_type_from_symbol and
// original_source/crypto-ws-client/src/clients/okex.rs's
// pair_to_market_type.
func InferMarketType(exchange, symbol string) model.MarketType {
	switch exchange {
	case "bitmex":
		return inferBitmex(symbol)
	case "okex":
		return inferOkex(symbol)
	case "coinbase_pro":
		return model.Spot
	case "kucoin":
		return inferKucoin(symbol)
	case "binance":
		return inferBinance(symbol)
	case "bitstamp":
		return model.Spot
	case "gate":
		return inferGate(symbol)
	case "bybit":
		return model.InverseSwap
	default:
		return model.Unknown
	}
}

// inferBitmex: final two chars numeric => future (XBT-settled =>
// inverse, *USD-with-no-leading-XBT* => quanto, otherwise linear);
// non-future starting with XBT => inverse swap, else quanto swap.
func inferBitmex(symbol string) model.MarketType {
	if len(symbol) < 2 {
		return model.Unknown
	}
	date := symbol[len(symbol)-2:]
	if _, err := strconv.ParseInt(date, 10, 64); err == nil {
		switch {
		case strings.HasPrefix(symbol, "XBT"):
			return model.InverseFuture
		case strings.HasSuffix(symbol[:len(symbol)-3], "USD"):
			return model.QuantoFuture
		default:
			return model.LinearFuture
		}
	}
	if strings.HasPrefix(symbol, "XBT") {
		return model.InverseSwap
	}
	return model.QuantoSwap
}

// inferOkex counts "-" separators: 1 => spot, 2 with trailing 6-digit
// date => future, trailing "-SWAP" => swap, trailing "-C"/"-P" =>
// option.
func inferOkex(symbol string) model.MarketType {
	if strings.HasSuffix(symbol, "-SWAP") {
		return model.InverseSwap
	}
	if strings.HasSuffix(symbol, "-C") || strings.HasSuffix(symbol, "-P") {
		return model.EuropeanOption
	}
	n := strings.Count(symbol, "-")
	switch n {
	case 1:
		return model.Spot
	case 2:
		date := symbol[len(symbol)-6:]
		if _, err := strconv.ParseInt(date, 10, 64); err == nil {
			return model.LinearFuture
		}
		return model.Unknown
	default:
		return model.Unknown
	}
}

func inferKucoin(symbol string) model.MarketType {
	if strings.Contains(symbol, "-") {
		return model.Spot
	}
	if strings.HasSuffix(symbol, "USDTM") {
		return model.LinearSwap
	}
	if strings.HasSuffix(symbol, "M") {
		return model.InverseSwap
	}
	return model.Unknown
}

func inferBinance(symbol string) model.MarketType {
	if strings.HasSuffix(symbol, "_PERP") {
		return model.InverseSwap
	}
	if strings.HasSuffix(symbol, "USDT") || strings.HasSuffix(symbol, "BUSD") {
		return model.LinearSwap
	}
	return model.Spot
}

func inferGate(symbol string) model.MarketType {
	if strings.HasSuffix(symbol, "_USDT") {
		return model.LinearSwap
	}
	if strings.HasSuffix(symbol, "_USD") {
		return model.InverseSwap
	}
	return model.Spot
}
