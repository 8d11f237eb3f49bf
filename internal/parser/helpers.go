package parser

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/crypto-feed/md-engine/internal/pairnorm"
)

// resolvePair normalizes symbol for exchange and, if marketType is
// model.Unknown, infers it from the symbol shape.
func resolvePair(exchange string, marketType model.MarketType, symbol string) (model.Pair, model.MarketType, error) {
	pair, err := pairnorm.NormalizePair(exchange, symbol)
	if err != nil {
		return "", marketType, err
	}
	if marketType == model.Unknown {
		marketType = pairnorm.InferMarketType(exchange, symbol)
	}
	return pair, marketType, nil
}

// parseSide maps the many case/spelling variants exchanges use for
// trade direction onto model.Buy/model.Sell.
func parseSide(raw string) model.Side {
	switch strings.ToLower(raw) {
	case "buy", "bid", "1":
		return model.Buy
	default:
		return model.Sell
	}
}

// sideFromIsBuyerMaker mirrors binance's convention: the trade taker
// is the seller when the buyer is the resting (maker) side.
func sideFromIsBuyerMaker(isBuyerMaker bool) model.Side {
	if isBuyerMaker {
		return model.Sell
	}
	return model.Buy
}

// parseRFC3339Millis parses an RFC-3339 UTC timestamp to ms since
// epoch. RFC-3339 strings are always interpreted as UTC.
func parseRFC3339Millis(s string) (int64, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, fmt.Errorf("parser: invalid RFC-3339 timestamp %q: %w", s, err)
	}
	return t.UTC().UnixMilli(), nil
}

// nanosToMillis divides a nanosecond timestamp (kucoin's "ts") by 1e6.
func nanosToMillis(ns int64) int64 {
	return ns / 1_000_000
}

// requireTimestamp returns receivedAt as ms-since-epoch or
// ErrNoTimestamp if neither the message nor the caller supplied one.
func requireTimestamp(receivedAt *time.Time) (int64, error) {
	if receivedAt == nil {
		return 0, ErrNoTimestamp
	}
	return receivedAt.UTC().UnixMilli(), nil
}

// extractSymbolField returns a symbolExtractor that reads a top-level
// JSON string field, e.g. bitmex/coinbase_pro/binance envelopes.
func extractSymbolField(field string) symbolExtractor {
	return func(rawText string) (string, error) {
		var top map[string]json.RawMessage
		if err := json.Unmarshal([]byte(rawText), &top); err != nil {
			// bitmex/binance batch envelopes nest the symbol inside "data".
			var withData struct {
				Data json.RawMessage `json:"data"`
			}
			if err2 := json.Unmarshal([]byte(rawText), &withData); err2 != nil || withData.Data == nil {
				return "", fmt.Errorf("parser: cannot extract symbol: %w", err)
			}
			return extractSymbolField(field)(string(withData.Data))
		}
		raw, ok := top[field]
		if ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				return s, nil
			}
		}
		// bitmex/binance batch envelopes: {"table":...,"data":[{...}]}
		if data, ok := top["data"]; ok {
			var arr []map[string]json.RawMessage
			if err := json.Unmarshal(data, &arr); err == nil && len(arr) > 0 {
				if raw, ok := arr[0][field]; ok {
					var s string
					if err := json.Unmarshal(raw, &s); err == nil {
						return s, nil
					}
				}
			}
		}
		return "", fmt.Errorf("parser: field %q not found", field)
	}
}
