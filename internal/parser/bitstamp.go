package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/crypto-feed/md-engine/internal/model"
)

// bitstamp wraps every push as {"channel":"<channel>_<pair>","event":
// "trade"|"data","data":{...}}, a channel-name-encodes-symbol family.
// Not present in original_source; grounded on the envelope-detection
// convention used by the other exchange parsers plus bitstamp's
// documented live_trades/order_book channel fields.

type bitstampEnvelope struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data"`
}

type bitstampTrade struct {
	ID        int64   `json:"id"`
	Amount    float64 `json:"amount"`
	Price     float64 `json:"price"`
	Timestamp string  `json:"timestamp"`
	Type      int     `json:"type"` // 0 = buy, 1 = sell
}

type bitstampOrderBook struct {
	Timestamp string      `json:"timestamp"`
	Bids      [][2]string `json:"bids"`
	Asks      [][2]string `json:"asks"`
}

func parseBitstampTrade(marketType model.MarketType, rawText string, _ *time.Time) ([]model.TradeMsg, error) {
	var env bitstampEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: bitstamp trade envelope: %w", err)
	}
	symbol, err := extractBitstampSymbol(rawText)
	if err != nil {
		return nil, err
	}
	var r bitstampTrade
	if err := json.Unmarshal(env.Data, &r); err != nil {
		return nil, fmt.Errorf("parser: bitstamp trade data: %w", err)
	}
	pair, mt, err := resolvePair("bitstamp", marketType, symbol)
	if err != nil {
		return nil, err
	}
	secs, err := strconv.ParseInt(r.Timestamp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parser: bitstamp trade timestamp: %w", err)
	}
	msg := model.NewTradeMsg("bitstamp", mt, symbol, pair, secs*1000)
	msg.Price = r.Price
	msg.QuantityBase = r.Amount
	msg.QuantityQuote = r.Price * r.Amount
	msg.Side = model.Buy
	if r.Type == 1 {
		msg.Side = model.Sell
	}
	msg.TradeID = strconv.FormatInt(r.ID, 10)
	msg.JSON = json.RawMessage(rawText)
	return []model.TradeMsg{msg}, nil
}

func parseBitstampOrderBook(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.OrderBookMsg, error) {
	var env bitstampEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: bitstamp l2 envelope: %w", err)
	}
	symbol, err := extractBitstampSymbol(rawText)
	if err != nil {
		return nil, err
	}
	var r bitstampOrderBook
	if err := json.Unmarshal(env.Data, &r); err != nil {
		return nil, fmt.Errorf("parser: bitstamp l2 data: %w", err)
	}
	pair, mt, err := resolvePair("bitstamp", marketType, symbol)
	if err != nil {
		return nil, err
	}
	var ts int64
	if secs, err := strconv.ParseInt(r.Timestamp, 10, 64); err == nil {
		ts = secs * 1000
	} else {
		ts, err = requireTimestamp(receivedAt)
		if err != nil {
			return nil, err
		}
	}
	toOrders := func(levels [][2]string) []model.Order {
		orders := make([]model.Order, 0, len(levels))
		for _, lvl := range levels {
			price, err := strconv.ParseFloat(lvl[0], 64)
			if err != nil {
				continue
			}
			base, err := strconv.ParseFloat(lvl[1], 64)
			if err != nil {
				continue
			}
			orders = append(orders, model.Order{Price: price, QuantityBase: base, QuantityQuote: price * base})
		}
		return orders
	}
	msg := model.NewOrderBookMsg("bitstamp", mt, symbol, pair, ts, env.Event == "data")
	msg.Bids = toOrders(r.Bids)
	msg.Asks = toOrders(r.Asks)
	msg.JSON = json.RawMessage(rawText)
	return []model.OrderBookMsg{msg}, nil
}
