package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/crypto-feed/md-engine/internal/model"
)

// coinbase_pro carries a flat "type" field per message: "match" for
// trades, "snapshot"/"l2update" for the level2 channel. Grounded on
// original_source/crypto-msg-parser/src/exchanges/coinbase_pro.rs.

type coinbaseTrade struct {
	Type      string `json:"type"`
	TradeID   int64  `json:"trade_id"`
	Time      string `json:"time"`
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Price     string `json:"price"`
	Side      string `json:"side"`
}

type coinbaseSnapshot struct {
	Type      string      `json:"type"`
	ProductID string      `json:"product_id"`
	Asks      [][2]string `json:"asks"`
	Bids      [][2]string `json:"bids"`
}

type coinbaseUpdate struct {
	Type      string      `json:"type"`
	ProductID string      `json:"product_id"`
	Time      string      `json:"time"`
	Changes   [][3]string `json:"changes"`
}

func parseCoinbaseTrade(marketType model.MarketType, rawText string, _ *time.Time) ([]model.TradeMsg, error) {
	var r coinbaseTrade
	if err := json.Unmarshal([]byte(rawText), &r); err != nil {
		return nil, fmt.Errorf("parser: coinbase_pro trade: %w", err)
	}
	pair, mt, err := resolvePair("coinbase_pro", marketType, r.ProductID)
	if err != nil {
		return nil, err
	}
	ts, err := parseRFC3339Millis(r.Time)
	if err != nil {
		return nil, err
	}
	price, err := strconv.ParseFloat(r.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("parser: coinbase_pro trade price: %w", err)
	}
	size, err := strconv.ParseFloat(r.Size, 64)
	if err != nil {
		return nil, fmt.Errorf("parser: coinbase_pro trade size: %w", err)
	}
	msg := model.NewTradeMsg("coinbase_pro", mt, r.ProductID, pair, ts)
	msg.Price = price
	msg.QuantityBase = size
	msg.QuantityQuote = price * size
	msg.Side = model.Buy
	if r.Side == "sell" {
		msg.Side = model.Sell
	}
	msg.TradeID = strconv.FormatInt(r.TradeID, 10)
	msg.JSON = json.RawMessage(rawText)
	return []model.TradeMsg{msg}, nil
}

func coinbaseParseLevel(level [2]string) (model.Order, error) {
	price, err := strconv.ParseFloat(level[0], 64)
	if err != nil {
		return model.Order{}, err
	}
	base, err := strconv.ParseFloat(level[1], 64)
	if err != nil {
		return model.Order{}, err
	}
	return model.Order{Price: price, QuantityBase: base, QuantityQuote: price * base}, nil
}

func coinbaseParseChange(change [3]string) (model.Order, error) {
	price, err := strconv.ParseFloat(change[1], 64)
	if err != nil {
		return model.Order{}, err
	}
	base, err := strconv.ParseFloat(change[2], 64)
	if err != nil {
		return model.Order{}, err
	}
	return model.Order{Price: price, QuantityBase: base, QuantityQuote: price * base}, nil
}

// parseCoinbaseOrderBook: a level2 "snapshot" carries no timestamp of
// its own, so receivedAt is mandatory for it.
func parseCoinbaseOrderBook(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.OrderBookMsg, error) {
	var typeProbe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(rawText), &typeProbe); err != nil {
		return nil, fmt.Errorf("parser: coinbase_pro l2: %w", err)
	}

	if typeProbe.Type == "snapshot" {
		var r coinbaseSnapshot
		if err := json.Unmarshal([]byte(rawText), &r); err != nil {
			return nil, fmt.Errorf("parser: coinbase_pro snapshot: %w", err)
		}
		ts, err := requireTimestamp(receivedAt)
		if err != nil {
			return nil, err
		}
		pair, mt, err := resolvePair("coinbase_pro", marketType, r.ProductID)
		if err != nil {
			return nil, err
		}
		asks := make([]model.Order, 0, len(r.Asks))
		for _, lvl := range r.Asks {
			o, err := coinbaseParseLevel(lvl)
			if err != nil {
				continue
			}
			asks = append(asks, o)
		}
		bids := make([]model.Order, 0, len(r.Bids))
		for _, lvl := range r.Bids {
			o, err := coinbaseParseLevel(lvl)
			if err != nil {
				continue
			}
			bids = append(bids, o)
		}
		msg := model.NewOrderBookMsg("coinbase_pro", mt, r.ProductID, pair, ts, true)
		msg.Asks = asks
		msg.Bids = bids
		msg.JSON = json.RawMessage(rawText)
		return []model.OrderBookMsg{msg}, nil
	}

	var r coinbaseUpdate
	if err := json.Unmarshal([]byte(rawText), &r); err != nil {
		return nil, fmt.Errorf("parser: coinbase_pro l2update: %w", err)
	}
	ts, err := parseRFC3339Millis(r.Time)
	if err != nil {
		return nil, err
	}
	pair, mt, err := resolvePair("coinbase_pro", marketType, r.ProductID)
	if err != nil {
		return nil, err
	}
	var asks, bids []model.Order
	for _, chg := range r.Changes {
		o, err := coinbaseParseChange(chg)
		if err != nil {
			continue
		}
		if chg[0] == "sell" {
			asks = append(asks, o)
		} else {
			bids = append(bids, o)
		}
	}
	msg := model.NewOrderBookMsg("coinbase_pro", mt, r.ProductID, pair, ts, false)
	msg.Asks = asks
	msg.Bids = bids
	msg.JSON = json.RawMessage(rawText)
	return []model.OrderBookMsg{msg}, nil
}
