package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/crypto-feed/md-engine/internal/quantity"
)

// kucoin wraps every push in {"topic","subject","data"}.
// The contract (futures) shapes are grounded verbatim on
// original_source/crypto-msg-parser/src/exchanges/kucoin/kucoin_swap.rs;
// the spot shapes follow the same topic/subject/data envelope with
// kucoin's documented spot match/level2 field names.

type kucoinEnvelope struct {
	Topic   string          `json:"topic"`
	Subject string          `json:"subject"`
	Data    json.RawMessage `json:"data"`
}

type kucoinContractTrade struct {
	Symbol   string  `json:"symbol"`
	Sequence int64   `json:"sequence"`
	Side     string  `json:"side"`
	Size     float64 `json:"size"`
	Price    float64 `json:"price"`
	TS       int64   `json:"ts"`
}

type kucoinSpotTrade struct {
	Symbol    string `json:"symbol"`
	Side      string `json:"side"`
	Size      string `json:"size"`
	Price     string `json:"price"`
	Time      string `json:"time"`
	TradeID   string `json:"tradeId"`
	Sequence  string `json:"sequence"`
}

type kucoinContractOrderbook struct {
	Sequence  int64  `json:"sequence"`
	Change    string `json:"change"`
	Timestamp int64  `json:"timestamp"`
}

func kucoinSymbolFromTopic(topic, prefix string) (string, bool) {
	if !strings.HasPrefix(topic, prefix) {
		return "", false
	}
	return strings.TrimPrefix(topic, prefix), true
}

func parseKucoinTrade(marketType model.MarketType, rawText string, _ *time.Time) ([]model.TradeMsg, error) {
	var env kucoinEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: kucoin trade envelope: %w", err)
	}

	if symbol, ok := kucoinSymbolFromTopic(env.Topic, "/contractMarket/execution:"); ok {
		var r kucoinContractTrade
		if err := json.Unmarshal(env.Data, &r); err != nil {
			return nil, fmt.Errorf("parser: kucoin contract trade data: %w", err)
		}
		pair, mt, err := resolvePair("kucoin", marketType, symbol)
		if err != nil {
			return nil, err
		}
		base, quote, contract := quantity.Calc("kucoin", mt, pair, r.Price, r.Size)
		msg := model.NewTradeMsg("kucoin", mt, symbol, pair, nanosToMillis(r.TS))
		msg.Price = r.Price
		msg.QuantityBase = base
		msg.QuantityQuote = quote
		msg.QuantityContract = contract
		msg.Side = model.Buy
		if r.Side == "sell" {
			msg.Side = model.Sell
		}
		msg.TradeID = strconv.FormatInt(r.Sequence, 10)
		msg.JSON = json.RawMessage(rawText)
		return []model.TradeMsg{msg}, nil
	}

	if symbol, ok := kucoinSymbolFromTopic(env.Topic, "/market/match:"); ok {
		var r kucoinSpotTrade
		if err := json.Unmarshal(env.Data, &r); err != nil {
			return nil, fmt.Errorf("parser: kucoin spot trade data: %w", err)
		}
		pair, mt, err := resolvePair("kucoin", marketType, symbol)
		if err != nil {
			return nil, err
		}
		price, err := strconv.ParseFloat(r.Price, 64)
		if err != nil {
			return nil, fmt.Errorf("parser: kucoin spot trade price: %w", err)
		}
		size, err := strconv.ParseFloat(r.Size, 64)
		if err != nil {
			return nil, fmt.Errorf("parser: kucoin spot trade size: %w", err)
		}
		timeNs, err := strconv.ParseInt(r.Time, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parser: kucoin spot trade time: %w", err)
		}
		msg := model.NewTradeMsg("kucoin", mt, symbol, pair, nanosToMillis(timeNs))
		msg.Price = price
		msg.QuantityBase = size
		msg.QuantityQuote = price * size
		msg.Side = model.Buy
		if r.Side == "sell" {
			msg.Side = model.Sell
		}
		msg.TradeID = r.TradeID
		msg.JSON = json.RawMessage(rawText)
		return []model.TradeMsg{msg}, nil
	}

	return nil, fmt.Errorf("parser: kucoin trade: unrecognized topic %q", env.Topic)
}

// parseKucoinOrderBook handles the contract level2 channel: a single
// "price,side,quantity" change per message. The contract-trade
// envelope carries the ns timestamp ts and a monotonic sequence used
// as the trade id; the same shape applies to level2, where sequence
// becomes seq_id.
func parseKucoinOrderBook(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.OrderBookMsg, error) {
	var env kucoinEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: kucoin l2 envelope: %w", err)
	}
	symbol, ok := kucoinSymbolFromTopic(env.Topic, "/contractMarket/level2:")
	if !ok {
		return nil, fmt.Errorf("parser: kucoin l2: unrecognized topic %q", env.Topic)
	}
	var r kucoinContractOrderbook
	if err := json.Unmarshal(env.Data, &r); err != nil {
		return nil, fmt.Errorf("parser: kucoin l2 data: %w", err)
	}
	pair, mt, err := resolvePair("kucoin", marketType, symbol)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(r.Change, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("parser: kucoin l2 change has %d fields, want 3", len(parts))
	}
	price, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("parser: kucoin l2 change price: %w", err)
	}
	qty, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return nil, fmt.Errorf("parser: kucoin l2 change quantity: %w", err)
	}
	base, quote, contract := quantity.Calc("kucoin", mt, pair, price, qty)
	order := model.Order{Price: price, QuantityBase: base, QuantityQuote: quote, QuantityContract: contract}

	ts := r.Timestamp
	if ts == 0 {
		ts, err = requireTimestamp(receivedAt)
		if err != nil {
			return nil, err
		}
	}
	msg := model.NewOrderBookMsg("kucoin", mt, symbol, pair, ts, false)
	seq := r.Sequence
	msg.SeqID = &seq
	if parts[1] == "sell" {
		msg.Asks = []model.Order{order}
	} else {
		msg.Bids = []model.Order{order}
	}
	msg.JSON = json.RawMessage(rawText)
	return []model.OrderBookMsg{msg}, nil
}
