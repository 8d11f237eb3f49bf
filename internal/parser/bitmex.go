package parser

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/crypto-feed/md-engine/internal/quantity"
	"github.com/crypto-feed/md-engine/internal/reftable"
)

// bitmex envelopes every push as {"table","action","data":[...]},
// grounded on
// original_source/crypto-msg-parser/src/exchanges/bitmex.rs.

type bitmexEnvelope struct {
	Table  string          `json:"table"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type bitmexRawTrade struct {
	Symbol         string  `json:"symbol"`
	Side           string  `json:"side"`
	Size           float64 `json:"size"`
	Price          float64 `json:"price"`
	TrdMatchID     string  `json:"trdMatchID"`
	HomeNotional   float64 `json:"homeNotional"`
	ForeignNotional float64 `json:"foreignNotional"`
	Timestamp      string  `json:"timestamp"`
}

type bitmexRawOrder struct {
	Symbol string   `json:"symbol"`
	ID     int64    `json:"id"`
	Side   string   `json:"side"`
	Size   *float64 `json:"size"`
	Price  *float64 `json:"price"`
}

type bitmexRawFundingRate struct {
	Symbol      string  `json:"symbol"`
	FundingRate float64 `json:"fundingRate"`
	Timestamp   string  `json:"timestamp"`
}

func parseBitmexTrade(marketType model.MarketType, rawText string, _ *time.Time) ([]model.TradeMsg, error) {
	var env bitmexEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: bitmex trade envelope: %w", err)
	}
	var raws []bitmexRawTrade
	if err := json.Unmarshal(env.Data, &raws); err != nil {
		return nil, fmt.Errorf("parser: bitmex trade data: %w", err)
	}
	trades := make([]model.TradeMsg, 0, len(raws))
	for _, r := range raws {
		pair, mt, err := resolvePair("bitmex", marketType, r.Symbol)
		if err != nil {
			continue
		}
		ts, err := parseRFC3339Millis(r.Timestamp)
		if err != nil {
			continue
		}
		msg := model.NewTradeMsg("bitmex", mt, r.Symbol, pair, ts)
		msg.Price = r.Price
		msg.QuantityBase = r.HomeNotional
		msg.QuantityQuote = r.ForeignNotional
		size := r.Size
		msg.QuantityContract = &size
		msg.Side = model.Sell
		if r.Side != "Sell" {
			msg.Side = model.Buy
		}
		msg.TradeID = r.TrdMatchID
		trades = append(trades, msg)
	}
	if len(trades) == 1 {
		trades[0].JSON = json.RawMessage(rawText)
	}
	return trades, nil
}

func parseBitmexFundingRate(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.FundingRateMsg, error) {
	var env bitmexEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: bitmex funding envelope: %w", err)
	}
	var raws []bitmexRawFundingRate
	if err := json.Unmarshal(env.Data, &raws); err != nil {
		return nil, fmt.Errorf("parser: bitmex funding data: %w", err)
	}
	now, err := requireTimestamp(receivedAt)
	if err != nil {
		now = time.Now().UTC().UnixMilli()
	}
	rates := make([]model.FundingRateMsg, 0, len(raws))
	for _, r := range raws {
		pair, mt, err := resolvePair("bitmex", marketType, r.Symbol)
		if err != nil {
			continue
		}
		settleTime, err := parseRFC3339Millis(r.Timestamp)
		if err != nil {
			continue
		}
		msg := model.NewFundingRateMsg("bitmex", mt, r.Symbol, pair, now)
		msg.FundingRate = r.FundingRate
		msg.FundingTime = settleTime
		rates = append(rates, msg)
	}
	if len(rates) == 1 {
		rates[0].JSON = json.RawMessage(rawText)
	}
	return rates, nil
}

func parseBitmexOrderBook(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.OrderBookMsg, error) {
	var env bitmexEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: bitmex l2 envelope: %w", err)
	}
	var raws []bitmexRawOrder
	if err := json.Unmarshal(env.Data, &raws); err != nil {
		return nil, fmt.Errorf("parser: bitmex l2 data: %w", err)
	}
	if len(raws) == 0 {
		return nil, nil
	}
	ts, err := requireTimestamp(receivedAt)
	if err != nil {
		return nil, err
	}
	symbol := raws[0].Symbol
	pair, mt, err := resolvePair("bitmex", marketType, symbol)
	if err != nil {
		return nil, err
	}
	snapshot := env.Action == "partial"

	toOrder := func(r bitmexRawOrder) (model.Order, error) {
		var price float64
		if r.Price != nil {
			price = *r.Price
		} else {
			price, err = reftable.IDToPrice(r.Symbol, r.ID)
			if err != nil {
				return model.Order{}, err
			}
		}
		var size float64
		if r.Size != nil {
			size = *r.Size
		}
		base, quote, contract := quantity.Calc("bitmex", mt, pair, price, size)
		return model.Order{Price: price, QuantityBase: base, QuantityQuote: quote, QuantityContract: contract}, nil
	}

	var asks, bids []model.Order
	for _, r := range raws {
		order, err := toOrder(r)
		if err != nil {
			continue
		}
		if r.Side == "Sell" {
			asks = append(asks, order)
		} else {
			bids = append(bids, order)
		}
	}

	msg := model.NewOrderBookMsg("bitmex", mt, symbol, pair, ts, snapshot)
	msg.Asks = asks
	msg.Bids = bids
	msg.JSON = json.RawMessage(rawText)
	return []model.OrderBookMsg{msg}, nil
}

func extractOkexSymbol(rawText string) (string, error) {
	var env struct {
		Data []struct {
			InstrumentID string `json:"instrument_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return "", fmt.Errorf("parser: okex extract symbol: %w", err)
	}
	if len(env.Data) == 0 {
		return "", fmt.Errorf("parser: okex message has no data")
	}
	return env.Data[0].InstrumentID, nil
}

func extractKucoinSymbol(rawText string) (string, error) {
	var env struct {
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return "", fmt.Errorf("parser: kucoin extract symbol: %w", err)
	}
	// topic shape: "/contractMarket/execution:XBTUSDTM" or
	// "/market/level2:BTC-USDT".
	for i := len(env.Topic) - 1; i >= 0; i-- {
		if env.Topic[i] == ':' {
			return env.Topic[i+1:], nil
		}
	}
	return "", fmt.Errorf("parser: kucoin topic has no symbol suffix: %q", env.Topic)
}

func extractBitstampSymbol(rawText string) (string, error) {
	var env struct {
		Channel string `json:"channel"`
	}
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return "", fmt.Errorf("parser: bitstamp extract symbol: %w", err)
	}
	// channel shape: "live_trades_btcusd" / "diff_order_book_btcusd".
	for i := len(env.Channel) - 1; i >= 0; i-- {
		if env.Channel[i] == '_' {
			return env.Channel[i+1:], nil
		}
	}
	return "", fmt.Errorf("parser: bitstamp channel has no symbol suffix: %q", env.Channel)
}
