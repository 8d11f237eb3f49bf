package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/crypto-feed/md-engine/internal/quantity"
)

// okex batches every push as {"table":"<segment>/<channel>","data":[...]},
// grounded on original_source/crypto-ws-client's okex client and the
// literal fixtures in original_source/crypto-msg-parser/tests/okex.rs.

type okexEnvelope struct {
	Table  string          `json:"table"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type okexRawTrade struct {
	Side         string `json:"side"`
	TradeID      string `json:"trade_id"`
	Price        string `json:"price"`
	Size         string `json:"size"`
	Qty          string `json:"qty"`
	InstrumentID string `json:"instrument_id"`
	Timestamp    string `json:"timestamp"`
}

type okexRawLevel struct {
	Level [4]string
}

func (l *okexRawLevel) UnmarshalJSON(data []byte) error {
	var raw [4]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Level = raw
	return nil
}

type okexRawOrderBook struct {
	InstrumentID string         `json:"instrument_id"`
	Asks         []okexRawLevel `json:"asks"`
	Bids         []okexRawLevel `json:"bids"`
	Timestamp    string         `json:"timestamp"`
}

func parseOkexTrade(marketType model.MarketType, rawText string, _ *time.Time) ([]model.TradeMsg, error) {
	var env okexEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: okex trade envelope: %w", err)
	}
	var raws []okexRawTrade
	if err := json.Unmarshal(env.Data, &raws); err != nil {
		return nil, fmt.Errorf("parser: okex trade data: %w", err)
	}
	trades := make([]model.TradeMsg, 0, len(raws))
	for _, r := range raws {
		pair, mt, err := resolvePair("okex", marketType, r.InstrumentID)
		if err != nil {
			continue
		}
		ts, err := parseRFC3339Millis(r.Timestamp)
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(r.Price, 64)
		if err != nil {
			continue
		}
		sizeStr := r.Size
		if sizeStr == "" {
			sizeStr = r.Qty
		}
		size, err := strconv.ParseFloat(sizeStr, 64)
		if err != nil {
			continue
		}
		base, quote, contract := quantity.Calc("okex", mt, pair, price, size)
		msg := model.NewTradeMsg("okex", mt, r.InstrumentID, pair, ts)
		msg.Price = price
		msg.QuantityBase = base
		msg.QuantityQuote = quote
		msg.QuantityContract = contract
		msg.Side = parseSide(r.Side)
		msg.TradeID = r.TradeID
		trades = append(trades, msg)
	}
	if len(trades) == 1 {
		trades[0].JSON = json.RawMessage(rawText)
	}
	return trades, nil
}

// okexRawFundingRate mirrors okex's funding_rate channel: one object per
// instrument carrying the current and estimated next rate.
type okexRawFundingRate struct {
	InstrumentID  string `json:"instrument_id"`
	FundingRate   string `json:"funding_rate"`
	EstimatedRate string `json:"estimated_rate"`
	FundingTime   string `json:"funding_time"`
}

func parseOkexFundingRate(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.FundingRateMsg, error) {
	var env okexEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: okex funding envelope: %w", err)
	}
	var raws []okexRawFundingRate
	if err := json.Unmarshal(env.Data, &raws); err != nil {
		return nil, fmt.Errorf("parser: okex funding data: %w", err)
	}
	now, err := requireTimestamp(receivedAt)
	if err != nil {
		now = time.Now().UTC().UnixMilli()
	}
	rates := make([]model.FundingRateMsg, 0, len(raws))
	for _, r := range raws {
		pair, mt, err := resolvePair("okex", marketType, r.InstrumentID)
		if err != nil {
			continue
		}
		rate, err := strconv.ParseFloat(r.FundingRate, 64)
		if err != nil {
			continue
		}
		fundingTime, err := parseRFC3339Millis(r.FundingTime)
		if err != nil {
			fundingTime = now
		}
		msg := model.NewFundingRateMsg("okex", mt, r.InstrumentID, pair, now)
		msg.FundingRate = rate
		msg.FundingTime = fundingTime
		if est, err := strconv.ParseFloat(r.EstimatedRate, 64); err == nil {
			msg.EstimatedRate = &est
		}
		rates = append(rates, msg)
	}
	if len(rates) == 1 {
		rates[0].JSON = json.RawMessage(rawText)
	}
	return rates, nil
}

// parseOkexOrderBook handles the depth_l2_tbt channel. A level's
// quantity field is the absolute size at that price; a zero size
// means delete. action distinguishes "partial" (snapshot)
// from "update".
func parseOkexOrderBook(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.OrderBookMsg, error) {
	var env okexEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: okex l2 envelope: %w", err)
	}
	var raws []okexRawOrderBook
	if err := json.Unmarshal(env.Data, &raws); err != nil {
		return nil, fmt.Errorf("parser: okex l2 data: %w", err)
	}
	if len(raws) == 0 {
		return nil, nil
	}
	r := raws[0]
	pair, mt, err := resolvePair("okex", marketType, r.InstrumentID)
	if err != nil {
		return nil, err
	}
	ts, err := parseRFC3339Millis(r.Timestamp)
	if err != nil {
		ts, err = requireTimestamp(receivedAt)
		if err != nil {
			return nil, err
		}
	}
	snapshot := env.Action == "partial"

	toOrders := func(levels []okexRawLevel) []model.Order {
		orders := make([]model.Order, 0, len(levels))
		for _, lvl := range levels {
			price, err := strconv.ParseFloat(lvl.Level[0], 64)
			if err != nil {
				continue
			}
			size, err := strconv.ParseFloat(lvl.Level[1], 64)
			if err != nil {
				continue
			}
			base, quote, contract := quantity.Calc("okex", mt, pair, price, size)
			orders = append(orders, model.Order{Price: price, QuantityBase: base, QuantityQuote: quote, QuantityContract: contract})
		}
		return orders
	}

	msg := model.NewOrderBookMsg("okex", mt, r.InstrumentID, pair, ts, snapshot)
	msg.Asks = toOrders(r.Asks)
	msg.Bids = toOrders(r.Bids)
	msg.JSON = json.RawMessage(rawText)
	return []model.OrderBookMsg{msg}, nil
}
