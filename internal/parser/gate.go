package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/crypto-feed/md-engine/internal/quantity"
)

// gate wraps every push as {"channel":"futures.<name>","event":
// "update","result":...}. Not present in original_source; grounded
// on the envelope-detection convention used by the other exchange
// parsers plus gate's documented
// futures.trades/futures.order_book/futures.tickers channel fields,
// and on the contract-value tables ported from
// original_source/crypto-msg-parser/src/exchanges/gate.rs.

type gateEnvelope struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Result  json.RawMessage `json:"result"`
}

type gateTrade struct {
	ID           int64  `json:"id"`
	CreateTimeMs int64  `json:"create_time_ms"`
	Price        string `json:"price"`
	Size         float64 `json:"size"`
	Contract     string `json:"contract"`
}

type gateOrderBookLevel struct {
	Price string  `json:"p"`
	Size  float64 `json:"s"`
}

type gateOrderBook struct {
	T        int64                `json:"t"`
	Contract string               `json:"contract"`
	Asks     []gateOrderBookLevel `json:"asks"`
	Bids     []gateOrderBookLevel `json:"bids"`
}

type gateTicker struct {
	Contract           string `json:"contract"`
	FundingRate         string `json:"funding_rate"`
	FundingRateIndicative string `json:"funding_rate_indicative"`
}

// extractGateSymbol reads the "contract" field out of the first
// result entry (array form for trades/order-book levels) or out of a
// flat result object (ticker/order-book snapshot).
func extractGateSymbol(rawText string) (string, error) {
	var env gateEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return "", fmt.Errorf("parser: gate extract symbol: %w", err)
	}
	var arr []struct {
		Contract string `json:"contract"`
	}
	if err := json.Unmarshal(env.Result, &arr); err == nil && len(arr) > 0 {
		return arr[0].Contract, nil
	}
	var obj struct {
		Contract string `json:"contract"`
	}
	if err := json.Unmarshal(env.Result, &obj); err == nil && obj.Contract != "" {
		return obj.Contract, nil
	}
	return "", fmt.Errorf("parser: gate message has no contract field")
}

func parseGateTrade(marketType model.MarketType, rawText string, _ *time.Time) ([]model.TradeMsg, error) {
	var env gateEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: gate trade envelope: %w", err)
	}
	var raws []gateTrade
	if err := json.Unmarshal(env.Result, &raws); err != nil {
		return nil, fmt.Errorf("parser: gate trade result: %w", err)
	}
	trades := make([]model.TradeMsg, 0, len(raws))
	for _, r := range raws {
		pair, mt, err := resolvePair("gate", marketType, r.Contract)
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(r.Price, 64)
		if err != nil {
			continue
		}
		size := r.Size
		side := model.Buy
		if size < 0 {
			side = model.Sell
			size = -size
		}
		base, quote, contract := quantity.Calc("gate", mt, pair, price, size)
		msg := model.NewTradeMsg("gate", mt, r.Contract, pair, r.CreateTimeMs)
		msg.Price = price
		msg.QuantityBase = base
		msg.QuantityQuote = quote
		msg.QuantityContract = contract
		msg.Side = side
		msg.TradeID = strconv.FormatInt(r.ID, 10)
		trades = append(trades, msg)
	}
	if len(trades) == 1 {
		trades[0].JSON = json.RawMessage(rawText)
	}
	return trades, nil
}

func parseGateOrderBook(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.OrderBookMsg, error) {
	var env gateEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: gate l2 envelope: %w", err)
	}
	var r gateOrderBook
	if err := json.Unmarshal(env.Result, &r); err != nil {
		return nil, fmt.Errorf("parser: gate l2 result: %w", err)
	}
	pair, mt, err := resolvePair("gate", marketType, r.Contract)
	if err != nil {
		return nil, err
	}
	ts := r.T
	if ts == 0 {
		ts, err = requireTimestamp(receivedAt)
		if err != nil {
			return nil, err
		}
	}
	toOrders := func(levels []gateOrderBookLevel) []model.Order {
		orders := make([]model.Order, 0, len(levels))
		for _, lvl := range levels {
			price, err := strconv.ParseFloat(lvl.Price, 64)
			if err != nil {
				continue
			}
			base, quote, contract := quantity.Calc("gate", mt, pair, price, lvl.Size)
			orders = append(orders, model.Order{Price: price, QuantityBase: base, QuantityQuote: quote, QuantityContract: contract})
		}
		return orders
	}
	msg := model.NewOrderBookMsg("gate", mt, r.Contract, pair, ts, env.Event == "all")
	msg.Asks = toOrders(r.Asks)
	msg.Bids = toOrders(r.Bids)
	msg.JSON = json.RawMessage(rawText)
	return []model.OrderBookMsg{msg}, nil
}

// parseGateFundingRate reads the futures.tickers channel's
// funding_rate/funding_rate_indicative fields; gate has no dedicated
// funding-rate push channel, so this best-effort reads the ticker
// stream's embedded fields instead.
func parseGateFundingRate(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.FundingRateMsg, error) {
	var env gateEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: gate funding envelope: %w", err)
	}
	var raws []gateTicker
	if err := json.Unmarshal(env.Result, &raws); err != nil {
		return nil, fmt.Errorf("parser: gate funding result: %w", err)
	}
	now, err := requireTimestamp(receivedAt)
	if err != nil {
		now = time.Now().UTC().UnixMilli()
	}
	rates := make([]model.FundingRateMsg, 0, len(raws))
	for _, r := range raws {
		if r.FundingRate == "" {
			continue
		}
		pair, mt, err := resolvePair("gate", marketType, r.Contract)
		if err != nil {
			continue
		}
		rate, err := strconv.ParseFloat(r.FundingRate, 64)
		if err != nil {
			continue
		}
		msg := model.NewFundingRateMsg("gate", mt, r.Contract, pair, now)
		msg.FundingRate = rate
		msg.FundingTime = now
		if est, err := strconv.ParseFloat(r.FundingRateIndicative, 64); err == nil {
			msg.EstimatedRate = &est
		}
		rates = append(rates, msg)
	}
	if len(rates) == 1 {
		rates[0].JSON = json.RawMessage(rawText)
	}
	return rates, nil
}
