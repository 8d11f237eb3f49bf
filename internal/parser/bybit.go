package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/crypto-feed/md-engine/internal/quantity"
)

// bybit wraps every push as {"topic":"<channel>.<symbol>","data":...}
// Not present in original_source; grounded on the envelope-detection
// convention used by the other exchange parsers plus bybit's
// documented inverse-swap trade/orderBookL2_25/instrument_info
// channel fields.

type bybitEnvelope struct {
	Topic string          `json:"topic"`
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
}

type bybitTrade struct {
	Symbol      string `json:"symbol"`
	Side        string `json:"side"`
	Size        float64 `json:"size"`
	Price       float64 `json:"price"`
	TradeID     string `json:"trade_id"`
	TradeTimeMs int64  `json:"trade_time_ms"`
}

type bybitOrderLevel struct {
	Symbol string `json:"symbol"`
	ID     int64  `json:"id"`
	Side   string `json:"side"`
	Size   float64 `json:"size"`
	Price  string `json:"price"`
}

type bybitOrderBookDelta struct {
	Delete []bybitOrderLevel `json:"delete"`
	Update []bybitOrderLevel `json:"update"`
	Insert []bybitOrderLevel `json:"insert"`
}

func bybitSymbolFromTopic(topic string) string {
	for i := len(topic) - 1; i >= 0; i-- {
		if topic[i] == '.' {
			return topic[i+1:]
		}
	}
	return topic
}

// extractBybitSymbol reads the symbol out of the topic suffix
// ("trade.BTCUSD" -> "BTCUSD"), which is reliable across every bybit
// channel shape (flat array, snapshot/delta, instrument_info).
func extractBybitSymbol(rawText string) (string, error) {
	var env struct {
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return "", fmt.Errorf("parser: bybit extract symbol: %w", err)
	}
	if env.Topic == "" {
		return "", fmt.Errorf("parser: bybit message has no topic")
	}
	return bybitSymbolFromTopic(env.Topic), nil
}

func parseBybitTrade(marketType model.MarketType, rawText string, _ *time.Time) ([]model.TradeMsg, error) {
	var env bybitEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: bybit trade envelope: %w", err)
	}
	var raws []bybitTrade
	if err := json.Unmarshal(env.Data, &raws); err != nil {
		return nil, fmt.Errorf("parser: bybit trade data: %w", err)
	}
	trades := make([]model.TradeMsg, 0, len(raws))
	for _, r := range raws {
		pair, mt, err := resolvePair("bybit", marketType, r.Symbol)
		if err != nil {
			continue
		}
		base, quote, contract := quantity.Calc("bybit", mt, pair, r.Price, r.Size)
		msg := model.NewTradeMsg("bybit", mt, r.Symbol, pair, r.TradeTimeMs)
		msg.Price = r.Price
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

// parseBybitOrderBook handles both the orderBookL2_25 snapshot
// ("data" is a flat level array) and delta ("data" is
// {delete,update,insert}) shapes.
func parseBybitOrderBook(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.OrderBookMsg, error) {
	var env bybitEnvelope
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: bybit l2 envelope: %w", err)
	}
	symbol := bybitSymbolFromTopic(env.Topic)
	ts, err := requireTimestamp(receivedAt)
	if err != nil {
		return nil, err
	}

	toOrder := func(mt model.MarketType, pair model.Pair, lvl bybitOrderLevel) (model.Order, error) {
		price, err := strconv.ParseFloat(lvl.Price, 64)
		if err != nil {
			return model.Order{}, err
		}
		base, quote, contract := quantity.Calc("bybit", mt, pair, price, lvl.Size)
		return model.Order{Price: price, QuantityBase: base, QuantityQuote: quote, QuantityContract: contract}, nil
	}

	if env.Type == "snapshot" {
		var levels []bybitOrderLevel
		if err := json.Unmarshal(env.Data, &levels); err != nil {
			return nil, fmt.Errorf("parser: bybit l2 snapshot data: %w", err)
		}
		if len(levels) == 0 {
			return nil, nil
		}
		pair, mt, err := resolvePair("bybit", marketType, symbol)
		if err != nil {
			return nil, err
		}
		var asks, bids []model.Order
		for _, lvl := range levels {
			o, err := toOrder(mt, pair, lvl)
			if err != nil {
				continue
			}
			if lvl.Side == "Sell" {
				asks = append(asks, o)
			} else {
				bids = append(bids, o)
			}
		}
		msg := model.NewOrderBookMsg("bybit", mt, symbol, pair, ts, true)
		msg.Asks, msg.Bids = asks, bids
		msg.JSON = json.RawMessage(rawText)
		return []model.OrderBookMsg{msg}, nil
	}

	var delta bybitOrderBookDelta
	if err := json.Unmarshal(env.Data, &delta); err != nil {
		return nil, fmt.Errorf("parser: bybit l2 delta data: %w", err)
	}
	pair, mt, err := resolvePair("bybit", marketType, symbol)
	if err != nil {
		return nil, err
	}
	var asks, bids []model.Order
	classify := func(levels []bybitOrderLevel, deleted bool) {
		for _, lvl := range levels {
			if deleted {
				lvl.Size = 0
			}
			o, err := toOrder(mt, pair, lvl)
			if err != nil {
				continue
			}
			if lvl.Side == "Sell" {
				asks = append(asks, o)
			} else {
				bids = append(bids, o)
			}
		}
	}
	classify(delta.Delete, true)
	classify(delta.Update, false)
	classify(delta.Insert, false)
	msg := model.NewOrderBookMsg("bybit", mt, symbol, pair, ts, false)
	msg.Asks, msg.Bids = asks, bids
	msg.JSON = json.RawMessage(rawText)
	return []model.OrderBookMsg{msg}, nil
}

// bybitInstrumentInfo carries funding_rate_e6 (fixed-point, 1e-6
// scale) and next_funding_time, pushed on the instrument_info topic.
type bybitInstrumentInfo struct {
	Symbol          string `json:"symbol"`
	FundingRateE6   *int64 `json:"funding_rate_e6"`
	NextFundingTime string `json:"next_funding_time"`
}

func parseBybitFundingRate(marketType model.MarketType, rawText string, receivedAt *time.Time) ([]model.FundingRateMsg, error) {
	var env struct {
		Topic string `json:"topic"`
		Data  struct {
			Update []bybitInstrumentInfo `json:"update"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(rawText), &env); err != nil {
		return nil, fmt.Errorf("parser: bybit funding envelope: %w", err)
	}
	now, err := requireTimestamp(receivedAt)
	if err != nil {
		now = time.Now().UTC().UnixMilli()
	}
	rates := make([]model.FundingRateMsg, 0, len(env.Data.Update))
	for _, u := range env.Data.Update {
		if u.FundingRateE6 == nil {
			continue
		}
		pair, mt, err := resolvePair("bybit", marketType, u.Symbol)
		if err != nil {
			continue
		}
		fundingTime := now
		if t, err := parseRFC3339Millis(u.NextFundingTime); err == nil {
			fundingTime = t
		}
		msg := model.NewFundingRateMsg("bybit", mt, u.Symbol, pair, now)
		msg.FundingRate = float64(*u.FundingRateE6) / 1_000_000
		msg.FundingTime = fundingTime
		rates = append(rates, msg)
	}
	if len(rates) == 1 {
		rates[0].JSON = json.RawMessage(rawText)
	}
	return rates, nil
}
