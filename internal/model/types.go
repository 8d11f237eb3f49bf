// Package model holds the normalized domain records emitted by the
// transport and parser layers: market types, message types, pairs,
// order-book levels, and the trade/orderbook/funding-rate/BBO/ticker/
// candlestick record shapes shared by every exchange package.
package model

import "encoding/json"

// MarketType tags the kind of instrument a record belongs to.
type MarketType string

const (
	Spot           MarketType = "spot"
	LinearFuture   MarketType = "linear_future"
	InverseFuture  MarketType = "inverse_future"
	LinearSwap     MarketType = "linear_swap"
	InverseSwap    MarketType = "inverse_swap"
	QuantoFuture   MarketType = "quanto_future"
	QuantoSwap     MarketType = "quanto_swap"
	EuropeanOption MarketType = "european_option"
	Unknown        MarketType = "unknown"
)

// IsInverse reports whether the market type settles in base currency
// with a USD-denominated contract (bitmex-style).
func (m MarketType) IsInverse() bool {
	switch m {
	case InverseFuture, InverseSwap, QuantoFuture, QuantoSwap:
		return true
	default:
		return false
	}
}

// IsLinear reports whether the contract value is denominated in quote
// currency. Spot is not linear: it has no contract multiplier at all.
func (m MarketType) IsLinear() bool {
	switch m {
	case LinearFuture, LinearSwap, EuropeanOption:
		return true
	default:
		return false
	}
}

// MessageType names the shape of a normalized record.
type MessageType string

const (
	MsgTrade       MessageType = "Trade"
	MsgL2Event     MessageType = "L2Event"
	MsgL2Snapshot  MessageType = "L2Snapshot"
	MsgL2TopK      MessageType = "L2TopK"
	MsgL3Event     MessageType = "L3Event"
	MsgL3Snapshot  MessageType = "L3Snapshot"
	MsgBBO         MessageType = "BBO"
	MsgTicker      MessageType = "Ticker"
	MsgFundingRate MessageType = "FundingRate"
	MsgCandlestick MessageType = "Candlestick"
	MsgOpenInterest MessageType = "OpenInterest"
)

// Side is the trade-initiator direction.
type Side string

const (
	Buy  Side = "Buy"
	Sell Side = "Sell"
)

// Pair is the canonical "BASE/QUOTE" string, e.g. "BTC/USDT".
type Pair string

// NewPair joins and upper-cases base and quote into a canonical Pair.
func NewPair(base, quote string) Pair {
	return Pair(upper(base) + "/" + upper(quote))
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// Order is a single order-book price level. It marshals to a length-3
// JSON array ([price, quantity_base, quantity_quote]) when
// QuantityContract is nil, or a length-4 array (appending the contract
// quantity) otherwise. quantity_base == 0 signals level removal.
type Order struct {
	Price            float64
	QuantityBase     float64
	QuantityQuote    float64
	QuantityContract *float64
}

// MarshalJSON implements the array wire form: a 3-element array for
// spot quantities, 4-element when a contract count is present.
func (o Order) MarshalJSON() ([]byte, error) {
	if o.QuantityContract != nil {
		return json.Marshal([4]float64{o.Price, o.QuantityBase, o.QuantityQuote, *o.QuantityContract})
	}
	return json.Marshal([3]float64{o.Price, o.QuantityBase, o.QuantityQuote})
}

// UnmarshalJSON accepts both the 3- and 4-element array forms.
func (o *Order) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch len(raw) {
	case 3:
		*o = Order{Price: raw[0], QuantityBase: raw[1], QuantityQuote: raw[2]}
	case 4:
		qc := raw[3]
		*o = Order{Price: raw[0], QuantityBase: raw[1], QuantityQuote: raw[2], QuantityContract: &qc}
	default:
		return &InvalidOrderArrayError{Len: len(raw)}
	}
	return nil
}

// InvalidOrderArrayError is returned when an Order's wire array is
// neither 3 nor 4 elements long.
type InvalidOrderArrayError struct{ Len int }

func (e *InvalidOrderArrayError) Error() string {
	return "model: order array must have 3 or 4 elements, got " + itoa(e.Len)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// identity holds the fields common to every normalized record.
type identity struct {
	Exchange   string      `json:"exchange"`
	MarketType MarketType  `json:"market_type"`
	Symbol     string      `json:"symbol"`
	Pair       Pair        `json:"pair"`
	MsgType    MessageType `json:"msg_type"`
	Timestamp  int64       `json:"timestamp"`
}

// TradeMsg is a single executed trade.
type TradeMsg struct {
	identity
	Price            float64         `json:"price"`
	QuantityBase     float64         `json:"quantity_base"`
	QuantityQuote    float64         `json:"quantity_quote"`
	QuantityContract *float64        `json:"quantity_contract,omitempty"`
	Side             Side            `json:"side"`
	TradeID          string          `json:"trade_id"`
	JSON             json.RawMessage `json:"json"`
}

// NewTradeMsg builds a TradeMsg, filling in the shared identity fields.
func NewTradeMsg(exchange string, marketType MarketType, symbol string, pair Pair, timestampMs int64) TradeMsg {
	return TradeMsg{identity: identity{
		Exchange: exchange, MarketType: marketType, Symbol: symbol,
		Pair: pair, MsgType: MsgTrade, Timestamp: timestampMs,
	}}
}

// OrderBookMsg is either an incremental update or a full snapshot.
type OrderBookMsg struct {
	identity
	SeqID     *int64          `json:"seq_id,omitempty"`
	PrevSeqID *int64          `json:"prev_seq_id,omitempty"`
	Asks      []Order         `json:"asks"`
	Bids      []Order         `json:"bids"`
	Snapshot  bool            `json:"snapshot"`
	JSON      json.RawMessage `json:"json"`
}

func NewOrderBookMsg(exchange string, marketType MarketType, symbol string, pair Pair, timestampMs int64, snapshot bool) OrderBookMsg {
	msgType := MsgL2Event
	if snapshot {
		msgType = MsgL2Snapshot
	}
	return OrderBookMsg{identity: identity{
		Exchange: exchange, MarketType: marketType, Symbol: symbol,
		Pair: pair, MsgType: msgType, Timestamp: timestampMs,
	}, Snapshot: snapshot}
}

// FundingRateMsg is a perpetual-swap funding-rate update.
type FundingRateMsg struct {
	identity
	FundingRate   float64         `json:"funding_rate"`
	EstimatedRate *float64        `json:"estimated_rate,omitempty"`
	FundingTime   int64           `json:"funding_time"`
	JSON          json.RawMessage `json:"json"`
}

func NewFundingRateMsg(exchange string, marketType MarketType, symbol string, pair Pair, timestampMs int64) FundingRateMsg {
	return FundingRateMsg{identity: identity{
		Exchange: exchange, MarketType: marketType, Symbol: symbol,
		Pair: pair, MsgType: MsgFundingRate, Timestamp: timestampMs,
	}}
}

// BboMsg is a best-bid/best-offer quote update.
type BboMsg struct {
	identity
	BidPrice        float64         `json:"bid_price"`
	BidQuantityBase float64         `json:"bid_quantity_base"`
	AskPrice        float64         `json:"ask_price"`
	AskQuantityBase float64         `json:"ask_quantity_base"`
	JSON            json.RawMessage `json:"json"`
}

// TickerMsg is a 24h rolling ticker update.
type TickerMsg struct {
	identity
	LastPrice        float64         `json:"last_price"`
	LastQuantityBase float64         `json:"last_quantity_base"`
	BestBidPrice     float64         `json:"best_bid_price"`
	BestAskPrice     float64         `json:"best_ask_price"`
	Open24h          float64         `json:"open_24h"`
	High24h          float64         `json:"high_24h"`
	Low24h           float64         `json:"low_24h"`
	Volume24h        float64         `json:"volume_24h"`
	JSON             json.RawMessage `json:"json"`
}

// CandlestickMsg is a single OHLCV bar.
type CandlestickMsg struct {
	identity
	IntervalSeconds int             `json:"interval_seconds"`
	Open            float64         `json:"open"`
	High            float64         `json:"high"`
	Low             float64         `json:"low"`
	Close           float64         `json:"close"`
	Volume          float64         `json:"volume"`
	JSON            json.RawMessage `json:"json"`
}
