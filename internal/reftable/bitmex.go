package reftable

import (
	"errors"
	"sync"
)

// ErrUnknownBitmexSymbol is returned when a bitmex symbol has no entry
// in the compiled-in-plus-refreshed index/tick-size table. This is
// expected for symbols listed after the snapshot was taken; the
// caller should fail that one parse and continue.
var ErrUnknownBitmexSymbol = errors.New("reftable: unknown bitmex symbol")

var bitmexMu sync.RWMutex

// BitmexSymbolIndexAndTickSize looks up the order-book index and the
// tick size bitmex's id<->price formula uses for symbol.
func BitmexSymbolIndexAndTickSize(symbol string) (BitmexSymbolInfo, error) {
	bitmexMu.RLock()
	defer bitmexMu.RUnlock()
	info, ok := bitmexSymbolTable[symbol]
	if !ok {
		return BitmexSymbolInfo{}, ErrUnknownBitmexSymbol
	}
	return info, nil
}

// IDToPrice converts a bitmex order-book id to a price:
// price = (1e8 * symbolIdx - id) * tickSize.
func IDToPrice(symbol string, id int64) (float64, error) {
	info, err := BitmexSymbolIndexAndTickSize(symbol)
	if err != nil {
		return 0, err
	}
	return (1e8*float64(info.Index) - float64(id)) * info.TickSize, nil
}

// PriceToID is the inverse of IDToPrice:
// id = 1e8 * symbolIdx - price/tickSize.
func PriceToID(symbol string, price float64) (int64, error) {
	info, err := BitmexSymbolIndexAndTickSize(symbol)
	if err != nil {
		return 0, err
	}
	return int64(1e8*float64(info.Index) - price/info.TickSize), nil
}
