package reftable

import (
	"strings"

	"github.com/crypto-feed/md-engine/internal/model"
)

// ContractValue returns the base-units-per-contract multiplier for a
// (marketType, pair):
//
//   - inverse instruments: 1.0 by convention, except okex (100 for a
//     BTC-denominated pair, else 10) and gate (always 1.0);
//   - linear instruments: looked up in the per-exchange compiled-in
//     table (merged with any HTTP refresh already applied by Load).
//
// ok is false when the market type carries no contract concept (spot)
// or the pair is missing from a linear table.
func ContractValue(exchange string, marketType model.MarketType, pair model.Pair) (float64, bool) {
	if !marketType.IsInverse() && !marketType.IsLinear() {
		return 0, false
	}
	switch exchange {
	case "okex":
		return okexContractValue(marketType, pair)
	case "kucoin":
		return kucoinContractValue(marketType, pair)
	case "gate":
		return gateContractValue(marketType, pair)
	default:
		if marketType.IsInverse() {
			return 1.0, true
		}
		return 0, false
	}
}

func okexContractValue(marketType model.MarketType, pair model.Pair) (float64, bool) {
	switch marketType {
	case model.InverseSwap, model.InverseFuture:
		if strings.HasPrefix(string(pair), "BTC") {
			return 100.0, true
		}
		return 10.0, true
	case model.LinearSwap:
		v, ok := okexLinearSwapValues[string(pair)]
		return v, ok
	case model.LinearFuture:
		v, ok := okexLinearFutureValues[string(pair)]
		return v, ok
	case model.EuropeanOption:
		v, ok := okexOptionValues[string(pair)]
		return v, ok
	default:
		return 0, false
	}
}

func kucoinContractValue(marketType model.MarketType, pair model.Pair) (float64, bool) {
	switch marketType {
	case model.InverseSwap, model.InverseFuture:
		return 1.0, true
	case model.LinearSwap:
		v, ok := kucoinLinearSwapValues[string(pair)]
		return v, ok
	default:
		return 0, false
	}
}

func gateContractValue(marketType model.MarketType, pair model.Pair) (float64, bool) {
	switch marketType {
	case model.InverseSwap, model.InverseFuture:
		return 1.0, true
	case model.LinearSwap:
		v, ok := gateLinearSwapValues[string(pair)]
		return v, ok
	case model.LinearFuture:
		v, ok := gateLinearFutureValues[string(pair)]
		return v, ok
	default:
		return 0, false
	}
}

// mergeContractValue installs an HTTP-refreshed contract value,
// replacing a network-reported 0 with 1.0 (gate convention).
func mergeContractValue(table map[string]float64, pair string, value float64) {
	if value == 0 {
		value = 1.0
	}
	table[pair] = value
}
