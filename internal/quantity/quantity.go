// Package quantity implements calc_quantity_and_volume, the single
// place that reconciles an exchange's native order/trade size with
// the canonical (base, quote, contract) triple. It is called from the
// L2 parsers of the derivative-capable exchanges (the bitstamp,
// coinbase_pro and kucoin spot paths compute spot quantities inline)
// and is grounded on the call sites in
// original_source/crypto-msg-parser/src/exchanges/bitmex.rs and
// .../kucoin/kucoin_swap.rs, with the per-market-type arithmetic taken
// directly from those call sites.
package quantity

import (
	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/crypto-feed/md-engine/internal/reftable"
)

// optionMultipliers gives the per-underlying multiplier for
// okex-style options, keyed by base currency.
var optionMultipliers = map[string]float64{
	"BTC": 0.1,
	"ETH": 1,
	"EOS": 100,
}

// Calc computes (base, quote, contract) for a single order/trade size
// reported by exchange at price, for a pair of the given market type.
// contract is nil for spot.
func Calc(exchange string, marketType model.MarketType, pair model.Pair, price, rawSize float64) (base, quote float64, contract *float64) {
	switch {
	case marketType == model.Spot:
		base = rawSize
		quote = price * base
		return base, quote, nil

	case marketType == model.EuropeanOption:
		mult := optionMultiplier(pair)
		base = rawSize * mult
		quote = price * base
		c := rawSize
		return base, quote, &c

	case marketType.IsInverse():
		cv, ok := reftable.ContractValue(exchange, marketType, pair)
		if !ok {
			cv = 1.0
		}
		quote = rawSize * cv
		if price != 0 {
			base = quote / price
		}
		c := rawSize
		return base, quote, &c

	default: // linear future/swap
		cv, ok := reftable.ContractValue(exchange, marketType, pair)
		if !ok {
			cv = 1.0
		}
		base = rawSize * cv
		quote = price * base
		c := rawSize
		return base, quote, &c
	}
}

func optionMultiplier(pair model.Pair) float64 {
	for base, mult := range optionMultipliers {
		if len(string(pair)) >= len(base) && string(pair)[:len(base)] == base {
			return mult
		}
	}
	return 1
}
