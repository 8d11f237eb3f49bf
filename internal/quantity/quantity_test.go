package quantity

import (
	"testing"

	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcSpot(t *testing.T) {
	base, quote, contract := Calc("binance", model.Spot, model.NewPair("btc", "usdt"), 30000, 2)
	assert.Equal(t, 2.0, base)
	assert.Equal(t, 60000.0, quote)
	assert.Nil(t, contract)
}

func TestCalcInverseBitmexOneContractPerUSD(t *testing.T) {
	// bitmex XBTUSD: each contract is worth 1 USD, so quote == rawSize
	// and base == quote / price.
	base, quote, contract := Calc("bitmex", model.InverseSwap, model.NewPair("btc", "usd"), 25000, 25000)
	require.NotNil(t, contract)
	assert.Equal(t, 25000.0, *contract)
	assert.Equal(t, 25000.0, quote)
	assert.Equal(t, 1.0, base)
}

func TestCalcInverseZeroPriceDoesNotDivideByZero(t *testing.T) {
	base, quote, contract := Calc("bitmex", model.InverseSwap, model.NewPair("btc", "usd"), 0, 100)
	require.NotNil(t, contract)
	assert.Equal(t, 100.0, quote)
	assert.Equal(t, 0.0, base)
}

func TestCalcEuropeanOptionAppliesUnderlyingMultiplier(t *testing.T) {
	base, quote, contract := Calc("okex", model.EuropeanOption, model.NewPair("eth", "usd"), 2000, 3)
	require.NotNil(t, contract)
	assert.Equal(t, 3.0, *contract)
	assert.Equal(t, 3.0, base) // ETH multiplier is 1
	assert.Equal(t, 6000.0, quote)

	base, _, _ = Calc("okex", model.EuropeanOption, model.NewPair("btc", "usd"), 30000, 10)
	assert.Equal(t, 1.0, base) // BTC multiplier is 0.1
}

func TestCalcLinearUnknownExchangeDefaultsMultiplierToOne(t *testing.T) {
	base, quote, contract := Calc("madeupexchange", model.LinearSwap, model.NewPair("btc", "usdt"), 30000, 2)
	require.NotNil(t, contract)
	assert.Equal(t, 2.0, base)
	assert.Equal(t, 60000.0, quote)
}
