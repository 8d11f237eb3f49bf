package reftable

import (
	"testing"

	"github.com/crypto-feed/md-engine/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestContractValueSpotHasNoContract(t *testing.T) {
	_, ok := ContractValue("okex", model.Spot, model.NewPair("btc", "usdt"))
	assert.False(t, ok)
}

func TestContractValueOkexInverseDependsOnBaseCurrency(t *testing.T) {
	v, ok := ContractValue("okex", model.InverseSwap, model.NewPair("btc", "usd"))
	assert.True(t, ok)
	assert.Equal(t, 100.0, v)

	v, ok = ContractValue("okex", model.InverseSwap, model.NewPair("eth", "usd"))
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)
}

func TestContractValueDefaultExchangeInverseIsOne(t *testing.T) {
	v, ok := ContractValue("bitmex", model.InverseSwap, model.NewPair("btc", "usd"))
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestContractValueDefaultExchangeLinearIsUnknown(t *testing.T) {
	_, ok := ContractValue("bitmex", model.LinearSwap, model.NewPair("btc", "usdt"))
	assert.False(t, ok)
}

func TestContractValueKucoinAndGateInverseIsOne(t *testing.T) {
	v, ok := ContractValue("kucoin", model.InverseSwap, model.NewPair("btc", "usdt"))
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = ContractValue("gate", model.InverseFuture, model.NewPair("btc", "usd"))
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestMergeContractValueZeroBecomesOne(t *testing.T) {
	table := map[string]float64{}
	mergeContractValue(table, "BTC/USDT", 0)
	assert.Equal(t, 1.0, table["BTC/USDT"])

	mergeContractValue(table, "ETH/USDT", 5)
	assert.Equal(t, 5.0, table["ETH/USDT"])
}
