package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, vec.WithLabelValues(labels...).Write(m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, vec *prometheus.GaugeVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, vec.WithLabelValues(labels...).Write(m))
	return m.GetGauge().GetValue()
}

func TestRecordTradeIncrementsCountAndVolume(t *testing.T) {
	before := counterValue(t, TradeCount, "testex", "BTC/USDT", "Buy")
	volumeBefore := counterValue(t, TradeVolume, "testex", "BTC/USDT")
	RecordTrade("testex", "BTC/USDT", "Buy", 1.5)
	after := counterValue(t, TradeCount, "testex", "BTC/USDT", "Buy")
	assert.Equal(t, before+1, after)
	assert.Equal(t, volumeBefore+1.5, counterValue(t, TradeVolume, "testex", "BTC/USDT"))
}

func TestRecordOrderbookUpdateSetsDepth(t *testing.T) {
	RecordOrderbookUpdate("testex", "BTC/USDT", 5, 7)
	assert.Equal(t, 5.0, gaugeValue(t, OrderbookDepth, "testex", "BTC/USDT", "bid"))
	assert.Equal(t, 7.0, gaugeValue(t, OrderbookDepth, "testex", "BTC/USDT", "ask"))
}

func TestRecordConnectionStatusTogglesGauge(t *testing.T) {
	RecordConnectionStatus("testex", true)
	assert.Equal(t, 1.0, gaugeValue(t, ConnectionStatus, "testex"))
	RecordConnectionStatus("testex", false)
	assert.Equal(t, 0.0, gaugeValue(t, ConnectionStatus, "testex"))
}

func TestRecordFundingRateSetsGaugeAndIncrementsCounter(t *testing.T) {
	before := counterValue(t, FundingRateUpdates, "testex")
	RecordFundingRate("testex", "BTC/USDT", 0.0003)
	assert.Equal(t, 0.0003, gaugeValue(t, FundingRate, "testex", "BTC/USDT"))
	assert.Equal(t, before+1, counterValue(t, FundingRateUpdates, "testex"))
}

func TestNewServerServesMetricsAndHealth(t *testing.T) {
	s := NewServer(":0")
	require.NotNil(t, s)

	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
