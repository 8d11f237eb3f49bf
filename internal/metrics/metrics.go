// Package metrics exposes the engine's Prometheus counters/gauges and
// a small HTTP server to serve them: promauto/promhttp wiring for
// transport and parser observability (connection health, frame
// counts, parse errors, trade/orderbook/funding-rate throughput).
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	// Orderbook metrics
	OrderbookUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_orderbook_updates_total",
			Help: "Total number of orderbook updates parsed",
		},
		[]string{"exchange", "symbol"},
	)

	OrderbookDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "md_orderbook_depth",
			Help: "Current orderbook depth (number of levels)",
		},
		[]string{"exchange", "symbol", "side"},
	)

	// Trade metrics
	TradeCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_trades_total",
			Help: "Total number of trades parsed",
		},
		[]string{"exchange", "symbol", "side"},
	)

	TradeVolume = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_trade_volume_total",
			Help: "Total trade volume in base units",
		},
		[]string{"exchange", "symbol"},
	)

	// Funding rate metrics
	FundingRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "md_funding_rate",
			Help: "Most recently observed funding rate",
		},
		[]string{"exchange", "symbol"},
	)

	FundingRateUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_funding_rate_updates_total",
			Help: "Total number of funding rate updates parsed",
		},
		[]string{"exchange"},
	)

	// Latency metrics
	MessageLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "md_message_latency_seconds",
			Help:    "Latency from exchange timestamp to processing",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"exchange", "message_type"},
	)

	ParseErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_parse_errors_total",
			Help: "Total number of raw frames that failed to parse",
		},
		[]string{"exchange", "message_type"},
	)

	// Connection metrics
	ConnectionStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "md_connection_status",
			Help: "WebSocket connection status (1=connected, 0=disconnected)",
		},
		[]string{"exchange"},
	)

	ConnectionReconnects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_reconnects_total",
			Help: "Total number of in-process reconnection attempts",
		},
		[]string{"exchange"},
	)

	ConnectionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_connection_errors_total",
			Help: "Total number of connection-level errors (read, write, dial)",
		},
		[]string{"exchange", "error_type"},
	)

	FramesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_frames_received_total",
			Help: "Total number of WebSocket frames received",
		},
		[]string{"exchange", "frame_type"},
	)

	// REST reference-table metrics
	RestFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "md_rest_fetch_duration_seconds",
			Help:    "Time to fetch a reference table from an exchange REST API",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"exchange", "endpoint"},
	)

	RestFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_rest_fetch_errors_total",
			Help: "Total number of reference-table REST fetch errors",
		},
		[]string{"exchange", "endpoint"},
	)

	InstrumentsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "md_instruments_loaded",
			Help: "Number of reference-table entries loaded per exchange",
		},
		[]string{"exchange"},
	)
)

// Timer measures an operation's duration for later histogram
// recording.
type Timer struct {
	start time.Time
}

// NewTimer starts a Timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time against histogram.
func (t *Timer) ObserveDuration(histogram *prometheus.HistogramVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// RecordOrderbookUpdate records metrics for one parsed orderbook
// message.
func RecordOrderbookUpdate(exchange, symbol string, bidDepth, askDepth int) {
	OrderbookUpdates.WithLabelValues(exchange, symbol).Inc()
	OrderbookDepth.WithLabelValues(exchange, symbol, "bid").Set(float64(bidDepth))
	OrderbookDepth.WithLabelValues(exchange, symbol, "ask").Set(float64(askDepth))
}

// RecordTrade records metrics for one parsed trade.
func RecordTrade(exchange, symbol, side string, quantityBase float64) {
	TradeCount.WithLabelValues(exchange, symbol, side).Inc()
	TradeVolume.WithLabelValues(exchange, symbol).Add(quantityBase)
}

// RecordFundingRate records metrics for one parsed funding-rate
// update.
func RecordFundingRate(exchange, symbol string, rate float64) {
	FundingRate.WithLabelValues(exchange, symbol).Set(rate)
	FundingRateUpdates.WithLabelValues(exchange).Inc()
}

// RecordConnectionStatus records the current connection state.
func RecordConnectionStatus(exchange string, connected bool) {
	status := 0.0
	if connected {
		status = 1.0
	}
	ConnectionStatus.WithLabelValues(exchange).Set(status)
}

// RecordReconnect records an in-process reconnection attempt.
func RecordReconnect(exchange string) {
	ConnectionReconnects.WithLabelValues(exchange).Inc()
}

// RecordConnectionError records a connection-level error.
func RecordConnectionError(exchange, errorType string) {
	ConnectionErrors.WithLabelValues(exchange, errorType).Inc()
}

// RecordParseError records a frame that failed to parse.
func RecordParseError(exchange, messageType string) {
	ParseErrors.WithLabelValues(exchange, messageType).Inc()
}

// Server serves the Prometheus /metrics and /health endpoints.
type Server struct {
	addr   string
	server *http.Server
}

// NewServer creates a Server bound to addr.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return &Server{
		addr: addr,
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start runs the metrics server until it errors or Stop is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.addr).Msg("metrics: starting server")
	return s.server.ListenAndServe()
}

// Stop closes the metrics server.
func (s *Server) Stop() error {
	return s.server.Close()
}
