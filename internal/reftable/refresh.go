package reftable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/crypto-feed/md-engine/internal/metrics"
	"github.com/crypto-feed/md-engine/internal/pairnorm"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

// httpClient is a small-retry, short-timeout client shared by every
// reference-table refresh call. Grounded on NimbleMarkets-dbn-go's use
// of a resilient HTTP client for best-effort outbound calls; unlike
// that caller, a failure here is never fatal — it just leaves the
// compiled-in offline table authoritative.
var httpClient = newRetryableClient()

func newRetryableClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 1 * time.Second
	c.HTTPClient.Timeout = 8 * time.Second
	c.Logger = nil
	return c
}

var loadOnce sync.Once

// Load performs the one-time best-effort HTTP refresh of every
// reference table (bitmex tick sizes, okex/kucoin/gate contract
// values). Safe to call multiple times; only the first call does any
// work. Every fetch is independent: one exchange's endpoint being
// unreachable never blocks the others, and all failures degrade
// silently to the offline snapshot.
func Load(ctx context.Context) {
	loadOnce.Do(func() {
		var wg sync.WaitGroup
		for _, fn := range []func(context.Context){
			refreshBitmexTickSizes,
			refreshOkexContractValues,
			refreshKucoinContractValues,
			refreshGateContractValues,
		} {
			wg.Add(1)
			go func(fn func(context.Context)) {
				defer wg.Done()
				fn(ctx)
			}(fn)
		}
		wg.Wait()
	})
}

func getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reftable: %s returned status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// refreshBitmexTickSizes pages through
// https://www.bitmex.com/api/v1/instrument?columns=symbol,tickSize
// exactly as the original's fetch_tick_sizes does, applying the
// legacy XBTUSD tick-size override.
func refreshBitmexTickSizes(ctx context.Context) {
	type tickSize struct {
		Symbol    string  `json:"symbol"`
		TickSize  float64 `json:"tickSize"`
		Timestamp string  `json:"timestamp"`
	}
	timer := metrics.NewTimer()
	start := 0
	fetched := make(map[string]BitmexSymbolInfo)
	for {
		url := fmt.Sprintf("https://www.bitmex.com/api/v1/instrument?columns=symbol,tickSize&start=%d&count=500", start)
		var page []tickSize
		if err := getJSON(ctx, url, &page); err != nil {
			metrics.RestFetchErrors.WithLabelValues("bitmex", "instrument").Inc()
			log.Debug().Err(err).Msg("reftable: bitmex tick-size refresh failed, keeping offline table")
			return
		}
		for i, ts := range page {
			if len(ts.Symbol) > 0 && ts.Symbol[0] == '.' {
				continue
			}
			tick := ts.TickSize
			if ts.Symbol == "XBTUSD" {
				tick = 0.01
			}
			fetched[ts.Symbol] = BitmexSymbolInfo{Index: start + i, TickSize: tick}
		}
		if len(page) < 500 {
			break
		}
		start += 500
	}
	timer.ObserveDuration(metrics.RestFetchDuration, "bitmex", "instrument")
	bitmexMu.Lock()
	for symbol, info := range fetched {
		bitmexSymbolTable[symbol] = info
	}
	bitmexMu.Unlock()
	metrics.InstrumentsLoaded.WithLabelValues("bitmex").Set(float64(len(fetched)))
}

// refreshOkexContractValues hits the futures and swap instrument
// listings, keeping only linear instruments (is_inverse == "false").
func refreshOkexContractValues(ctx context.Context) {
	type instrument struct {
		InstrumentID string `json:"instrument_id"`
		ContractVal  string `json:"contract_val"`
		IsInverse    string `json:"is_inverse"`
	}
	fetchOne := func(marketSegment string, table map[string]float64) {
		timer := metrics.NewTimer()
		url := fmt.Sprintf("https://www.okex.com/api/%s/v3/instruments", marketSegment)
		var instruments []instrument
		if err := getJSON(ctx, url, &instruments); err != nil {
			metrics.RestFetchErrors.WithLabelValues("okex", marketSegment).Inc()
			log.Debug().Err(err).Str("segment", marketSegment).Msg("reftable: okex contract-value refresh failed")
			return
		}
		timer.ObserveDuration(metrics.RestFetchDuration, "okex", marketSegment)
		loaded := 0
		for _, inst := range instruments {
			if inst.IsInverse != "false" {
				continue
			}
			pair, err := pairnorm.NormalizePair("okex", inst.InstrumentID)
			if err != nil {
				continue
			}
			val, err := strconv.ParseFloat(inst.ContractVal, 64)
			if err != nil {
				continue
			}
			table[string(pair)] = val
			loaded++
		}
		metrics.InstrumentsLoaded.WithLabelValues("okex").Add(float64(loaded))
	}
	fetchOne("futures", okexLinearFutureValues)
	fetchOne("swap", okexLinearSwapValues)
}

// refreshKucoinContractValues hits the active-contracts endpoint,
// keeping only linear (!isInverse) markets.
func refreshKucoinContractValues(ctx context.Context) {
	type contract struct {
		Symbol     string  `json:"symbol"`
		Multiplier float64 `json:"multiplier"`
		IsInverse  bool    `json:"isInverse"`
	}
	type response struct {
		Data []contract `json:"data"`
	}
	timer := metrics.NewTimer()
	var resp response
	if err := getJSON(ctx, "https://api-futures.kucoin.com/api/v1/contracts/active", &resp); err != nil {
		metrics.RestFetchErrors.WithLabelValues("kucoin", "contracts/active").Inc()
		log.Debug().Err(err).Msg("reftable: kucoin contract-value refresh failed")
		return
	}
	timer.ObserveDuration(metrics.RestFetchDuration, "kucoin", "contracts/active")
	loaded := 0
	for _, c := range resp.Data {
		if c.IsInverse {
			continue
		}
		pair, err := pairnorm.NormalizePair("kucoin", c.Symbol)
		if err != nil {
			continue
		}
		kucoinLinearSwapValues[string(pair)] = c.Multiplier
		loaded++
	}
	metrics.InstrumentsLoaded.WithLabelValues("kucoin").Set(float64(loaded))
}

// refreshGateContractValues hits the three gate contract-listing
// endpoints; a quanto_multiplier of 0 is replaced with 1.0, the same
// gate convention mergeContractValue applies elsewhere.
func refreshGateContractValues(ctx context.Context) {
	type rawMarket struct {
		Name             string `json:"name"`
		QuantoMultiplier string `json:"quanto_multiplier"`
	}
	fetchOne := func(url string, table map[string]float64) {
		timer := metrics.NewTimer()
		var markets []rawMarket
		if err := getJSON(ctx, url, &markets); err != nil {
			metrics.RestFetchErrors.WithLabelValues("gate", url).Inc()
			log.Debug().Err(err).Str("url", url).Msg("reftable: gate contract-value refresh failed")
			return
		}
		timer.ObserveDuration(metrics.RestFetchDuration, "gate", url)
		loaded := 0
		for _, m := range markets {
			val, err := strconv.ParseFloat(m.QuantoMultiplier, 64)
			if err != nil {
				continue
			}
			pair, err := pairnorm.NormalizePair("gate", m.Name)
			if err != nil {
				continue
			}
			mergeContractValue(table, string(pair), val)
			loaded++
		}
		metrics.InstrumentsLoaded.WithLabelValues("gate").Add(float64(loaded))
	}
	fetchOne("https://api.gateio.ws/api/v4/futures/btc/contracts", gateInverseSwapValues)
	fetchOne("https://api.gateio.ws/api/v4/futures/usdt/contracts", gateLinearSwapValues)
	fetchOne("https://api.gateio.ws/api/v4/delivery/usdt/contracts", gateLinearFutureValues)
}
