package reftable

// Compiled-in contract-value snapshots (base-units-per-contract for
// linear instruments), grounded on the offline fallback tables in
// the original crypto-contract-value exchange modules. Merged at
// Load() with a best-effort HTTP refresh against each exchange's
// instrument-listing endpoint; see refresh.go.

var okexLinearSwapValues = map[string]float64{
	"1INCH/USDT": 1,
	"AAVE/USDT": 0.1,
	"ADA/USDT": 100,
	"AGLD/USDT": 1,
	"ALGO/USDT": 10,
	"ALPHA/USDT": 1,
	"ANC/USDT": 1,
	"ANT/USDT": 1,
	"ATOM/USDT": 1,
	"AVAX/USDT": 1,
	"AXS/USDT": 0.1,
	"BADGER/USDT": 0.1,
	"BAL/USDT": 0.1,
	"BAND/USDT": 1,
	"BAT/USDT": 10,
	"BCH/USDT": 0.1,
	"BNT/USDT": 10,
	"BSV/USDT": 1,
	"BTC/USDT": 0.01,
	"BTM/USDT": 100,
	"BTT/USDT": 10000,
	"BZZ/USDT": 0.1,
	"CELO/USDT": 1,
	"CFX/USDT": 10,
	"CHZ/USDT": 10,
	"COMP/USDT": 0.1,
	"CONV/USDT": 10,
	"CQT/USDT": 1,
	"CRO/USDT": 10,
	"CRV/USDT": 1,
	"CSPR/USDT": 1,
	"CVC/USDT": 100,
	"DASH/USDT": 0.1,
	"DOGE/USDT": 1000,
	"DORA/USDT": 0.1,
	"DOT/USDT": 1,
	"DYDX/USDT": 1,
	"EFI/USDT": 1,
	"EGLD/USDT": 0.1,
	"ENJ/USDT": 1,
	"EOS/USDT": 10,
	"ETC/USDT": 10,
	"ETH/USDT": 0.1,
	"FIL/USDT": 0.1,
	"FLM/USDT": 10,
	"FTM/USDT": 10,
	"GALA/USDT": 10,
	"GRT/USDT": 10,
	"ICP/USDT": 0.01,
	"IOST/USDT": 1000,
	"IOTA/USDT": 10,
	"JST/USDT": 100,
	"KNC/USDT": 1,
	"KSM/USDT": 0.1,
	"LAT/USDT": 10,
	"LINK/USDT": 1,
	"LON/USDT": 1,
	"LPT/USDT": 0.1,
	"LRC/USDT": 10,
	"LTC/USDT": 1,
	"LUNA/USDT": 0.1,
	"MANA/USDT": 10,
	"MASK/USDT": 1,
	"MATIC/USDT": 10,
	"MINA/USDT": 1,
	"MIR/USDT": 1,
	"MKR/USDT": 0.01,
	"NEAR/USDT": 10,
	"NEO/USDT": 1,
	"OMG/USDT": 1,
	"ONT/USDT": 10,
	"PERP/USDT": 1,
	"QTUM/USDT": 1,
	"REN/USDT": 10,
	"RSR/USDT": 100,
	"RVN/USDT": 10,
	"SAND/USDT": 10,
	"SC/USDT": 100,
	"SHIB/USDT": 1000000,
	"SLP/USDT": 10,
	"SNX/USDT": 1,
	"SOL/USDT": 1,
	"SRM/USDT": 1,
	"STORJ/USDT": 10,
	"SUN/USDT": 0.1,
	"SUSHI/USDT": 1,
	"SWRV/USDT": 1,
	"THETA/USDT": 10,
	"TORN/USDT": 0.01,
	"TRB/USDT": 0.1,
	"TRX/USDT": 1000,
	"UMA/USDT": 0.1,
	"UNI/USDT": 1,
	"WAVES/USDT": 1,
	"WNCG/USDT": 1,
	"WNXM/USDT": 0.1,
	"XCH/USDT": 0.01,
	"XEM/USDT": 10,
	"XLM/USDT": 100,
	"XMR/USDT": 0.1,
	"XRP/USDT": 100,
	"XTZ/USDT": 1,
	"YFI/USDT": 0.0001,
	"YFII/USDT": 0.001,
	"YGG/USDT": 1,
	"ZEC/USDT": 0.1,
	"ZEN/USDT": 1,
	"ZIL/USDT": 100,
	"ZRX/USDT": 10,
}

var okexLinearFutureValues = map[string]float64{
	"ADA/USDT": 100,
	"BCH/USDT": 0.1,
	"BSV/USDT": 1,
	"BTC/USDT": 0.01,
	"DOT/USDT": 1,
	"EOS/USDT": 10,
	"ETC/USDT": 10,
	"ETH/USDT": 0.1,
	"FIL/USDT": 0.1,
	"LINK/USDT": 1,
	"LTC/USDT": 1,
	"TRX/USDT": 1000,
	"XRP/USDT": 100,
}

// okexOptionValues holds per-underlying multipliers for OKEx options
// (BTC 0.1, ETH 1, EOS 100), per
// https://www.okex.com/docs/en/#option-option---instrument.
var okexOptionValues = map[string]float64{
	"BTC/USD": 0.1,
	"ETH/USD": 1.0,
	"EOS/USD": 100.0,
}

var kucoinLinearSwapValues = map[string]float64{
	"1INCH/USDT": 1,
	"AAVE/USDT": 0.01,
	"ADA/USDT": 10,
	"ALGO/USDT": 1,
	"ALICE/USDT": 0.1,
	"ATOM/USDT": 0.1,
	"AVAX/USDT": 0.1,
	"AXS/USDT": 0.1,
	"BAND/USDT": 0.1,
	"BAT/USDT": 1,
	"BCH/USDT": 0.01,
	"BNB/USDT": 0.01,
	"BSV/USDT": 0.01,
	"BTC/USDT": 0.001,
	"BTT/USDT": 1000,
	"C98/USDT": 1,
	"CHZ/USDT": 1,
	"COMP/USDT": 0.01,
	"CRV/USDT": 1,
	"DASH/USDT": 0.01,
	"DENT/USDT": 100,
	"DGB/USDT": 10,
	"DOGE/USDT": 100,
	"DOT/USDT": 1,
	"DYDX/USDT": 0.1,
	"EGLD/USDT": 0.01,
	"ENJ/USDT": 1,
	"EOS/USDT": 1,
	"ETC/USDT": 0.1,
	"ETH/USDT": 0.01,
	"FIL/USDT": 0.1,
	"FTM/USDT": 1,
	"GRT/USDT": 1,
	"HBAR/USDT": 10,
	"ICP/USDT": 0.01,
	"IOST/USDT": 100,
	"KSM/USDT": 0.01,
	"LINK/USDT": 0.1,
	"LTC/USDT": 0.1,
	"LUNA/USDT": 1,
	"MANA/USDT": 1,
	"MATIC/USDT": 10,
	"MIR/USDT": 0.1,
	"MKR/USDT": 0.001,
	"NEAR/USDT": 0.1,
	"NEO/USDT": 0.1,
	"OCEAN/USDT": 1,
	"ONE/USDT": 10,
	"ONT/USDT": 1,
	"QTUM/USDT": 0.1,
	"RVN/USDT": 10,
	"SAND/USDT": 1,
	"SHIB/USDT": 100000,
	"SNX/USDT": 0.1,
	"SOL/USDT": 0.1,
	"SUSHI/USDT": 1,
	"SXP/USDT": 1,
	"THETA/USDT": 0.1,
	"TRX/USDT": 100,
	"UNI/USDT": 1,
	"VET/USDT": 100,
	"WAVES/USDT": 0.1,
	"XEM/USDT": 1,
	"XLM/USDT": 10,
	"XMR/USDT": 0.01,
	"XRP/USDT": 10,
	"XTZ/USDT": 1,
	"YFI/USDT": 0.0001,
	"YGG/USDT": 0.1,
	"ZEC/USDT": 0.01,
}

var gateInverseSwapValues = map[string]float64{
	"ADA/USD": 0.01,
	"BCH/USD": 0.000001,
	"BNB/USD": 0.0000001,
	"BSV/USD": 0.000001,
	"BTC/USD": 1,
	"BTM/USD": 0.001,
	"BTT/USD": 0.1,
	"DASH/USD": 0.000001,
	"EOS/USD": 0.0001,
	"ETC/USD": 0.0001,
	"ETH/USD": 0.000001,
	"HT/USD": 0.0001,
	"LTC/USD": 0.00001,
	"MDA/USD": 0.0001,
	"NEO/USD": 0.00001,
	"ONT/USD": 0.001,
	"TRX/USD": 0.01,
	"WAVES/USD": 0.0001,
	"XLM/USD": 0.001,
	"XMR/USD": 0.00001,
	"XRP/USD": 0.001,
	"ZEC/USD": 0.000001,
	"ZRX/USD": 0.001,
}

var gateLinearSwapValues = map[string]float64{
	"1INCH/USDT": 1,
	"AAVE/USDT": 0.01,
	"ACH/USDT": 11,
	"ADA/USDT": 10,
	"ALGO/USDT": 10,
	"ALICE/USDT": 0.1,
	"ALPHA/USDT": 1,
	"ALT/USDT": 0.001,
	"AMPL/USDT": 1,
	"ANC/USDT": 1,
	"ANKR/USDT": 10,
	"ANT/USDT": 0.1,
	"AR/USDT": 0.1,
	"ARPA/USDT": 10,
	"ATOM/USDT": 1,
	"AVAX/USDT": 1,
	"AXS/USDT": 0.1,
	"BADGER/USDT": 0.1,
	"BAKE/USDT": 0.1,
	"BAND/USDT": 0.1,
	"BAT/USDT": 10,
	"BCD/USDT": 0.1,
	"BCH/USDT": 0.01,
	"BCHA/USDT": 0.1,
	"BEAM/USDT": 10,
	"BIT/USDT": 1,
	"BNB/USDT": 0.001,
	"BNT/USDT": 1,
	"BSV/USDT": 0.01,
	"BTC/USDT": 0.0001,
	"BTM/USDT": 10,
	"BTS/USDT": 100,
	"BZZ/USDT": 0.1,
	"C98/USDT": 1,
	"CAKE/USDT": 0.1,
	"CELR/USDT": 10,
	"CFX/USDT": 10,
	"CHR/USDT": 10,
	"CHZ/USDT": 100,
	"CKB/USDT": 100,
	"CLV/USDT": 1,
	"COMP/USDT": 0.01,
	"CONV/USDT": 10,
	"COTI/USDT": 1,
	"CRU/USDT": 0.01,
	"CRV/USDT": 0.1,
	"CSPR/USDT": 10,
	"CTSI/USDT": 1,
	"CVC/USDT": 10,
	"DASH/USDT": 0.01,
	"DEFI/USDT": 0.001,
	"DEGO/USDT": 0.1,
	"DOGE/USDT": 10,
	"DOT/USDT": 1,
	"DYDX/USDT": 0.1,
	"EGLD/USDT": 0.1,
	"EOS/USDT": 1,
	"ETC/USDT": 0.1,
	"ETH/USDT": 0.01,
	"EXCH/USDT": 0.001,
	"FIL/USDT": 0.01,
	"FIL6/USDT": 0.1,
	"FLOW/USDT": 0.1,
	"FRONT/USDT": 1,
	"FTM/USDT": 1,
	"FTT/USDT": 0.01,
	"GALA/USDT": 10,
	"GITCOIN/USDT": 0.1,
	"GRIN/USDT": 10,
	"GRT/USDT": 10,
	"HBAR/USDT": 10,
	"HIVE/USDT": 1,
	"HT/USDT": 1,
	"ICP/USDT": 0.001,
	"IOST/USDT": 10,
	"IOTX/USDT": 10,
	"IRIS/USDT": 10,
	"JST/USDT": 100,
	"KAVA/USDT": 1,
	"KEEP/USDT": 1,
	"KSM/USDT": 0.1,
	"LINA/USDT": 10,
	"LINK/USDT": 1,
	"LIT/USDT": 1,
	"LON/USDT": 1,
	"LPT/USDT": 0.1,
	"LRC/USDT": 1,
	"LTC/USDT": 0.1,
	"LUNA/USDT": 1,
	"MASK/USDT": 0.1,
	"MATIC/USDT": 10,
	"MINA/USDT": 0.1,
	"MKR/USDT": 0.001,
	"MOVR/USDT": 0.01,
	"MTL/USDT": 0.1,
	"NEAR/USDT": 1,
	"NEST/USDT": 10,
	"NFT/USDT": 100000,
	"NKN/USDT": 1,
	"NU/USDT": 1,
	"OGN/USDT": 1,
	"OKB/USDT": 0.1,
	"OMG/USDT": 1,
	"ONE/USDT": 10,
	"ONT/USDT": 1,
	"OXY/USDT": 1,
	"PEARL/USDT": 0.001,
	"PERP/USDT": 0.1,
	"POLS/USDT": 1,
	"POLY/USDT": 1,
	"POND/USDT": 10,
	"PRIV/USDT": 0.001,
	"QTUM/USDT": 1,
	"RAD/USDT": 0.1,
	"RAY/USDT": 0.1,
	"REEF/USDT": 100,
	"RNDR/USDT": 1,
	"ROSE/USDT": 100,
	"RUNE/USDT": 0.1,
	"RVN/USDT": 10,
	"SAND/USDT": 1,
	"SERO/USDT": 10,
	"SHIB/USDT": 10000,
	"SKL/USDT": 10,
	"SLP/USDT": 1,
	"SNX/USDT": 0.1,
	"SOL/USDT": 1,
	"SRM/USDT": 1,
	"STORJ/USDT": 1,
	"SUN/USDT": 0.1,
	"SUPER/USDT": 1,
	"SUSHI/USDT": 1,
	"SXP/USDT": 1,
	"TFUEL/USDT": 10,
	"THETA/USDT": 1,
	"TLM/USDT": 1,
	"TRIBE/USDT": 1,
	"TRU/USDT": 10,
	"TRX/USDT": 100,
	"UNI/USDT": 1,
	"VET/USDT": 100,
	"WAVES/USDT": 1,
	"WAXP/USDT": 1,
	"WSB/USDT": 0.001,
	"XAUG/USDT": 0.001,
	"XCH/USDT": 0.001,
	"XEC/USDT": 10000,
	"XEM/USDT": 1,
	"XLM/USDT": 10,
	"XMR/USDT": 0.01,
	"XRP/USDT": 10,
	"XTZ/USDT": 1,
	"XVS/USDT": 0.01,
	"YFI/USDT": 0.0001,
	"YFII/USDT": 0.001,
	"YGG/USDT": 1,
	"ZEC/USDT": 0.01,
	"ZEN/USDT": 0.1,
	"ZIL/USDT": 10,
	"ZKS/USDT": 1,
}

var gateLinearFutureValues = map[string]float64{
	"BTC/USDT": 0.0001,
	"ETH/USDT": 0.01,
}
