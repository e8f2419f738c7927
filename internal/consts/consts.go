package consts

import "time"

const (
	BTC_DECIMALS = 8
	SatsPerBTC   = 100_000_000

	// QuoteValidity is how long a quote may be used before it must be re-fetched.
	QuoteValidity = 60 * time.Second

	// ChainArkade is the off-chain settlement layer BTC lives on for swaps.
	ChainArkade = "arkade"
	// TokenBTC is the token id of BTC on arkade; it doubles as its token address.
	TokenBTC = "btc"
)
