package swapapi

import "time"

type TokenInfo struct {
	TokenID      string `json:"token_id"`
	Symbol       string `json:"symbol"`
	Chain        string `json:"chain"`
	ChainID      int64  `json:"chain_id"`
	Decimals     int    `json:"decimals"`
	TokenAddress string `json:"token_address"`
}

// QuoteRequest asks for the price of moving Amount of From into To. Amount is
// sats when From is BTC and token units otherwise.
type QuoteRequest struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type QuoteResponse struct {
	// ExchangeRate is stablecoin units per BTC.
	ExchangeRate    float64 `json:"exchange_rate"`
	ProtocolFee     int64   `json:"protocol_fee"`
	NetworkFee      int64   `json:"network_fee"`
	ProtocolFeeRate float64 `json:"protocol_fee_rate"`
	MinAmount       int64   `json:"min_amount,omitempty"`
	MaxAmount       int64   `json:"max_amount,omitempty"`
}

// ArkadeToEvmRequest creates a btc_to_stablecoin swap. One of SourceAmount or
// TargetAmount is expected by the service.
type ArkadeToEvmRequest struct {
	TargetAddress string   `json:"target_address"`
	TargetToken   string   `json:"target_token"`
	SourceAmount  *int64   `json:"source_amount,omitempty"`
	TargetAmount  *float64 `json:"target_amount,omitempty"`
	ReferralCode  string   `json:"referral_code,omitempty"`
}

type EvmToArkadeRequest struct {
	SourceToken   string  `json:"source_token"`
	SourceAmount  float64 `json:"source_amount"`
	UserAddress   string  `json:"user_address"`
	TargetAddress string  `json:"target_address"`
	ReferralCode  string  `json:"referral_code,omitempty"`
}

// SwapResponse is a swap in the service's own vocabulary. BTC amounts are sats,
// stablecoin amounts are token units.
type SwapResponse struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	Direction    string  `json:"direction"`
	SourceToken  string  `json:"source_token"`
	TargetToken  string  `json:"target_token"`
	SourceAmount float64 `json:"source_amount"`
	TargetAmount float64 `json:"target_amount"`
	FeeSats      int64   `json:"fee_sats"`

	VhtlcAddress string `json:"vhtlc_address,omitempty"`
	HTLCAddress  string `json:"htlc_address_evm,omitempty"`
	Invoice      string `json:"ln_invoice,omitempty"`

	RefundLocktime int64     `json:"refund_locktime"`
	TxID           string    `json:"txid,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type ClaimResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Chain   string `json:"chain"`
	TxHash  string `json:"tx_hash"`
}

type RefundRequest struct {
	DestinationAddress string `json:"destination_address"`
}

type RefundResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	TxID    string `json:"txid"`
}

type CallDataResponse struct {
	To      string `json:"to"`
	Data    string `json:"data"`
	Value   string `json:"value,omitempty"`
	ChainID int64  `json:"chain_id,omitempty"`
}

type VersionResponse struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
