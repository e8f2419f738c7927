package controller

import "github.com/dwarvesf/arkswap/internal/model"

type QuoteParams struct {
	Direction model.SwapDirection
	// Amount is sats for btc_to_stablecoin and token units otherwise.
	Amount float64
	Token  string
	Chain  string
}

type BtcToStablecoinParams struct {
	TargetToken   string
	TargetChain   string
	TargetAddress string
	// One of SourceAmountSats or TargetAmount is required.
	SourceAmountSats int64
	TargetAmount     float64
	ReferralCode     string
}

type StablecoinToBtcParams struct {
	SourceToken  string
	SourceChain  string
	SourceAmount float64
	UserAddress  string
	// DestinationAddress defaults to the wallet's Ark address.
	DestinationAddress string
	ReferralCode       string
}

type SyncResult struct {
	Fetched     int `json:"fetched"`
	Upserted    int `json:"upserted"`
	Transitions int `json:"transitions"`
}
