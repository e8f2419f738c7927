package model

// StablecoinSwapResult is returned when a swap is created.
type StablecoinSwapResult struct {
	Swap *Swap `json:"swap"`
	// FundingTxID is the wallet payment that funded a btc_to_stablecoin swap.
	FundingTxID string `json:"funding_txid,omitempty"`
}

// StablecoinSwapInfo is a swap as reported to callers.
type StablecoinSwapInfo = Swap

type ClaimResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Chain   string `json:"chain,omitempty"`
	TxHash  string `json:"tx_hash,omitempty"`
}

type RefundResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	TxID    string `json:"txid,omitempty"`
	// NotApplicable is set for stablecoin_to_btc swaps, whose refund happens on
	// the EVM side through EvmRefundCallData.
	NotApplicable bool `json:"not_applicable,omitempty"`
}

// EvmCallData is a ready-to-sign contract call prepared by the swap service.
type EvmCallData struct {
	To      string `json:"to"`
	Data    string `json:"data"`
	Value   string `json:"value,omitempty"`
	ChainID int64  `json:"chain_id,omitempty"`
}
