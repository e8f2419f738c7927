package model

import (
	"encoding/json"
	"time"
)

type SwapDirection string

const (
	DirectionBtcToStablecoin SwapDirection = "btc_to_stablecoin"
	DirectionStablecoinToBtc SwapDirection = "stablecoin_to_btc"
)

func (d SwapDirection) Valid() bool {
	return d == DirectionBtcToStablecoin || d == DirectionStablecoinToBtc
}

// SwapStatus is the normalized lifecycle state of a swap.
type SwapStatus string

const (
	SwapStatusPending    SwapStatus = "pending"
	SwapStatusFunded     SwapStatus = "funded"
	SwapStatusProcessing SwapStatus = "processing"
	SwapStatusCompleted  SwapStatus = "completed"
	SwapStatusExpired    SwapStatus = "expired"
	SwapStatusRefunded   SwapStatus = "refunded"
	SwapStatusFailed     SwapStatus = "failed"
)

// PaymentDetails says how the source side of a swap gets funded.
type PaymentDetails struct {
	// FundingAddress is the VHTLC address for btc_to_stablecoin swaps.
	FundingAddress string `json:"funding_address,omitempty"`
	// HTLCAddress is the EVM HTLC contract for stablecoin_to_btc swaps.
	HTLCAddress string `json:"htlc_address,omitempty"`
	CallData    string `json:"call_data,omitempty"`
	// Invoice is set when the remote side accepts Lightning funding.
	Invoice string `json:"invoice,omitempty"`
}

// Swap is the local projection of a remote swap. The swap service is the source
// of truth; rows here are refreshed by re-fetching and may be stale.
type Swap struct {
	ID             uint          `json:"-" gorm:"primaryKey"`
	SwapID         string        `json:"swap_id" gorm:"column:swap_id;type:varchar(128);not null;uniqueIndex"`
	Direction      SwapDirection `json:"direction" gorm:"column:direction;type:varchar(32);not null"`
	Status         SwapStatus    `json:"status" gorm:"column:status;type:varchar(32);not null;index"`
	RemoteStatus   string        `json:"remote_status" gorm:"column:remote_status;type:varchar(64)"`
	SourceToken    string        `json:"source_token" gorm:"column:source_token;type:varchar(64)"`
	TargetToken    string        `json:"target_token" gorm:"column:target_token;type:varchar(64)"`
	SourceAmount   float64       `json:"source_amount" gorm:"column:source_amount"`
	TargetAmount   float64       `json:"target_amount" gorm:"column:target_amount"`
	ExchangeRate   float64       `json:"exchange_rate" gorm:"column:exchange_rate"`
	FeeAmount      int64         `json:"fee_amount" gorm:"column:fee_amount"`
	FeePercentage  float64       `json:"fee_percentage" gorm:"column:fee_percentage"`
	ExpiresAt      time.Time     `json:"expires_at" gorm:"column:expires_at"`
	PaymentDetails string        `json:"payment_details" gorm:"column:payment_details;type:text"`
	SourceIsWallet bool          `json:"source_is_wallet" gorm:"column:source_is_wallet"`
	RefundAddress  string        `json:"refund_address,omitempty" gorm:"column:refund_address;type:varchar(128)"`
	TxID           string        `json:"txid,omitempty" gorm:"column:txid;type:varchar(128)"`
	CreatedAt      time.Time     `json:"created_at" gorm:"column:created_at;index"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"column:updated_at"`
	// CompletedAt is when completion was first observed locally, not when the
	// swap service completed it.
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`
}

func (Swap) TableName() string {
	return "swaps"
}

func (s *Swap) Details() PaymentDetails {
	var details PaymentDetails
	if s.PaymentDetails == "" {
		return details
	}
	_ = json.Unmarshal([]byte(s.PaymentDetails), &details)
	return details
}

func (s *Swap) SetDetails(details PaymentDetails) {
	raw, err := json.Marshal(details)
	if err != nil {
		return
	}
	s.PaymentDetails = string(raw)
}
