package model

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

type CoinType string

const (
	CoinTypeUTXO CoinType = "utxo"
	CoinTypeVTXO CoinType = "vtxo"
)

// Coin is a spendable output, on-chain (boarding) or off-chain.
type Coin struct {
	TxID      string    `json:"txid"`
	Vout      uint32    `json:"vout"`
	Value     int64     `json:"value"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Outpoint renders the coin as "txid:vout".
func (c Coin) Outpoint() string {
	hash, err := chainhash.NewHashFromStr(c.TxID)
	if err != nil {
		return fmt.Sprintf("%s:%d", c.TxID, c.Vout)
	}
	return wire.NewOutPoint(hash, c.Vout).String()
}

// IncomingFunds is one notification from the wallet funds stream.
type IncomingFunds struct {
	Type  CoinType `json:"type"`
	Coins []Coin   `json:"coins"`
}

type IncomingFundsWaitResult struct {
	Type   CoinType `json:"type"`
	Amount int64    `json:"amount"`
	// IDs are "txid:vout" outpoints.
	IDs []string `json:"ids"`
}

type Balance struct {
	Onchain OnchainBalance `json:"onchain"`
	// Offchain is the settled plus preconfirmed VTXO total, in sats.
	Offchain int64 `json:"offchain"`
	Total    int64 `json:"total"`
}

type OnchainBalance struct {
	Confirmed   int64 `json:"confirmed"`
	Unconfirmed int64 `json:"unconfirmed"`
}

type VtxoFilter struct {
	WithRecoverable bool
	WithSpent       bool
}
