package model

import (
	"strings"

	"github.com/dwarvesf/arkswap/internal/consts"
)

// TokenRef is a swappable asset as the swap service knows it. It is never
// mutated once cached.
type TokenRef struct {
	// ID is the canonical key, symbol plus chain suffix, e.g. "usdc_pol".
	ID           string `json:"token_id"`
	Symbol       string `json:"symbol"`
	Chain        string `json:"chain"`
	ChainID      int64  `json:"chain_id"`
	Decimals     int    `json:"decimals"`
	TokenAddress string `json:"token_address"`
}

func (t TokenRef) IsBTC() bool {
	return strings.EqualFold(t.TokenAddress, consts.TokenBTC)
}
