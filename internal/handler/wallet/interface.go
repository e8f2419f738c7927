package wallet

import (
	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/arkswap/internal/model"
)

type IHandler interface {
	// WaitForFunds blocks until the wallet sees incoming funds or the wait times out.
	WaitForFunds(c *gin.Context)
	GetBalance(c *gin.Context)
	GetAddresses(c *gin.Context)
	// GetCoins lists boarding UTXOs or VTXOs with pagination.
	GetCoins(c *gin.Context)
}

type WaitForFundsRequest struct {
	// TimeoutSeconds of zero uses the configured default.
	TimeoutSeconds int `form:"timeout_seconds" json:"timeout_seconds" validate:"gte=0,lte=3600"`
}

type GetCoinsRequest struct {
	Type            string `form:"type" json:"type" validate:"omitempty,oneof=utxo vtxo"`
	WithSpent       bool   `form:"with_spent" json:"with_spent"`
	WithRecoverable bool   `form:"with_recoverable" json:"with_recoverable"`
	Limit           int    `form:"limit" json:"limit"`
	Offset          int    `form:"offset" json:"offset"`
}

type GetCoinsResponse struct {
	Total int          `json:"total"`
	Coins []model.Coin `json:"coins"`
}

type AddressesResponse struct {
	Ark      string `json:"ark"`
	Boarding string `json:"boarding"`
}
