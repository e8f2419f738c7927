package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/arkswap/internal/handler"
	"github.com/dwarvesf/arkswap/internal/utils/config"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
)

func loadV1Routes(r *gin.Engine, h *handler.Handler, appConfig *config.AppConfig, logger *logger.Logger) {
	v1 := r.Group("/api/v1")

	v1.GET("/quotes", h.QuoteHandler.GetQuote)
	v1.GET("/tokens", h.QuoteHandler.ListTokens)

	swaps := v1.Group("/swaps")
	{
		swaps.POST("/btc-to-stablecoin", h.SwapHandler.CreateBtcToStablecoin)
		swaps.POST("/stablecoin-to-btc", h.SwapHandler.CreateStablecoinToBtc)
		swaps.POST("/sync", h.SwapHandler.Sync)
		swaps.GET("/pending", h.SwapHandler.ListPending)
		swaps.GET("/history", h.SwapHandler.ListHistory)
		swaps.GET("/statuses", h.SwapHandler.Statuses)
		swaps.GET("/:id", h.SwapHandler.GetStatus)
		swaps.POST("/:id/claim", h.SwapHandler.Claim)
		swaps.POST("/:id/refund", h.SwapHandler.Refund)
		swaps.GET("/:id/funding-calldata", h.SwapHandler.FundingCallData)
		swaps.GET("/:id/refund-calldata", h.SwapHandler.RefundCallData)
	}

	v1.GET("/funds/wait", h.WalletHandler.WaitForFunds)

	wallet := v1.Group("/wallet")
	{
		wallet.GET("/balance", h.WalletHandler.GetBalance)
		wallet.GET("/addresses", h.WalletHandler.GetAddresses)
		wallet.GET("/coins", h.WalletHandler.GetCoins)
	}

	health := v1.Group("/health")
	{
		health.GET("/db", h.HealthHandler.Database)
		health.GET("/external", h.HealthHandler.External)
		health.GET("/jobs", h.HealthHandler.Jobs)
		health.GET("/ready", h.HealthHandler.Ready)
	}

	r.GET("/healthz", h.HealthHandler.Basic)
}
