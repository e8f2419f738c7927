package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/dwarvesf/arkswap/internal/blockstream"
	"github.com/dwarvesf/arkswap/internal/controller"
	"github.com/dwarvesf/arkswap/internal/funding"
	"github.com/dwarvesf/arkswap/internal/handler/health"
	"github.com/dwarvesf/arkswap/internal/handler/metrics"
	"github.com/dwarvesf/arkswap/internal/handler/quote"
	"github.com/dwarvesf/arkswap/internal/handler/swap"
	wallethandler "github.com/dwarvesf/arkswap/internal/handler/wallet"
	"github.com/dwarvesf/arkswap/internal/monitoring"
	"github.com/dwarvesf/arkswap/internal/swapapi"
	"github.com/dwarvesf/arkswap/internal/utils/config"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
	"github.com/dwarvesf/arkswap/internal/wallet"
)

type Handler struct {
	SwapHandler    swap.IHandler
	QuoteHandler   quote.IHandler
	WalletHandler  wallethandler.IHandler
	HealthHandler  health.IHealthHandler
	MetricsHandler *metrics.MetricsHandler
}

// Deps are the collaborators the HTTP layer reaches into. SwapAPI and Explorer
// are only used by the health checks.
type Deps struct {
	Controller       controller.IController
	Wallet           wallet.IWallet
	Waiter           funding.IWaiter
	SwapAPI          swapapi.ISwapAPI
	Explorer         blockstream.IBlockStream
	DB               *gorm.DB
	Gatherer         prometheus.Gatherer
	JobStatusManager *monitoring.JobStatusManager
	MetricsRecorder  *monitoring.BusinessMetricsRecorder
}

func New(appConfig *config.AppConfig, logger *logger.Logger, deps Deps) *Handler {
	return &Handler{
		SwapHandler:    swap.New(deps.Controller, logger, deps.MetricsRecorder),
		QuoteHandler:   quote.New(deps.Controller, logger, deps.MetricsRecorder),
		WalletHandler:  wallethandler.New(deps.Wallet, deps.Waiter, appConfig, logger, deps.MetricsRecorder),
		HealthHandler:  health.New(appConfig, logger, deps.DB, deps.SwapAPI, deps.Explorer, deps.Wallet, deps.JobStatusManager),
		MetricsHandler: metrics.NewMetricsHandler(deps.Gatherer),
	}
}
