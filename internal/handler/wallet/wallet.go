package wallet

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/arkswap/internal/funding"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/monitoring"
	"github.com/dwarvesf/arkswap/internal/utils/config"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
	"github.com/dwarvesf/arkswap/internal/view"
	"github.com/dwarvesf/arkswap/internal/wallet"
)

type walletHandler struct {
	wallet          wallet.IWallet
	waiter          funding.IWaiter
	appConfig       *config.AppConfig
	logger          *logger.Logger
	metricsRecorder *monitoring.BusinessMetricsRecorder
}

func New(
	w wallet.IWallet,
	waiter funding.IWaiter,
	appConfig *config.AppConfig,
	logger *logger.Logger,
	metricsRecorder *monitoring.BusinessMetricsRecorder,
) IHandler {
	return &walletHandler{
		wallet:          w,
		waiter:          waiter,
		appConfig:       appConfig,
		logger:          logger,
		metricsRecorder: metricsRecorder,
	}
}

// WaitForFunds godoc
// @Summary Wait for incoming funds
// @Description Blocks until the wallet receives a UTXO or VTXO, or the timeout elapses
// @id waitForFunds
// @Tags Wallet
// @Produce json
// @Param timeout_seconds query int false "Wait timeout in seconds"
// @Success 200 {object} model.IncomingFundsWaitResult
// @Failure 504 {object} view.ErrorResponse
// @Router /funds/wait [get]
func (h *walletHandler) WaitForFunds(c *gin.Context) {
	var req WaitForFundsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}
	if err := view.Validate(req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	timeout := h.appConfig.Funding.WaitTimeout
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}

	start := time.Now()
	result, err := h.waiter.WaitForIncomingFunds(c.Request.Context(), timeout)
	if h.metricsRecorder != nil {
		h.metricsRecorder.RecordFundsWait(err, time.Since(start).Seconds())
	}
	if err != nil {
		h.logger.Warn("[WaitForFunds][WaitForIncomingFunds]", map[string]string{
			"timeout": timeout.String(),
			"error":   err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, req, "no incoming funds"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](result, nil, nil, ""))
}

// GetBalance godoc
// @Summary Wallet balance
// @id getWalletBalance
// @Tags Wallet
// @Produce json
// @Success 200 {object} model.Balance
// @Failure 502 {object} view.ErrorResponse
// @Router /wallet/balance [get]
func (h *walletHandler) GetBalance(c *gin.Context) {
	balance, err := h.wallet.GetBalance(c.Request.Context())
	if err != nil {
		h.logger.Error("[GetBalance][GetBalance]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, nil, "can't get wallet balance"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](balance, nil, nil, ""))
}

// GetAddresses godoc
// @Summary Wallet addresses
// @Description Returns the off-chain Ark address and the on-chain boarding address
// @id getWalletAddresses
// @Tags Wallet
// @Produce json
// @Success 200 {object} AddressesResponse
// @Failure 502 {object} view.ErrorResponse
// @Router /wallet/addresses [get]
func (h *walletHandler) GetAddresses(c *gin.Context) {
	ctx := c.Request.Context()
	ark, err := h.wallet.GetAddress(ctx)
	if err != nil {
		h.logger.Error("[GetAddresses][GetAddress]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, nil, "can't get wallet address"))
		return
	}
	boarding, err := h.wallet.GetBoardingAddress(ctx)
	if err != nil {
		h.logger.Error("[GetAddresses][GetBoardingAddress]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, nil, "can't get boarding address"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](AddressesResponse{Ark: ark, Boarding: boarding}, nil, nil, ""))
}

// GetCoins godoc
// @Summary Wallet coins
// @Description Lists VTXOs (default) or boarding UTXOs
// @id getWalletCoins
// @Tags Wallet
// @Produce json
// @Param type query string false "vtxo or utxo"
// @Param with_spent query bool false "Include spent VTXOs"
// @Param with_recoverable query bool false "Include recoverable VTXOs"
// @Param limit query int false "Page size, default 20, max 100"
// @Param offset query int false "Page offset"
// @Success 200 {object} GetCoinsResponse
// @Failure 400 {object} view.ErrorResponse
// @Router /wallet/coins [get]
func (h *walletHandler) GetCoins(c *gin.Context) {
	var req GetCoinsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}
	if err := view.Validate(req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	var (
		coins []model.Coin
		err   error
	)
	ctx := c.Request.Context()
	if req.Type == string(model.CoinTypeUTXO) {
		coins, err = h.wallet.GetBoardingUtxos(ctx)
	} else {
		coins, err = h.wallet.GetVtxos(ctx, model.VtxoFilter{
			WithSpent:       req.WithSpent,
			WithRecoverable: req.WithRecoverable,
		})
	}
	if err != nil {
		h.logger.Error("[GetCoins][ListCoins]", map[string]string{
			"type":  req.Type,
			"error": err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, req, "can't list coins"))
		return
	}

	total := len(coins)
	from := min(req.Offset, total)
	to := min(from+req.Limit, total)

	c.JSON(http.StatusOK, view.CreateResponse[any](GetCoinsResponse{
		Total: total,
		Coins: coins[from:to],
	}, nil, nil, ""))
}
