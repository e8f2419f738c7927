package swap

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/arkswap/internal/controller"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/monitoring"
	"github.com/dwarvesf/arkswap/internal/swapstate"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
	"github.com/dwarvesf/arkswap/internal/view"
)

type CreateBtcToStablecoinRequest struct {
	TargetToken   string `json:"target_token" validate:"required"`
	TargetChain   string `json:"target_chain" validate:"required"`
	TargetAddress string `json:"target_address" validate:"required,evm_address"`
	// One of source_amount_sats or target_amount is required.
	SourceAmountSats int64   `json:"source_amount_sats" validate:"gte=0"`
	TargetAmount     float64 `json:"target_amount" validate:"gte=0"`
	ReferralCode     string  `json:"referral_code"`
}

type CreateStablecoinToBtcRequest struct {
	SourceToken  string  `json:"source_token" validate:"required"`
	SourceChain  string  `json:"source_chain" validate:"required"`
	SourceAmount float64 `json:"source_amount" validate:"gt=0"`
	UserAddress  string  `json:"user_address" validate:"required,evm_address"`
	// DestinationAddress defaults to the wallet's Ark address.
	DestinationAddress string `json:"destination_address"`
	ReferralCode       string `json:"referral_code"`
}

type RefundRequest struct {
	Destination string `json:"destination"`
}

type handler struct {
	controller      controller.IController
	logger          *logger.Logger
	metricsRecorder *monitoring.BusinessMetricsRecorder
}

func New(controller controller.IController, logger *logger.Logger, metricsRecorder *monitoring.BusinessMetricsRecorder) IHandler {
	return &handler{
		controller:      controller,
		logger:          logger,
		metricsRecorder: metricsRecorder,
	}
}

func (h *handler) recordAction(action string, err error, start time.Time) {
	if h.metricsRecorder != nil {
		h.metricsRecorder.RecordSwapAction(action, err, time.Since(start).Seconds())
	}
}

// CreateBtcToStablecoin godoc
// @Summary Swap BTC for a stablecoin
// @Description Creates a BTC to stablecoin swap and funds its VHTLC from the wallet
// @id createBtcToStablecoin
// @Tags Swap
// @Accept json
// @Produce json
// @Param request body CreateBtcToStablecoinRequest true "Swap parameters"
// @Success 200 {object} model.StablecoinSwapResult
// @Failure 400 {object} view.ErrorResponse
// @Failure 502 {object} view.ErrorResponse
// @Router /swaps/btc-to-stablecoin [post]
func (h *handler) CreateBtcToStablecoin(c *gin.Context) {
	var req CreateBtcToStablecoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("[CreateBtcToStablecoin][ShouldBindJSON]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}
	if err := view.Validate(req); err != nil {
		h.logger.Error("[CreateBtcToStablecoin][Validate]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	start := time.Now()
	result, err := h.controller.CreateBtcToStablecoin(c.Request.Context(), controller.BtcToStablecoinParams{
		TargetToken:      req.TargetToken,
		TargetChain:      req.TargetChain,
		TargetAddress:    req.TargetAddress,
		SourceAmountSats: req.SourceAmountSats,
		TargetAmount:     req.TargetAmount,
		ReferralCode:     req.ReferralCode,
	})
	if h.metricsRecorder != nil {
		h.metricsRecorder.RecordSwapCreate(string(model.DirectionBtcToStablecoin), err, time.Since(start).Seconds())
	}
	if err != nil {
		h.logger.Error("[CreateBtcToStablecoin][CreateBtcToStablecoin]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, req, "failed to create swap"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](result, nil, nil, ""))
}

// CreateStablecoinToBtc godoc
// @Summary Swap a stablecoin for BTC
// @Description Creates a stablecoin to BTC swap; the EVM side is funded by the user
// @id createStablecoinToBtc
// @Tags Swap
// @Accept json
// @Produce json
// @Param request body CreateStablecoinToBtcRequest true "Swap parameters"
// @Success 200 {object} model.StablecoinSwapResult
// @Failure 400 {object} view.ErrorResponse
// @Failure 502 {object} view.ErrorResponse
// @Router /swaps/stablecoin-to-btc [post]
func (h *handler) CreateStablecoinToBtc(c *gin.Context) {
	var req CreateStablecoinToBtcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("[CreateStablecoinToBtc][ShouldBindJSON]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}
	if err := view.Validate(req); err != nil {
		h.logger.Error("[CreateStablecoinToBtc][Validate]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	start := time.Now()
	result, err := h.controller.CreateStablecoinToBtc(c.Request.Context(), controller.StablecoinToBtcParams{
		SourceToken:        req.SourceToken,
		SourceChain:        req.SourceChain,
		SourceAmount:       req.SourceAmount,
		UserAddress:        req.UserAddress,
		DestinationAddress: req.DestinationAddress,
		ReferralCode:       req.ReferralCode,
	})
	if h.metricsRecorder != nil {
		h.metricsRecorder.RecordSwapCreate(string(model.DirectionStablecoinToBtc), err, time.Since(start).Seconds())
	}
	if err != nil {
		h.logger.Error("[CreateStablecoinToBtc][CreateStablecoinToBtc]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, req, "failed to create swap"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](result, nil, nil, ""))
}

// GetStatus godoc
// @Summary Get swap status
// @Description Re-fetches a swap from the swap service and refreshes the local record
// @id getSwapStatus
// @Tags Swap
// @Produce json
// @Param id path string true "Swap ID"
// @Success 200 {object} model.StablecoinSwapInfo
// @Failure 404 {object} view.ErrorResponse
// @Router /swaps/{id} [get]
func (h *handler) GetStatus(c *gin.Context) {
	start := time.Now()
	swapID := c.Param("id")

	info, err := h.controller.GetStatus(c.Request.Context(), swapID)
	h.recordAction("status", err, start)
	if err != nil {
		h.logger.Error("[GetStatus][GetStatus]", map[string]string{
			"swap_id": swapID,
			"error":   err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, nil, "failed to get swap status"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](info, nil, nil, ""))
}

// ListPending godoc
// @Summary List pending swaps
// @Description Re-fetches every swap not known to be terminal
// @id listPendingSwaps
// @Tags Swap
// @Produce json
// @Success 200 {array} model.StablecoinSwapInfo
// @Failure 500 {object} view.ErrorResponse
// @Router /swaps/pending [get]
func (h *handler) ListPending(c *gin.Context) {
	start := time.Now()
	swaps, err := h.controller.ListPending(c.Request.Context())
	h.recordAction("pending", err, start)
	if err != nil {
		h.logger.Error("[ListPending][ListPending]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, nil, "failed to list pending swaps"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](swaps, nil, nil, ""))
}

// ListHistory godoc
// @Summary List swap history
// @Description Returns every locally known swap, newest first
// @id listSwapHistory
// @Tags Swap
// @Produce json
// @Success 200 {array} model.StablecoinSwapInfo
// @Failure 500 {object} view.ErrorResponse
// @Router /swaps/history [get]
func (h *handler) ListHistory(c *gin.Context) {
	swaps, err := h.controller.ListHistory(c.Request.Context())
	if err != nil {
		h.logger.Error("[ListHistory][ListHistory]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, nil, "failed to list swap history"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](swaps, nil, nil, ""))
}

// Claim godoc
// @Summary Claim a swap
// @Description Asks the swap service to claim the swap's output
// @id claimSwap
// @Tags Swap
// @Produce json
// @Param id path string true "Swap ID"
// @Success 200 {object} model.ClaimResult
// @Failure 502 {object} view.ErrorResponse
// @Router /swaps/{id}/claim [post]
func (h *handler) Claim(c *gin.Context) {
	start := time.Now()
	swapID := c.Param("id")

	result, err := h.controller.Claim(c.Request.Context(), swapID)
	h.recordAction("claim", err, start)
	if err != nil {
		h.logger.Error("[Claim][Claim]", map[string]string{
			"swap_id": swapID,
			"error":   err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, nil, "failed to claim swap"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](result, nil, nil, result.Message))
}

// Refund godoc
// @Summary Refund a swap
// @Description Refunds a BTC-sourced swap. Stablecoin-sourced swaps answer not_applicable; use the refund call data instead
// @id refundSwap
// @Tags Swap
// @Accept json
// @Produce json
// @Param id path string true "Swap ID"
// @Param request body RefundRequest false "Refund destination"
// @Success 200 {object} model.RefundResult
// @Failure 404 {object} view.ErrorResponse
// @Router /swaps/{id}/refund [post]
func (h *handler) Refund(c *gin.Context) {
	var req RefundRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Error("[Refund][ShouldBindJSON]", map[string]string{
				"error": err.Error(),
			})
			c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
			return
		}
	}

	start := time.Now()
	swapID := c.Param("id")
	result, err := h.controller.Refund(c.Request.Context(), swapID, req.Destination)
	h.recordAction("refund", err, start)
	if err != nil {
		h.logger.Error("[Refund][Refund]", map[string]string{
			"swap_id": swapID,
			"error":   err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, req, "failed to refund swap"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](result, nil, nil, result.Message))
}

// FundingCallData godoc
// @Summary Get EVM funding call data
// @Description Returns the transaction the user signs to fund a stablecoin to BTC swap
// @id getFundingCallData
// @Tags Swap
// @Produce json
// @Param id path string true "Swap ID"
// @Success 200 {object} model.EvmCallData
// @Failure 404 {object} view.ErrorResponse
// @Router /swaps/{id}/funding-calldata [get]
func (h *handler) FundingCallData(c *gin.Context) {
	start := time.Now()
	swapID := c.Param("id")

	data, err := h.controller.GetEvmFundingCallData(c.Request.Context(), swapID)
	h.recordAction("funding_calldata", err, start)
	if err != nil {
		h.logger.Error("[FundingCallData][GetEvmFundingCallData]", map[string]string{
			"swap_id": swapID,
			"error":   err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, nil, "failed to get funding call data"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](data, nil, nil, ""))
}

// RefundCallData godoc
// @Summary Get EVM refund call data
// @Description Returns the transaction that refunds the EVM side of a stablecoin to BTC swap
// @id getRefundCallData
// @Tags Swap
// @Produce json
// @Param id path string true "Swap ID"
// @Success 200 {object} model.EvmCallData
// @Failure 409 {object} view.ErrorResponse
// @Router /swaps/{id}/refund-calldata [get]
func (h *handler) RefundCallData(c *gin.Context) {
	start := time.Now()
	swapID := c.Param("id")

	data, err := h.controller.GetEvmRefundCallData(c.Request.Context(), swapID)
	h.recordAction("refund_calldata", err, start)
	if err != nil {
		h.logger.Error("[RefundCallData][GetEvmRefundCallData]", map[string]string{
			"swap_id": swapID,
			"error":   err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, nil, "refund call data not available"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](data, nil, nil, ""))
}

// Sync godoc
// @Summary Reconcile swaps
// @Description Pulls the full swap list from the swap service into the local records
// @id syncSwaps
// @Tags Swap
// @Produce json
// @Success 200 {object} controller.SyncResult
// @Failure 502 {object} view.ErrorResponse
// @Router /swaps/sync [post]
func (h *handler) Sync(c *gin.Context) {
	start := time.Now()
	result, err := h.controller.Sync(c.Request.Context())
	h.recordAction("sync", err, start)
	if err != nil {
		h.logger.Error("[Sync][Sync]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, nil, "failed to sync swaps"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](result, nil, nil, ""))
}

type StatusMapping struct {
	Remote   string           `json:"remote"`
	Status   model.SwapStatus `json:"status"`
	Terminal bool             `json:"terminal"`
}

// Statuses godoc
// @Summary Remote status vocabulary
// @Description Lists every known remote swap status with the status it is reported as
// @id listSwapStatuses
// @Tags Swap
// @Produce json
// @Success 200 {array} StatusMapping
// @Router /swaps/statuses [get]
func (h *handler) Statuses(c *gin.Context) {
	remote := swapstate.KnownRemoteStatuses()
	mappings := make([]StatusMapping, 0, len(remote))
	for _, r := range remote {
		status := swapstate.Normalize(r)
		mappings = append(mappings, StatusMapping{
			Remote:   r,
			Status:   status,
			Terminal: swapstate.IsTerminal(status),
		})
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](mappings, nil, nil, ""))
}
