package quote

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/arkswap/internal/controller"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/monitoring"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
	"github.com/dwarvesf/arkswap/internal/view"
)

type QuoteRequest struct {
	Direction string `form:"direction" json:"direction" validate:"required,oneof=btc_to_stablecoin stablecoin_to_btc"`
	// Amount is sats for btc_to_stablecoin and token units otherwise.
	Amount float64 `form:"amount" json:"amount" validate:"gt=0"`
	Token  string  `form:"token" json:"token" validate:"required"`
	Chain  string  `form:"chain" json:"chain" validate:"required"`
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

// GetQuote godoc
// @Summary Quote a swap
// @Description Prices a swap without creating it. Quotes are valid for 60 seconds
// @id getQuote
// @Tags Quote
// @Produce json
// @Param direction query string true "btc_to_stablecoin or stablecoin_to_btc"
// @Param amount query number true "Sats for btc_to_stablecoin, token units otherwise"
// @Param token query string true "Stablecoin symbol, e.g. usdc"
// @Param chain query string true "EVM chain, e.g. polygon"
// @Success 200 {object} model.Quote
// @Failure 400 {object} view.ErrorResponse
// @Failure 502 {object} view.ErrorResponse
// @Router /quotes [get]
func (h *handler) GetQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("[GetQuote][ShouldBindQuery]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}
	if err := view.Validate(req); err != nil {
		h.logger.Error("[GetQuote][Validate]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	start := time.Now()
	quote, err := h.controller.Quote(c.Request.Context(), controller.QuoteParams{
		Direction: model.SwapDirection(req.Direction),
		Amount:    req.Amount,
		Token:     req.Token,
		Chain:     req.Chain,
	})
	if h.metricsRecorder != nil {
		h.metricsRecorder.RecordQuote(req.Direction, err, time.Since(start).Seconds())
	}
	if err != nil {
		h.logger.Error("[GetQuote][Quote]", map[string]string{
			"direction": req.Direction,
			"error":     err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, req, "can't get quote"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](quote, nil, nil, ""))
}

// ListTokens godoc
// @Summary List tradeable tokens
// @Description Lists every token the swap service can trade
// @id listTokens
// @Tags Quote
// @Produce json
// @Success 200 {array} model.TokenRef
// @Failure 502 {object} view.ErrorResponse
// @Router /tokens [get]
func (h *handler) ListTokens(c *gin.Context) {
	tokens, err := h.controller.Tokens(c.Request.Context())
	if err != nil {
		h.logger.Error("[ListTokens][Tokens]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(view.StatusCode(err), view.CreateResponse[any](nil, err, nil, "can't list tokens"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](tokens, nil, nil, ""))
}
