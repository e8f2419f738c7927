package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dwarvesf/arkswap/internal/blockstream"
	"github.com/dwarvesf/arkswap/internal/monitoring"
	"github.com/dwarvesf/arkswap/internal/swapapi"
	"github.com/dwarvesf/arkswap/internal/utils/config"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
	"github.com/dwarvesf/arkswap/internal/wallet"
)

// HealthHandler implements IHealthHandler interface
type HealthHandler struct {
	config           *config.AppConfig
	logger           *logger.Logger
	db               *gorm.DB
	swapAPI          swapapi.ISwapAPI
	explorer         blockstream.IBlockStream
	wallet           wallet.IWallet
	jobStatusManager *monitoring.JobStatusManager
}

// New creates a new health handler instance
func New(
	config *config.AppConfig,
	logger *logger.Logger,
	db *gorm.DB,
	swapAPI swapapi.ISwapAPI,
	explorer blockstream.IBlockStream,
	wallet wallet.IWallet,
	jobStatusManager *monitoring.JobStatusManager,
) IHealthHandler {
	return &HealthHandler{
		config:           config,
		logger:           logger,
		db:               db,
		swapAPI:          swapAPI,
		explorer:         explorer,
		wallet:           wallet,
		jobStatusManager: jobStatusManager,
	}
}

// Basic handles the basic health check endpoint (/healthz)
// @Summary Basic health check
// @Description Returns basic system availability status
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} BasicHealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Basic(c *gin.Context) {
	response := BasicHealthResponse{
		Message: "ok",
	}
	c.JSON(http.StatusOK, response)
}

// Database handles the database health check endpoint
// @Summary Database health check
// @Description Validates database connectivity and performance
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/v1/health/db [get]
func (h *HealthHandler) Database(c *gin.Context) {
	start := time.Now()

	response := HealthResponse{
		Timestamp: start,
		Checks:    make(map[string]HealthCheck),
	}

	ctx := context.Background()
	if c.Request != nil {
		ctx = c.Request.Context()
	}

	dbCheck := h.checkDatabase(ctx)
	response.Checks["database"] = dbCheck
	response.DurationMs = time.Since(start).Milliseconds()

	if dbCheck.Status == statusHealthy {
		response.Status = statusHealthy
		c.JSON(http.StatusOK, response)
	} else {
		response.Status = statusUnhealthy
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

// External handles the external API dependencies health check endpoint
// @Summary External dependencies health check
// @Description Validates the swap service, the esplora explorer and the wallet daemon
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/v1/health/external [get]
func (h *HealthHandler) External(c *gin.Context) {
	start := time.Now()

	response := HealthResponse{
		Timestamp: start,
		Checks:    make(map[string]HealthCheck),
	}

	baseCtx := context.Background()
	if c.Request != nil {
		baseCtx = c.Request.Context()
	}
	ctx, cancel := context.WithTimeout(baseCtx, 10*time.Second)
	defer cancel()

	probes := map[string]func(context.Context) (map[string]interface{}, error){
		monitoring.ServiceSwapAPI:  h.probeSwapAPI,
		monitoring.ServiceExplorer: h.probeExplorer,
		"wallet":                   h.probeWallet,
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for name, probe := range probes {
		wg.Add(1)
		go func(name string, probe func(context.Context) (map[string]interface{}, error)) {
			defer wg.Done()
			check := runCheck(ctx, probe)
			mu.Lock()
			response.Checks[name] = check
			mu.Unlock()
		}(name, probe)
	}

	wg.Wait()
	response.DurationMs = time.Since(start).Milliseconds()

	allHealthy := true
	for name, check := range response.Checks {
		if check.Status != statusHealthy {
			allHealthy = false
			h.logger.Warn("[External][Check]", map[string]string{
				"dependency": name,
				"error":      check.Error,
			})
		}
	}

	if allHealthy {
		response.Status = statusHealthy
		c.JSON(http.StatusOK, response)
	} else {
		response.Status = statusUnhealthy
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

// checkDatabase performs database health validation
func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	start := time.Now()

	check := HealthCheck{
		Metadata: make(map[string]interface{}),
	}

	if h.db == nil {
		check.Status = statusUnhealthy
		check.Error = "database connection not available"
		check.Latency = time.Since(start).Milliseconds()
		return check
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		check.Status = statusUnhealthy
		check.Error = fmt.Sprintf("failed to get underlying database: %v", err)
		check.Latency = time.Since(start).Milliseconds()
		return check
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		check.Status = statusUnhealthy
		if pingCtx.Err() == context.DeadlineExceeded {
			check.Error = "timeout"
		} else {
			check.Error = err.Error()
		}
		check.Latency = time.Since(start).Milliseconds()
		return check
	}

	stats := sqlDB.Stats()

	check.Status = statusHealthy
	check.Latency = time.Since(start).Milliseconds()
	check.Metadata["driver"] = h.db.Dialector.Name()
	check.Metadata["connection_pool"] = map[string]interface{}{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"max_open":         stats.MaxOpenConnections,
	}

	return check
}

// runCheck gives each probe its own 3s budget.
func runCheck(ctx context.Context, probe func(context.Context) (map[string]interface{}, error)) HealthCheck {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	check := HealthCheck{}
	metadata, err := probe(checkCtx)
	switch {
	case err != nil && checkCtx.Err() == context.DeadlineExceeded:
		check.Status = statusUnhealthy
		check.Error = "timeout"
	case err != nil:
		check.Status = statusUnhealthy
		check.Error = err.Error()
	default:
		check.Status = statusHealthy
		check.Metadata = metadata
	}

	check.Latency = time.Since(start).Milliseconds()
	return check
}

func (h *HealthHandler) probeSwapAPI(ctx context.Context) (map[string]interface{}, error) {
	if h.swapAPI == nil {
		return nil, fmt.Errorf("swap api not available")
	}
	if err := h.swapAPI.Health(ctx); err != nil {
		return nil, err
	}
	metadata := map[string]interface{}{
		"endpoint": h.config.SwapAPI.BaseURL,
	}
	// version is informational
	if v, err := h.swapAPI.GetVersion(ctx); err == nil && v != nil {
		metadata["version"] = v.Version
	}
	return metadata, nil
}

func (h *HealthHandler) probeExplorer(ctx context.Context) (map[string]interface{}, error) {
	if h.explorer == nil {
		return nil, fmt.Errorf("esplora explorer not available")
	}
	height, err := h.explorer.GetTipHeight(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"endpoint":   h.config.Bitcoin.BlockstreamAPIURL,
		"tip_height": height,
	}, nil
}

func (h *HealthHandler) probeWallet(ctx context.Context) (map[string]interface{}, error) {
	if h.wallet == nil {
		return nil, fmt.Errorf("wallet not available")
	}
	address, err := h.wallet.GetAddress(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"endpoint": h.config.Wallet.BaseURL,
		"address":  address,
	}, nil
}
