package monitoring

import (
	"context"
	"time"

	"github.com/dwarvesf/arkswap/internal/telemetry"
	"github.com/dwarvesf/arkswap/internal/utils/config"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
	"github.com/dwarvesf/arkswap/internal/utils/webhook"
)

const (
	JobSwapIndexing = "swap_projection_indexing"
	JobSwapRefresh  = "pending_swap_refresh"
)

// InstrumentedTelemetry runs the projection jobs under job monitoring. Its
// methods match cron's func() signature.
type InstrumentedTelemetry struct {
	base        telemetry.ITelemetry
	swapMetrics *SwapMetrics
	indexJob    *InstrumentedJob
	refreshJob  *InstrumentedJob
	logger      *logger.Logger
}

func NewInstrumentedTelemetry(
	base telemetry.ITelemetry,
	statusManager *JobStatusManager,
	swapMetrics *SwapMetrics,
	logger *logger.Logger,
	config *config.AppConfig,
) *InstrumentedTelemetry {
	it := &InstrumentedTelemetry{
		base:        base,
		swapMetrics: swapMetrics,
		logger:      logger,
	}
	hook := webhook.New(logger)

	it.indexJob = NewInstrumentedJob(JobSwapIndexing, it.indexSwaps, statusManager, logger, 5*time.Minute, hook, config.Jobs.UptimeHook)
	it.refreshJob = NewInstrumentedJob(JobSwapRefresh, it.refreshPending, statusManager, logger, 2*time.Minute, nil, "")
	return it
}

func (it *InstrumentedTelemetry) IndexSwaps() {
	_ = it.indexJob.Execute(context.Background())
}

func (it *InstrumentedTelemetry) RefreshPendingSwaps() {
	_ = it.refreshJob.Execute(context.Background())
}

func (it *InstrumentedTelemetry) indexSwaps(ctx context.Context) error {
	if _, err := it.base.IndexSwaps(ctx); err != nil {
		return err
	}
	it.publishCounts(ctx)
	return nil
}

func (it *InstrumentedTelemetry) refreshPending(ctx context.Context) error {
	if _, err := it.base.RefreshPendingSwaps(ctx); err != nil {
		return err
	}
	it.publishCounts(ctx)
	return nil
}

// publishCounts is best effort; a failed count does not fail the job.
func (it *InstrumentedTelemetry) publishCounts(ctx context.Context) {
	counts, err := it.base.CountSwapsByStatus(ctx)
	if err != nil {
		it.logger.Warn("[publishCounts][CountSwapsByStatus]", map[string]string{
			"error": err.Error(),
		})
		return
	}
	it.swapMetrics.SetSwapCounts(counts)
}
