package telemetry

import (
	"context"

	"github.com/dwarvesf/arkswap/internal/controller"
	"github.com/dwarvesf/arkswap/internal/model"
)

// ITelemetry keeps the local swap projection in step with the swap service.
type ITelemetry interface {
	IndexSwaps(ctx context.Context) (*controller.SyncResult, error)
	RefreshPendingSwaps(ctx context.Context) (int, error)
	CountSwapsByStatus(ctx context.Context) (map[model.SwapStatus]int64, error)
}
