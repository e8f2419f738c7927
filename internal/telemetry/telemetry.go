package telemetry

import (
	"context"
	"strconv"
	"sync"

	"gorm.io/gorm"

	"github.com/dwarvesf/arkswap/internal/controller"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/store"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
)

type Telemetry struct {
	db         *gorm.DB
	store      *store.Store
	controller controller.IController
	logger     *logger.Logger

	indexMutex   sync.Mutex
	refreshMutex sync.Mutex
}

func New(db *gorm.DB, store *store.Store, controller controller.IController, logger *logger.Logger) *Telemetry {
	return &Telemetry{
		db:         db,
		store:      store,
		controller: controller,
		logger:     logger,
	}
}

// IndexSwaps pulls the full swap list and upserts it into the projection.
// Concurrent calls run one after another.
func (t *Telemetry) IndexSwaps(ctx context.Context) (*controller.SyncResult, error) {
	t.indexMutex.Lock()
	defer t.indexMutex.Unlock()

	t.logger.Debug("[IndexSwaps] start")

	result, err := t.controller.Sync(ctx)
	if err != nil {
		t.logger.Error("[IndexSwaps][Sync]", map[string]string{
			"error": err.Error(),
		})
		return nil, err
	}

	t.logger.Info("[IndexSwaps] done", map[string]string{
		"fetched":     strconv.Itoa(result.Fetched),
		"upserted":    strconv.Itoa(result.Upserted),
		"transitions": strconv.Itoa(result.Transitions),
	})
	return result, nil
}

// RefreshPendingSwaps re-fetches every swap not yet terminal and returns how
// many are still pending afterwards.
func (t *Telemetry) RefreshPendingSwaps(ctx context.Context) (int, error) {
	t.refreshMutex.Lock()
	defer t.refreshMutex.Unlock()

	pending, err := t.controller.ListPending(ctx)
	if err != nil {
		t.logger.Error("[RefreshPendingSwaps][ListPending]", map[string]string{
			"error": err.Error(),
		})
		return 0, err
	}

	t.logger.Debug("[RefreshPendingSwaps] done", map[string]string{
		"pending": strconv.Itoa(len(pending)),
	})
	return len(pending), nil
}

func (t *Telemetry) CountSwapsByStatus(ctx context.Context) (map[model.SwapStatus]int64, error) {
	counts, err := t.store.Swap.CountByStatus(t.db.WithContext(ctx))
	if err != nil {
		t.logger.Error("[CountSwapsByStatus][CountByStatus]", map[string]string{
			"error": err.Error(),
		})
		return nil, err
	}
	return counts, nil
}
