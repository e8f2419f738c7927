package swap

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dwarvesf/arkswap/internal/errs"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/swapstate"
)

// updatable are the columns refreshed on every upsert.
var updatable = []string{
	"direction",
	"status",
	"remote_status",
	"source_token",
	"target_token",
	"source_amount",
	"target_amount",
	"exchange_rate",
	"fee_amount",
	"fee_percentage",
	"expires_at",
	"payment_details",
	"source_is_wallet",
	"refund_address",
	"txid",
	"updated_at",
}

type store struct{}

func New() IStore {
	return &store{}
}

func Models() []interface{} {
	return []interface{}{&model.Swap{}}
}

func (s *store) Upsert(tx *gorm.DB, swap *model.Swap) (*model.Swap, error) {
	if swap.SwapID == "" {
		return nil, errs.InvalidArgument("swap id is required")
	}

	set := clause.AssignmentColumns(updatable)
	set = append(set, clause.Assignment{
		Column: clause.Column{Name: "completed_at"},
		Value:  gorm.Expr("COALESCE(swaps.completed_at, excluded.completed_at)"),
	})

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "swap_id"}},
		DoUpdates: set,
	}).Create(swap).Error
	if err != nil {
		return nil, err
	}

	return s.GetBySwapID(tx, swap.SwapID)
}

func (s *store) GetBySwapID(tx *gorm.DB, swapID string) (*model.Swap, error) {
	var swap model.Swap
	err := tx.Where("swap_id = ?", swapID).First(&swap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("swap %s not found", swapID)
	}
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

func (s *store) All(tx *gorm.DB) ([]model.Swap, error) {
	var swaps []model.Swap
	err := tx.Order("created_at DESC").Order("id DESC").Find(&swaps).Error
	if err != nil {
		return nil, err
	}
	return swaps, nil
}

func (s *store) ListNonTerminal(tx *gorm.DB) ([]model.Swap, error) {
	var swaps []model.Swap
	err := tx.Where("status NOT IN ?", swapstate.TerminalStatuses()).
		Order("created_at DESC").
		Find(&swaps).Error
	if err != nil {
		return nil, err
	}
	return swaps, nil
}

func (s *store) CountByStatus(tx *gorm.DB) (map[model.SwapStatus]int64, error) {
	var rows []struct {
		Status model.SwapStatus
		Count  int64
	}
	err := tx.Model(&model.Swap{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.SwapStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
