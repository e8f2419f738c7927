package swap

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/arkswap/internal/model"
)

// IStore persists the local swap projection. Rows are only ever written from
// data fetched from the swap service.
type IStore interface {
	// Upsert inserts or replaces the row for swap.SwapID. CreatedAt and an
	// already recorded CompletedAt are never overwritten.
	Upsert(tx *gorm.DB, swap *model.Swap) (*model.Swap, error)
	GetBySwapID(tx *gorm.DB, swapID string) (*model.Swap, error)
	// All returns every row, newest first.
	All(tx *gorm.DB) ([]model.Swap, error)
	ListNonTerminal(tx *gorm.DB) ([]model.Swap, error)
	CountByStatus(tx *gorm.DB) (map[model.SwapStatus]int64, error)
}
