package store

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/arkswap/internal/store/swap"
)

type Store struct {
	Swap swap.IStore
}

func New() *Store {
	return &Store{
		Swap: swap.New(),
	}
}

// Models lists every table the service owns, for AutoMigrate.
func Models() []interface{} {
	return swap.Models()
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
