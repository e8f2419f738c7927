package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DoInTx runs fn in a transaction bound to ctx. An error or panic from fn
// rolls the transaction back; the panic is re-raised afterwards.
func DoInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) (err error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err = fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return errors.Wrap(tx.Commit().Error, "commit transaction")
}
