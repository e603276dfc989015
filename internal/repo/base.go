package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base provides the connection handling shared by domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// WithTx rebinds the base to a transaction.
func (b Base) WithTx(tx *gorm.DB) Base {
	return Base{db: tx}
}

// FindByIDs loads the rows of T whose primary key is in ids. No query runs for empty ids.
func FindByIDs[T any](ctx context.Context, b Base, ids []string) ([]T, error) {
	out := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if err := b.DB(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
