package repository

import (
	"context"

	"tcg-pricewatch/internal/entity"

	"gorm.io/gorm"
)

// TrendSignalRepository defines the interface for trend signal data
// operations.
type TrendSignalRepository interface {
	ReplaceAll(ctx context.Context, signals []entity.TrendSignal) error
	FindAll(ctx context.Context) ([]entity.TrendSignal, error)
}

// NewTrendSignalRepository creates a new GORM-based trend signal
// repository.
func NewTrendSignalRepository(db *gorm.DB) TrendSignalRepository {
	return &trendSignalRepository{db: db}
}

type trendSignalRepository struct {
	db *gorm.DB
}

// ReplaceAll atomically swaps the whole trend signal set with the result
// of a fresh tracker run.
func (r *trendSignalRepository) ReplaceAll(ctx context.Context, signals []entity.TrendSignal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entity.TrendSignal{}).Error; err != nil {
			return err
		}
		if len(signals) == 0 {
			return nil
		}
		return tx.CreateInBatches(signals, 500).Error
	})
}

// FindAll retrieves the current trend signal set.
func (r *trendSignalRepository) FindAll(ctx context.Context) ([]entity.TrendSignal, error) {
	var signals []entity.TrendSignal
	if err := r.db.WithContext(ctx).Find(&signals).Error; err != nil {
		return nil, err
	}
	return signals, nil
}
