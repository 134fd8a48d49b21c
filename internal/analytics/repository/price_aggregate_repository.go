package repository

import (
	"context"
	"time"

	"tcg-pricewatch/internal/entity"

	"gorm.io/gorm"
)

// PriceAggregateRepository defines the interface for cleaned daily price
// summary data operations.
type PriceAggregateRepository interface {
	ReplaceForCard(ctx context.Context, cardID uint, since time.Time, aggregates []entity.PriceAggregate) error
	GetSince(ctx context.Context, cardID uint, since time.Time) ([]entity.PriceAggregate, error)
	GetLatest(ctx context.Context, cardID uint) (*entity.PriceAggregate, error)
}

// NewPriceAggregateRepository creates a new GORM-based price aggregate
// repository.
func NewPriceAggregateRepository(db *gorm.DB) PriceAggregateRepository {
	return &priceAggregateRepository{db: db}
}

type priceAggregateRepository struct {
	db *gorm.DB
}

// ReplaceForCard atomically swaps a card's aggregates inside the
// recomputed window with a freshly computed set. Rows with a sample
// date before the cutoff are history outside the window and stay
// untouched. Readers never observe a partially rebuilt set.
func (r *priceAggregateRepository) ReplaceForCard(ctx context.Context, cardID uint, since time.Time, aggregates []entity.PriceAggregate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("card_id = ? AND sample_date >= ?", cardID, since).Delete(&entity.PriceAggregate{}).Error; err != nil {
			return err
		}
		if len(aggregates) == 0 {
			return nil
		}
		return tx.CreateInBatches(aggregates, 500).Error
	})
}

// GetSince retrieves a card's aggregates with a sample date on or after
// the cutoff, newest first.
func (r *priceAggregateRepository) GetSince(ctx context.Context, cardID uint, since time.Time) ([]entity.PriceAggregate, error) {
	var aggregates []entity.PriceAggregate
	err := r.db.WithContext(ctx).
		Where("card_id = ? AND sample_date >= ?", cardID, since).
		Order("sample_date DESC").
		Find(&aggregates).Error
	if err != nil {
		return nil, err
	}
	return aggregates, nil
}

// GetLatest retrieves the most recent aggregate for a card, or nil when
// none exists.
func (r *priceAggregateRepository) GetLatest(ctx context.Context, cardID uint) (*entity.PriceAggregate, error) {
	var aggregate entity.PriceAggregate
	err := r.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("sample_date DESC").
		First(&aggregate).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &aggregate, nil
}
