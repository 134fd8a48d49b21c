package repository

import (
	"context"

	"tcg-pricewatch/internal/entity"

	"gorm.io/gorm"
)

// CardRepository defines the interface for card data operations.
type CardRepository interface {
	GetActive(ctx context.Context) ([]entity.Card, error)
	GetActiveMaxTier(ctx context.Context, maxTier int) ([]entity.Card, error)
	FindByItemKey(ctx context.Context, itemKey string) (*entity.Card, error)
	GetByOwnership(ctx context.Context, ownership string) ([]entity.Card, error)
}

// NewCardRepository creates a new GORM-based card repository.
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

type cardRepository struct {
	db *gorm.DB
}

// GetActive retrieves all cards still being tracked, highest tier first.
func (r *cardRepository) GetActive(ctx context.Context) ([]entity.Card, error) {
	var cards []entity.Card
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("tier asc").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// GetActiveMaxTier retrieves active cards up to and including maxTier.
func (r *cardRepository) GetActiveMaxTier(ctx context.Context, maxTier int) ([]entity.Card, error) {
	var cards []entity.Card
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND tier <= ?", true, maxTier).
		Order("tier asc").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// FindByItemKey retrieves a card by its marketplace item key.
func (r *cardRepository) FindByItemKey(ctx context.Context, itemKey string) (*entity.Card, error) {
	var card entity.Card
	if err := r.db.WithContext(ctx).Where("item_key = ?", itemKey).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// GetByOwnership retrieves active cards with the given ownership status.
func (r *cardRepository) GetByOwnership(ctx context.Context, ownership string) ([]entity.Card, error) {
	var cards []entity.Card
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND ownership = ?", true, ownership).
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}
