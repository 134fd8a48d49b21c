package repository

import (
	"context"

	"tcg-pricewatch/internal/entity"

	"gorm.io/gorm"
)

// RecommendationRepository defines the interface for recommendation data
// operations.
type RecommendationRepository interface {
	ReplaceAll(ctx context.Context, recs []entity.Recommendation) error
	FindAll(ctx context.Context) ([]entity.Recommendation, error)
}

// NewRecommendationRepository creates a new GORM-based recommendation
// repository.
func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

type recommendationRepository struct {
	db *gorm.DB
}

// ReplaceAll atomically swaps the whole recommendation set with the
// result of a fresh suggestion run.
func (r *recommendationRepository) ReplaceAll(ctx context.Context, recs []entity.Recommendation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entity.Recommendation{}).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		return tx.CreateInBatches(recs, 500).Error
	})
}

// FindAll retrieves the current recommendation set.
func (r *recommendationRepository) FindAll(ctx context.Context) ([]entity.Recommendation, error) {
	var recs []entity.Recommendation
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
