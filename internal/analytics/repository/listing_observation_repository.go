package repository

import (
	"context"
	"time"

	"tcg-pricewatch/internal/entity"

	"gorm.io/gorm"
)

// ListingObservationRepository defines the interface for sold-listing
// sample data operations.
type ListingObservationRepository interface {
	Create(ctx context.Context, obs *entity.ListingObservation) error
	CreateBatch(ctx context.Context, obs []entity.ListingObservation) error
	GetSince(ctx context.Context, cardID uint, since time.Time) ([]entity.ListingObservation, error)
}

// NewListingObservationRepository creates a new GORM-based listing
// observation repository.
func NewListingObservationRepository(db *gorm.DB) ListingObservationRepository {
	return &listingObservationRepository{db: db}
}

type listingObservationRepository struct {
	db *gorm.DB
}

// Create stores a single observation.
func (r *listingObservationRepository) Create(ctx context.Context, obs *entity.ListingObservation) error {
	return r.db.WithContext(ctx).Create(obs).Error
}

// CreateBatch stores a batch of observations.
func (r *listingObservationRepository) CreateBatch(ctx context.Context, obs []entity.ListingObservation) error {
	if len(obs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(obs, 500).Error
}

// GetSince retrieves all observations for a card sold on or after the
// cutoff, newest first.
func (r *listingObservationRepository) GetSince(ctx context.Context, cardID uint, since time.Time) ([]entity.ListingObservation, error) {
	var obs []entity.ListingObservation
	err := r.db.WithContext(ctx).
		Where("card_id = ? AND sold_at >= ?", cardID, since).
		Order("sold_at DESC").
		Find(&obs).Error
	if err != nil {
		return nil, err
	}
	return obs, nil
}
