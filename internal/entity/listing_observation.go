package entity

import "time"

// ListingObservation is a single sold-listing price sample scraped from
// the marketplace for a tracked card.
type ListingObservation struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CardID    uint      `gorm:"not null;index" json:"card_id"`
	ItemKey   string    `gorm:"not null" json:"item_key"`
	Price     float64   `gorm:"not null" json:"price"`
	Source    string    `json:"source"`
	SoldAt    time.Time `gorm:"not null;index" json:"sold_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ListingObservation) TableName() string {
	return "listing_observations"
}
