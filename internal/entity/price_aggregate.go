package entity

import "time"

// PriceAggregate is one day's cleaned price summary for a card. Median
// and Average are nil when no trustworthy samples survived filtering.
type PriceAggregate struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	CardID     uint      `gorm:"not null;index:idx_price_aggregates_card_date" json:"card_id"`
	ItemKey    string    `gorm:"not null" json:"item_key"`
	SampleDate time.Time `gorm:"not null;type:date;index:idx_price_aggregates_card_date" json:"sample_date"`
	Median     *float64  `json:"median"`
	Average    *float64  `json:"average"`
	SampleSize int       `gorm:"not null" json:"sample_size"`
	RawCount   int       `gorm:"not null" json:"raw_count"`
	RunID      string    `gorm:"not null" json:"run_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PriceAggregate) TableName() string {
	return "price_aggregates"
}
