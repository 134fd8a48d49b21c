package entity

import "time"

// Recommendation is a suggested trade action for a card, rebuilt as a
// full set on every smart suggestion run.
type Recommendation struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	CardID          uint      `gorm:"not null;index" json:"card_id"`
	ItemKey         string    `gorm:"not null" json:"item_key"`
	SuggestedAction string    `gorm:"not null" json:"suggested_action"`
	RuleSet         string    `gorm:"not null" json:"rule_set"`
	CleanPrice      float64   `gorm:"not null" json:"clean_price"`
	ReferenceValue  float64   `gorm:"not null" json:"reference_value"`
	TargetBuy       float64   `gorm:"not null" json:"target_buy"`
	TargetSell      float64   `gorm:"not null" json:"target_sell"`
	Trend           string    `gorm:"not null" json:"trend"`
	Ownership       string    `gorm:"not null" json:"ownership"`
	HighDemand      bool      `gorm:"not null" json:"high_demand"`
	RunID           string    `gorm:"not null" json:"run_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
