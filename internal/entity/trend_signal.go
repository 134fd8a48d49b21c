package entity

import "time"

// Trend labels produced by the classifier.
const (
	TrendUp      = "UP"
	TrendDown    = "DOWN"
	TrendFlat    = "FLAT"
	TrendUnknown = "UNKNOWN"
)

// TrendSignal is the classified price direction for a card, rebuilt as a
// full set on every trend tracker run.
type TrendSignal struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	CardID         uint      `gorm:"not null;index" json:"card_id"`
	ItemKey        string    `gorm:"not null" json:"item_key"`
	Trend          string    `gorm:"not null" json:"trend"`
	PctChange      *float64  `json:"pct_change"`
	LastPrice      *float64  `json:"last_price"`
	PriorPrice     *float64  `json:"prior_price"`
	WindowAverage  *float64  `json:"window_average"`
	SpikeTrend     string    `json:"spike_trend"`
	SpikePctChange *float64  `json:"spike_pct_change"`
	SampleSize     int       `gorm:"not null" json:"sample_size"`
	RunID          string    `gorm:"not null" json:"run_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TrendSignal) TableName() string {
	return "trend_signals"
}
