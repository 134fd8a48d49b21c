package entity

import (
	"time"

	"gorm.io/datatypes"
)

// JobType identifies which execution strategy handles a job.
type JobType string

const (
	JobTypeHTTP             JobType = "http_request"
	JobTypePriceAggregation JobType = "price_aggregation"
	JobTypeTrendTracker     JobType = "trend_tracker"
	JobTypeSmartSuggestion  JobType = "smart_suggestion"
	JobTypeBuyWindowAlert   JobType = "buy_window_alert"
)

// Valid reports whether t names a registered execution strategy.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeHTTP, JobTypePriceAggregation, JobTypeTrendTracker,
		JobTypeSmartSuggestion, JobTypeBuyWindowAlert:
		return true
	}
	return false
}

// Job is a schedulable unit of work with its cron schedules.
type Job struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Type        JobType        `gorm:"not null" json:"type"`
	Payload     datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	RetryPolicy datatypes.JSON `gorm:"type:jsonb" json:"retry_policy"`
	Timeout     int            `gorm:"not null;default:60" json:"timeout"`
	Schedules   []TaskSchedule `gorm:"foreignKey:JobID" json:"schedules"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}
