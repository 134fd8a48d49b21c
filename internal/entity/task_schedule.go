package entity

import (
	"database/sql"
	"time"
)

// TaskSchedule is a cron schedule attached to a job.
type TaskSchedule struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	JobID          uint         `gorm:"not null;index" json:"job_id"`
	CronExpression string       `gorm:"not null" json:"cron_expression"`
	IsActive       bool         `gorm:"not null;default:true" json:"is_active"`
	NextExecution  sql.NullTime `json:"next_execution"`
	LastExecution  sql.NullTime `json:"last_execution"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TaskSchedule) TableName() string {
	return "task_schedules"
}
