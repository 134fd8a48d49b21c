package entity

import (
	"database/sql"
	"time"
)

// Task execution statuses.
const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// TaskExecutionHistory records one execution attempt of a scheduled job.
type TaskExecutionHistory struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	JobID        uint           `gorm:"not null;index" json:"job_id"`
	ScheduleID   uint           `gorm:"not null;index" json:"schedule_id"`
	Status       string         `gorm:"not null" json:"status"`
	Output       sql.NullString `json:"output"`
	ErrorMessage sql.NullString `json:"error_message"`
	StartedAt    time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt  sql.NullTime   `json:"completed_at"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TaskExecutionHistory) TableName() string {
	return "task_execution_histories"
}
