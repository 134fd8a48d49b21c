package dto

import (
	"database/sql"
	"time"
)

// CreateScheduleRequest is the request body for attaching a schedule to
// an existing job.
type CreateScheduleRequest struct {
	JobID          uint   `json:"job_id"`
	CronExpression string `json:"cron_expression"`
	IsActive       bool   `json:"is_active"`
}

// UpdateScheduleRequest is the request body for updating a schedule.
type UpdateScheduleRequest struct {
	CronExpression string `json:"cron_expression"`
	IsActive       bool   `json:"is_active"`
}

// ScheduleResponse is the response body for schedule reads and writes.
type ScheduleResponse struct {
	ID             uint         `json:"id"`
	JobID          uint         `json:"job_id"`
	CronExpression string       `json:"cron_expression"`
	IsActive       bool         `json:"is_active"`
	NextExecution  sql.NullTime `json:"next_execution" swaggertype:"string" format:"date-time"`
	LastExecution  sql.NullTime `json:"last_execution" swaggertype:"string" format:"date-time"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
