package dto

import (
	"database/sql"
	"encoding/json"
	"time"
)

// RetryPolicyDTO carries a job's retry policy across the API boundary.
type RetryPolicyDTO struct {
	MaxRetries      int    `json:"max_retries"`
	BackoffStrategy string `json:"backoff_strategy"` // e.g., "exponential", "fixed"
	InitialInterval string `json:"initial_interval"` // e.g., "5s", "1m"
}

// ScheduleDTO is a cron schedule as supplied inside a job request.
type ScheduleDTO struct {
	CronExpression string `json:"cron_expression"`
	IsActive       bool   `json:"is_active"`
}

// CreateJobRequest is the request body for creating a job.
type CreateJobRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload" swaggertype:"object"`
	RetryPolicy RetryPolicyDTO  `json:"retry_policy"`
	Timeout     int             `json:"timeout"` // in seconds
	Schedules   []ScheduleDTO   `json:"schedules"`
}

// UpdateJobRequest is the request body for updating a job. The schedule
// list replaces the job's current schedules wholesale.
type UpdateJobRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload" swaggertype:"object"`
	RetryPolicy RetryPolicyDTO  `json:"retry_policy"`
	Timeout     int             `json:"timeout"` // in seconds
	Schedules   []ScheduleDTO   `json:"schedules"`
}

// ScheduleResponseDTO is a cron schedule as embedded in job responses.
type ScheduleResponseDTO struct {
	ID             uint         `json:"id"`
	CronExpression string       `json:"cron_expression"`
	IsActive       bool         `json:"is_active"`
	NextExecution  sql.NullTime `json:"next_execution" swaggertype:"string" format:"date-time"`
	LastExecution  sql.NullTime `json:"last_execution" swaggertype:"string" format:"date-time"`
}

// JobResponse is the response body for job reads and writes.
type JobResponse struct {
	ID          uint                  `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Type        string                `json:"type"`
	Payload     json.RawMessage       `json:"payload" swaggertype:"object"`
	RetryPolicy RetryPolicyDTO        `json:"retry_policy"`
	Timeout     int                   `json:"timeout"`
	Schedules   []ScheduleResponseDTO `json:"schedules"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}
