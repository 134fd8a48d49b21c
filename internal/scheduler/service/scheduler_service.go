package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"tcg-pricewatch/internal/entity"
	"tcg-pricewatch/internal/scheduler/config"
	"tcg-pricewatch/internal/scheduler/repository"
	"tcg-pricewatch/pkg/common"
	"tcg-pricewatch/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// SchedulerService polls for due schedules and publishes them to the
// task execution stream.
type SchedulerService interface {
	Start(ctx context.Context)
	ProcessJobs(ctx context.Context)
}

type schedulerService struct {
	schedules       repository.TaskScheduleRepository
	histories       repository.TaskExecutionHistoryRepository
	redisClient     *redis.Client
	log             *logger.Logger
	pollingInterval time.Duration
	parser          cron.Parser
	cfg             *config.Config
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(schedules repository.TaskScheduleRepository, histories repository.TaskExecutionHistoryRepository, redisClient *redis.Client, log *logger.Logger, pollingInterval time.Duration, cfg *config.Config) SchedulerService {
	return &schedulerService{
		schedules:       schedules,
		histories:       histories,
		redisClient:     redisClient,
		log:             log,
		pollingInterval: pollingInterval,
		parser:          cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		cfg:             cfg,
	}
}

// Start begins the periodic polling loop and blocks until ctx is done.
func (s *schedulerService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Scheduler service stopping")
			return
		case <-ticker.C:
			s.ProcessJobs(ctx)
		}
	}
}

// ProcessJobs publishes every due schedule once and advances its next
// execution time.
func (s *schedulerService) ProcessJobs(ctx context.Context) {
	now := time.Now().UTC()
	due, err := s.schedules.FindDue(ctx, now)
	if err != nil {
		s.log.Error("Failed to find due schedules", logger.ErrorField(err))
		return
	}

	for _, schedule := range due {
		s.publishTask(ctx, schedule, now)
	}
}

func (s *schedulerService) publishTask(ctx context.Context, schedule entity.TaskSchedule, now time.Time) {
	history := &entity.TaskExecutionHistory{
		JobID:      schedule.JobID,
		ScheduleID: schedule.ID,
		Status:     entity.StatusRunning,
		StartedAt:  now,
	}
	if err := s.histories.Create(ctx, history); err != nil {
		s.log.Error("Failed to create task history", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
		return
	}

	// The consumer side loads the job by ID from this history record.
	payload, err := json.Marshal(history)
	if err != nil {
		s.log.Error("Failed to marshal task payload", logger.ErrorField(err), logger.Field("history_id", history.ID))
		return
	}

	if err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamSchedulerTaskExecution,
		Values: map[string]interface{}{"payload": payload},
		MaxLen: s.cfg.Redis.StreamMaxLen,
	}).Err(); err != nil {
		s.log.Error("Failed to enqueue task", logger.ErrorField(err), logger.Field("history_id", history.ID))
		s.markFailed(ctx, history, err)
		return
	}

	s.log.Info("Task published",
		logger.Field("history_id", history.ID),
		logger.Field("job_id", schedule.JobID))

	s.advanceSchedule(ctx, schedule, now)
}

func (s *schedulerService) markFailed(ctx context.Context, history *entity.TaskExecutionHistory, cause error) {
	history.Status = entity.StatusFailed
	history.CompletedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	history.ErrorMessage = sql.NullString{String: cause.Error(), Valid: true}
	if err := s.histories.Update(ctx, history); err != nil {
		s.log.Error("Failed to update task history", logger.ErrorField(err), logger.Field("history_id", history.ID))
	}
}

func (s *schedulerService) advanceSchedule(ctx context.Context, schedule entity.TaskSchedule, now time.Time) {
	cronSchedule, err := s.parser.Parse(schedule.CronExpression)
	if err != nil {
		// Write services validate expressions, so this only happens on
		// rows edited outside the API.
		s.log.Error("Failed to parse cron expression", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
		return
	}

	schedule.LastExecution = sql.NullTime{Time: now, Valid: true}
	schedule.NextExecution = sql.NullTime{Time: cronSchedule.Next(now), Valid: true}

	if err := s.schedules.Update(ctx, &schedule); err != nil {
		s.log.Error("Failed to update next execution time", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
	}
}
