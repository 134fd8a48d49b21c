package service

import (
	"context"
	"errors"
	"fmt"

	"tcg-pricewatch/internal/entity"
	"tcg-pricewatch/internal/scheduler/dto"
	"tcg-pricewatch/internal/scheduler/repository"
	"tcg-pricewatch/pkg/logger"

	"github.com/robfig/cron/v3"
)

// ErrInvalidCron is returned when a schedule carries an expression the
// cron parser rejects.
var ErrInvalidCron = errors.New("invalid cron expression")

// ScheduleService manages cron schedules attached to jobs.
type ScheduleService interface {
	CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	GetScheduleByID(ctx context.Context, id uint) (*dto.ScheduleResponse, error)
	GetAllSchedules(ctx context.Context) ([]*dto.ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, id uint, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, id uint) error
}

type scheduleService struct {
	schedules repository.TaskScheduleRepository
	parser    cron.Parser
	log       *logger.Logger
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(schedules repository.TaskScheduleRepository, log *logger.Logger) ScheduleService {
	return &scheduleService{
		schedules: schedules,
		parser:    cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		log:       log,
	}
}

func (s *scheduleService) CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	if _, err := s.parser.Parse(req.CronExpression); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCron, req.CronExpression)
	}

	schedule := &entity.TaskSchedule{
		JobID:          req.JobID,
		CronExpression: req.CronExpression,
		IsActive:       req.IsActive,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		s.log.Error("Failed to create schedule", logger.ErrorField(err), logger.Field("job_id", req.JobID))
		return nil, err
	}

	s.log.Info("Schedule created", logger.Field("schedule_id", schedule.ID), logger.Field("job_id", req.JobID))
	return scheduleResponse(schedule), nil
}

func (s *scheduleService) GetScheduleByID(ctx context.Context, id uint) (*dto.ScheduleResponse, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return scheduleResponse(schedule), nil
}

func (s *scheduleService) GetAllSchedules(ctx context.Context) ([]*dto.ScheduleResponse, error) {
	schedules, err := s.schedules.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list schedules", logger.ErrorField(err))
		return nil, err
	}
	out := make([]*dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		out = append(out, scheduleResponse(&schedules[i]))
	}
	return out, nil
}

func (s *scheduleService) UpdateSchedule(ctx context.Context, id uint, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	if _, err := s.parser.Parse(req.CronExpression); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCron, req.CronExpression)
	}

	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find schedule for update", logger.ErrorField(err), logger.Field("schedule_id", id))
		return nil, err
	}

	// Changing the expression invalidates the precomputed next run; the
	// polling loop recomputes it on the next pass.
	if schedule.CronExpression != req.CronExpression {
		schedule.NextExecution.Valid = false
	}
	schedule.CronExpression = req.CronExpression
	schedule.IsActive = req.IsActive

	if err := s.schedules.Update(ctx, schedule); err != nil {
		s.log.Error("Failed to update schedule", logger.ErrorField(err), logger.Field("schedule_id", id))
		return nil, err
	}

	s.log.Info("Schedule updated", logger.Field("schedule_id", id))
	return scheduleResponse(schedule), nil
}

func (s *scheduleService) DeleteSchedule(ctx context.Context, id uint) error {
	if err := s.schedules.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete schedule", logger.ErrorField(err), logger.Field("schedule_id", id))
		return err
	}
	s.log.Info("Schedule deleted", logger.Field("schedule_id", id))
	return nil
}

func scheduleResponse(schedule *entity.TaskSchedule) *dto.ScheduleResponse {
	return &dto.ScheduleResponse{
		ID:             schedule.ID,
		JobID:          schedule.JobID,
		CronExpression: schedule.CronExpression,
		IsActive:       schedule.IsActive,
		NextExecution:  schedule.NextExecution,
		LastExecution:  schedule.LastExecution,
		CreatedAt:      schedule.CreatedAt,
		UpdatedAt:      schedule.UpdatedAt,
	}
}
