package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tcg-pricewatch/internal/entity"
	"tcg-pricewatch/internal/scheduler/dto"
	"tcg-pricewatch/internal/scheduler/repository"
	"tcg-pricewatch/pkg/logger"

	"gorm.io/datatypes"
)

// ErrInvalidJobType is returned when a request names a job type with no
// registered execution strategy.
var ErrInvalidJobType = errors.New("unknown job type")

// JobService manages job definitions and their attached schedules.
type JobService interface {
	CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	GetJobByID(ctx context.Context, id uint) (*dto.JobResponse, error)
	GetAllJobs(ctx context.Context) ([]*dto.JobResponse, error)
	UpdateJob(ctx context.Context, id uint, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	DeleteJob(ctx context.Context, id uint) error
}

type jobService struct {
	jobs repository.JobRepository
	log  *logger.Logger
}

// NewJobService creates a new job service.
func NewJobService(jobs repository.JobRepository, log *logger.Logger) JobService {
	return &jobService{jobs: jobs, log: log}
}

func (s *jobService) CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	job, err := jobFromRequest(req.Name, req.Description, req.Type, req.Payload, req.RetryPolicy, req.Timeout)
	if err != nil {
		return nil, err
	}
	for _, sd := range req.Schedules {
		job.Schedules = append(job.Schedules, entity.TaskSchedule{
			CronExpression: sd.CronExpression,
			IsActive:       sd.IsActive,
		})
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		s.log.Error("Failed to create job", logger.ErrorField(err), logger.StringField("name", req.Name))
		return nil, err
	}
	s.log.Info("Job created", logger.Field("job_id", job.ID), logger.StringField("type", req.Type))
	return jobResponse(job), nil
}

func (s *jobService) GetJobByID(ctx context.Context, id uint) (*dto.JobResponse, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return jobResponse(job), nil
}

func (s *jobService) GetAllJobs(ctx context.Context) ([]*dto.JobResponse, error) {
	jobs, err := s.jobs.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, jobResponse(&jobs[i]))
	}
	return out, nil
}

func (s *jobService) UpdateJob(ctx context.Context, id uint, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	existing, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find job for update", logger.ErrorField(err), logger.Field("job_id", id))
		return nil, err
	}

	job, err := jobFromRequest(req.Name, req.Description, req.Type, req.Payload, req.RetryPolicy, req.Timeout)
	if err != nil {
		return nil, err
	}
	job.ID = existing.ID
	job.CreatedAt = existing.CreatedAt

	// The full schedule set is replaced; the repository deletes the old
	// rows in the same transaction.
	for _, sd := range req.Schedules {
		job.Schedules = append(job.Schedules, entity.TaskSchedule{
			JobID:          job.ID,
			CronExpression: sd.CronExpression,
			IsActive:       sd.IsActive,
		})
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		s.log.Error("Failed to update job", logger.ErrorField(err), logger.Field("job_id", id))
		return nil, err
	}
	s.log.Info("Job updated", logger.Field("job_id", id))
	return jobResponse(job), nil
}

func (s *jobService) DeleteJob(ctx context.Context, id uint) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete job", logger.ErrorField(err), logger.Field("job_id", id))
		return err
	}
	s.log.Info("Job deleted", logger.Field("job_id", id))
	return nil
}

func jobFromRequest(name, description, jobType string, payload json.RawMessage, retry dto.RetryPolicyDTO, timeout int) (*entity.Job, error) {
	t := entity.JobType(jobType)
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidJobType, jobType)
	}
	retryBytes, err := json.Marshal(retry)
	if err != nil {
		return nil, err
	}
	return &entity.Job{
		Name:        name,
		Description: description,
		Type:        t,
		Payload:     datatypes.JSON(payload),
		RetryPolicy: datatypes.JSON(retryBytes),
		Timeout:     timeout,
	}, nil
}

func jobResponse(job *entity.Job) *dto.JobResponse {
	var retry dto.RetryPolicyDTO
	_ = json.Unmarshal(job.RetryPolicy, &retry)

	schedules := make([]dto.ScheduleResponseDTO, 0, len(job.Schedules))
	for _, sch := range job.Schedules {
		schedules = append(schedules, dto.ScheduleResponseDTO{
			ID:             sch.ID,
			CronExpression: sch.CronExpression,
			IsActive:       sch.IsActive,
			NextExecution:  sch.NextExecution,
			LastExecution:  sch.LastExecution,
		})
	}

	return &dto.JobResponse{
		ID:          job.ID,
		Name:        job.Name,
		Description: job.Description,
		Type:        string(job.Type),
		Payload:     json.RawMessage(job.Payload),
		RetryPolicy: retry,
		Timeout:     job.Timeout,
		Schedules:   schedules,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}
