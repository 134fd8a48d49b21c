package service

import (
	"context"

	"tcg-pricewatch/internal/entity"
	"tcg-pricewatch/internal/scheduler/dto"
	"tcg-pricewatch/internal/scheduler/repository"
	"tcg-pricewatch/pkg/logger"
)

// ExecutionHistoryService exposes read access to past job runs.
type ExecutionHistoryService interface {
	GetExecutionHistoryByID(ctx context.Context, id uint) (*dto.ExecutionHistoryResponse, error)
	GetAllExecutionHistories(ctx context.Context) ([]*dto.ExecutionHistoryResponse, error)
	GetExecutionHistoriesByJobID(ctx context.Context, jobID uint) ([]*dto.ExecutionHistoryResponse, error)
}

type executionHistoryService struct {
	histories repository.TaskExecutionHistoryRepository
	log       *logger.Logger
}

// NewExecutionHistoryService creates a new execution history service.
func NewExecutionHistoryService(histories repository.TaskExecutionHistoryRepository, log *logger.Logger) ExecutionHistoryService {
	return &executionHistoryService{histories: histories, log: log}
}

func (s *executionHistoryService) GetExecutionHistoryByID(ctx context.Context, id uint) (*dto.ExecutionHistoryResponse, error) {
	history, err := s.histories.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find execution history", logger.ErrorField(err), logger.Field("history_id", id))
		return nil, err
	}
	return historyResponse(history), nil
}

func (s *executionHistoryService) GetAllExecutionHistories(ctx context.Context) ([]*dto.ExecutionHistoryResponse, error) {
	histories, err := s.histories.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list execution histories", logger.ErrorField(err))
		return nil, err
	}
	return historyResponses(histories), nil
}

func (s *executionHistoryService) GetExecutionHistoriesByJobID(ctx context.Context, jobID uint) ([]*dto.ExecutionHistoryResponse, error) {
	histories, err := s.histories.FindAllByJobID(ctx, jobID)
	if err != nil {
		s.log.Error("Failed to list execution histories for job", logger.ErrorField(err), logger.Field("job_id", jobID))
		return nil, err
	}
	return historyResponses(histories), nil
}

func historyResponses(histories []entity.TaskExecutionHistory) []*dto.ExecutionHistoryResponse {
	out := make([]*dto.ExecutionHistoryResponse, 0, len(histories))
	for i := range histories {
		out = append(out, historyResponse(&histories[i]))
	}
	return out
}

func historyResponse(history *entity.TaskExecutionHistory) *dto.ExecutionHistoryResponse {
	var duration int64
	if history.CompletedAt.Valid {
		duration = history.CompletedAt.Time.Sub(history.StartedAt).Milliseconds()
	}

	output := history.Output.String
	if !history.Output.Valid && history.ErrorMessage.Valid {
		output = history.ErrorMessage.String
	}

	return &dto.ExecutionHistoryResponse{
		ID:         history.ID,
		JobID:      history.JobID,
		ScheduleID: history.ScheduleID,
		Status:     history.Status,
		ExecutedAt: history.StartedAt,
		Duration:   duration,
		Output:     output,
	}
}
