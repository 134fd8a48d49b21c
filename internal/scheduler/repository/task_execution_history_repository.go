package repository

import (
	"context"

	"tcg-pricewatch/internal/entity"

	"gorm.io/gorm"
)

// TaskExecutionHistoryRepository defines the interface for task execution history data operations.
type TaskExecutionHistoryRepository interface {
	Create(ctx context.Context, history *entity.TaskExecutionHistory) error
	FindByID(ctx context.Context, id uint) (*entity.TaskExecutionHistory, error)
	FindAll(ctx context.Context) ([]entity.TaskExecutionHistory, error)
	FindAllByJobID(ctx context.Context, jobID uint) ([]entity.TaskExecutionHistory, error)
	Update(ctx context.Context, history *entity.TaskExecutionHistory) error
}

type taskExecutionHistoryRepository struct {
	db *gorm.DB
}

// NewTaskExecutionHistoryRepository creates a new GORM-based task execution history repository.
func NewTaskExecutionHistoryRepository(db *gorm.DB) TaskExecutionHistoryRepository {
	return &taskExecutionHistoryRepository{db: db}
}

func (r *taskExecutionHistoryRepository) Create(ctx context.Context, history *entity.TaskExecutionHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *taskExecutionHistoryRepository) FindByID(ctx context.Context, id uint) (*entity.TaskExecutionHistory, error) {
	var history entity.TaskExecutionHistory
	if err := r.db.WithContext(ctx).First(&history, id).Error; err != nil {
		return nil, err
	}
	return &history, nil
}

// FindAll returns every run, newest first.
func (r *taskExecutionHistoryRepository) FindAll(ctx context.Context) ([]entity.TaskExecutionHistory, error) {
	var histories []entity.TaskExecutionHistory
	if err := r.db.WithContext(ctx).Order("started_at desc").Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}

// FindAllByJobID returns the runs of one job, newest first.
func (r *taskExecutionHistoryRepository) FindAllByJobID(ctx context.Context, jobID uint) ([]entity.TaskExecutionHistory, error) {
	var histories []entity.TaskExecutionHistory
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("started_at desc").
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}

// Update writes the non-zero fields of history back to its row.
func (r *taskExecutionHistoryRepository) Update(ctx context.Context, history *entity.TaskExecutionHistory) error {
	return r.db.WithContext(ctx).Updates(history).Error
}
