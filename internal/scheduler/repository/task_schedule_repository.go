package repository

import (
	"context"
	"time"

	"tcg-pricewatch/internal/entity"

	"gorm.io/gorm"
)

// TaskScheduleRepository defines the interface for task schedule data operations.
type TaskScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.TaskSchedule) error
	FindByID(ctx context.Context, id uint) (*entity.TaskSchedule, error)
	FindAll(ctx context.Context) ([]entity.TaskSchedule, error)
	FindDue(ctx context.Context, now time.Time) ([]entity.TaskSchedule, error)
	Update(ctx context.Context, schedule *entity.TaskSchedule) error
	Delete(ctx context.Context, id uint) error
}

type taskScheduleRepository struct {
	db *gorm.DB
}

// NewTaskScheduleRepository creates a new GORM-based task schedule repository.
func NewTaskScheduleRepository(db *gorm.DB) TaskScheduleRepository {
	return &taskScheduleRepository{db: db}
}

func (r *taskScheduleRepository) Create(ctx context.Context, schedule *entity.TaskSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *taskScheduleRepository) FindByID(ctx context.Context, id uint) (*entity.TaskSchedule, error) {
	var schedule entity.TaskSchedule
	if err := r.db.WithContext(ctx).First(&schedule, id).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *taskScheduleRepository) FindAll(ctx context.Context) ([]entity.TaskSchedule, error) {
	var schedules []entity.TaskSchedule
	if err := r.db.WithContext(ctx).Order("job_id asc, id asc").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// FindDue returns active schedules whose next execution is unset or has
// passed. A NULL next_execution means the schedule was never run or its
// expression changed.
func (r *taskScheduleRepository) FindDue(ctx context.Context, now time.Time) ([]entity.TaskSchedule, error) {
	var schedules []entity.TaskSchedule
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND (next_execution IS NULL OR next_execution <= ?)", true, now).
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *taskScheduleRepository) Update(ctx context.Context, schedule *entity.TaskSchedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

func (r *taskScheduleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.TaskSchedule{}, id).Error
}
