package service

import (
	"context"
	"testing"
	"time"

	"tcg-pricewatch/internal/entity"
	"tcg-pricewatch/internal/scheduler/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduleRepo struct {
	created *entity.TaskSchedule
	byID    map[uint]*entity.TaskSchedule
}

func (f *fakeScheduleRepo) Create(_ context.Context, s *entity.TaskSchedule) error {
	s.ID = 1
	f.created = s
	return nil
}

func (f *fakeScheduleRepo) FindByID(_ context.Context, id uint) (*entity.TaskSchedule, error) {
	return f.byID[id], nil
}

func (f *fakeScheduleRepo) FindAll(context.Context) ([]entity.TaskSchedule, error) {
	return nil, nil
}

func (f *fakeScheduleRepo) FindDue(context.Context, time.Time) ([]entity.TaskSchedule, error) {
	return nil, nil
}

func (f *fakeScheduleRepo) Update(_ context.Context, s *entity.TaskSchedule) error {
	f.byID[s.ID] = s
	return nil
}

func (f *fakeScheduleRepo) Delete(context.Context, uint) error { return nil }

func TestCreateScheduleRejectsBadCron(t *testing.T) {
	repo := &fakeScheduleRepo{byID: map[uint]*entity.TaskSchedule{}}
	svc := NewScheduleService(repo, testLogger(t))

	_, err := svc.CreateSchedule(context.Background(), &dto.CreateScheduleRequest{
		JobID:          1,
		CronExpression: "every 5 minutes",
		IsActive:       true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCron)
	assert.Nil(t, repo.created)
}

func TestCreateSchedule(t *testing.T) {
	repo := &fakeScheduleRepo{byID: map[uint]*entity.TaskSchedule{}}
	svc := NewScheduleService(repo, testLogger(t))

	resp, err := svc.CreateSchedule(context.Background(), &dto.CreateScheduleRequest{
		JobID:          7,
		CronExpression: "0 3 * * *",
		IsActive:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), resp.JobID)
	assert.Equal(t, "0 3 * * *", resp.CronExpression)
	require.NotNil(t, repo.created)
}

func TestUpdateScheduleClearsNextExecutionOnNewExpression(t *testing.T) {
	existing := &entity.TaskSchedule{ID: 3, JobID: 7, CronExpression: "0 3 * * *", IsActive: true}
	existing.NextExecution.Time = time.Now().Add(time.Hour)
	existing.NextExecution.Valid = true

	repo := &fakeScheduleRepo{byID: map[uint]*entity.TaskSchedule{3: existing}}
	svc := NewScheduleService(repo, testLogger(t))

	resp, err := svc.UpdateSchedule(context.Background(), 3, &dto.UpdateScheduleRequest{
		CronExpression: "30 6 * * *",
		IsActive:       true,
	})
	require.NoError(t, err)
	assert.False(t, resp.NextExecution.Valid)
	assert.Equal(t, "30 6 * * *", resp.CronExpression)
}
