package service

import (
	"context"
	"testing"
	"time"

	"tcg-pricewatch/internal/analytics/config"
	"tcg-pricewatch/internal/entity"
	"tcg-pricewatch/internal/pricing"
	"tcg-pricewatch/pkg/logger"
	"tcg-pricewatch/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCardRepo struct {
	card *entity.Card
}

func (f *fakeCardRepo) GetActive(ctx context.Context) ([]entity.Card, error) { return nil, nil }
func (f *fakeCardRepo) GetActiveMaxTier(ctx context.Context, maxTier int) ([]entity.Card, error) {
	return nil, nil
}
func (f *fakeCardRepo) FindByItemKey(ctx context.Context, itemKey string) (*entity.Card, error) {
	return f.card, nil
}
func (f *fakeCardRepo) GetByOwnership(ctx context.Context, ownership string) ([]entity.Card, error) {
	return nil, nil
}

type fakeObsRepo struct {
	obs []entity.ListingObservation
}

func (f *fakeObsRepo) Create(ctx context.Context, obs *entity.ListingObservation) error { return nil }
func (f *fakeObsRepo) CreateBatch(ctx context.Context, obs []entity.ListingObservation) error {
	return nil
}
func (f *fakeObsRepo) GetSince(ctx context.Context, cardID uint, since time.Time) ([]entity.ListingObservation, error) {
	return f.obs, nil
}

type fakeAggregateRepo struct {
	cardID uint
	since  time.Time
	rows   []entity.PriceAggregate
}

func (f *fakeAggregateRepo) ReplaceForCard(ctx context.Context, cardID uint, since time.Time, aggregates []entity.PriceAggregate) error {
	f.cardID = cardID
	f.since = since
	f.rows = aggregates
	return nil
}
func (f *fakeAggregateRepo) GetSince(ctx context.Context, cardID uint, since time.Time) ([]entity.PriceAggregate, error) {
	return nil, nil
}
func (f *fakeAggregateRepo) GetLatest(ctx context.Context, cardID uint) (*entity.PriceAggregate, error) {
	return nil, nil
}

func newAggregatorForTest(t *testing.T, obs []entity.ListingObservation) (*priceAggregatorService, *fakeAggregateRepo) {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.Pricing.Options = pricing.DefaultOptions()
	cfg.Pricing.WindowDays = 30
	aggRepo := &fakeAggregateRepo{}
	svc := NewPriceAggregatorService(cfg, log, nil,
		&fakeCardRepo{card: &entity.Card{ID: 7, ItemKey: "card-7"}},
		&fakeObsRepo{obs: obs},
		aggRepo, nil)
	return svc.(*priceAggregatorService), aggRepo
}

func TestAggregateReplacesOnlyTheRecomputedWindow(t *testing.T) {
	now := time.Now().UTC()
	obs := []entity.ListingObservation{
		{CardID: 7, Price: 10, SoldAt: now.AddDate(0, 0, -1)},
		{CardID: 7, Price: 12, SoldAt: now.AddDate(0, 0, -1)},
		{CardID: 7, Price: 11, SoldAt: now.AddDate(0, 0, -3)},
	}
	svc, aggRepo := newAggregatorForTest(t, obs)

	require.NoError(t, svc.Aggregate(context.Background(), "card-7", "run-1"))

	assert.Equal(t, uint(7), aggRepo.cardID)
	// Rows older than the window must survive the replace, so the delete
	// cutoff handed to the repository is the window start, not zero time.
	assert.Equal(t, utils.DateOnly(utils.DaysAgo(30)), aggRepo.since)
	require.Len(t, aggRepo.rows, 2)
	assert.True(t, aggRepo.rows[0].SampleDate.Before(aggRepo.rows[1].SampleDate))
}

func TestAggregateWritesZeroSampleRowWhenNothingSold(t *testing.T) {
	svc, aggRepo := newAggregatorForTest(t, nil)

	require.NoError(t, svc.Aggregate(context.Background(), "card-7", "run-2"))

	// An empty scrape still produces a visible gap marker instead of
	// silently clearing the window.
	require.Len(t, aggRepo.rows, 1)
	row := aggRepo.rows[0]
	assert.Equal(t, uint(7), row.CardID)
	assert.Equal(t, "card-7", row.ItemKey)
	assert.Equal(t, utils.DateOnly(time.Now()), row.SampleDate)
	assert.Zero(t, row.SampleSize)
	assert.Zero(t, row.RawCount)
	assert.Nil(t, row.Median)
	assert.Nil(t, row.Average)
	assert.Equal(t, "run-2", row.RunID)
}

func TestBuildDailyAggregatesGroupsByDayAscending(t *testing.T) {
	card := &entity.Card{ID: 3, ItemKey: "card-3"}
	now := time.Now().UTC()
	obs := []entity.ListingObservation{
		{Price: 5, SoldAt: now},
		{Price: 6, SoldAt: now.AddDate(0, 0, -2)},
		{Price: 7, SoldAt: now.AddDate(0, 0, -2)},
	}

	rows := buildDailyAggregates(card, obs, pricing.DefaultOptions(), "run-3", now)

	require.Len(t, rows, 2)
	assert.Equal(t, utils.DateOnly(now.AddDate(0, 0, -2)), rows[0].SampleDate)
	assert.Equal(t, utils.DateOnly(now), rows[1].SampleDate)
	assert.Equal(t, 2, rows[0].RawCount)
	assert.Equal(t, 1, rows[1].RawCount)
	assert.Equal(t, "run-3", rows[0].RunID)
}
