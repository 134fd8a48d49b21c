package strategy

import (
	"context"
	"testing"
	"time"

	"tcg-pricewatch/internal/analytics/config"
	"tcg-pricewatch/internal/entity"
	"tcg-pricewatch/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeCardRepo struct {
	cards []entity.Card
}

func (f *fakeCardRepo) GetActive(ctx context.Context) ([]entity.Card, error) { return f.cards, nil }
func (f *fakeCardRepo) GetActiveMaxTier(ctx context.Context, maxTier int) ([]entity.Card, error) {
	return f.cards, nil
}
func (f *fakeCardRepo) FindByItemKey(ctx context.Context, itemKey string) (*entity.Card, error) {
	return nil, nil
}
func (f *fakeCardRepo) GetByOwnership(ctx context.Context, ownership string) ([]entity.Card, error) {
	return nil, nil
}

type fakeAggregateRepo struct {
	latest map[uint]*entity.PriceAggregate
}

func (f *fakeAggregateRepo) ReplaceForCard(ctx context.Context, cardID uint, since time.Time, aggregates []entity.PriceAggregate) error {
	return nil
}
func (f *fakeAggregateRepo) GetSince(ctx context.Context, cardID uint, since time.Time) ([]entity.PriceAggregate, error) {
	return nil, nil
}
func (f *fakeAggregateRepo) GetLatest(ctx context.Context, cardID uint) (*entity.PriceAggregate, error) {
	return f.latest[cardID], nil
}

type fakeTrendRepo struct {
	signals []entity.TrendSignal
}

func (f *fakeTrendRepo) ReplaceAll(ctx context.Context, signals []entity.TrendSignal) error {
	return nil
}
func (f *fakeTrendRepo) FindAll(ctx context.Context) ([]entity.TrendSignal, error) {
	return f.signals, nil
}

type fakeRecRepo struct {
	recs []entity.Recommendation
}

func (f *fakeRecRepo) ReplaceAll(ctx context.Context, recs []entity.Recommendation) error {
	f.recs = recs
	return nil
}
func (f *fakeRecRepo) FindAll(ctx context.Context) ([]entity.Recommendation, error) {
	return f.recs, nil
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) SendMessage(text string) error { f.sent = append(f.sent, text); return nil }
func (f *fakeNotifier) SendMessageUser(text string, chatID int64) error {
	f.sent = append(f.sent, text)
	return nil
}

func TestSmartSuggestionRoundsCleanPriceBeforeRules(t *testing.T) {
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.Pricing.RuleSet = "standard"

	// A raw stored median carries more precision than the reporting
	// scale; the rule engine and the stored recommendation must both see
	// the 2-decimal clean price.
	median := 21.6449
	recRepo := &fakeRecRepo{}
	s := NewSmartSuggestionStrategy(cfg, log,
		&fakeCardRepo{cards: []entity.Card{{ID: 1, ItemKey: "card-1", Tier: 1, ReferenceValue: 25, IsActive: true}}},
		&fakeAggregateRepo{latest: map[uint]*entity.PriceAggregate{1: {CardID: 1, ItemKey: "card-1", Median: &median, SampleSize: 5}}},
		&fakeTrendRepo{},
		recRepo,
		&fakeNotifier{})

	job := &entity.Job{ID: 1, Type: entity.JobTypeSmartSuggestion, Payload: datatypes.JSON(`{"notify": false}`)}
	_, err = s.Execute(context.Background(), job)
	require.NoError(t, err)

	require.Len(t, recRepo.recs, 1)
	rec := recRepo.recs[0]
	assert.Equal(t, "BUY_NOW", rec.SuggestedAction)
	assert.Equal(t, 21.64, rec.CleanPrice)
	assert.Equal(t, 16.23, rec.TargetBuy)
	assert.Equal(t, 18.39, rec.TargetSell)
	assert.Equal(t, entity.TrendUnknown, rec.Trend)
}

func TestSmartSuggestionSkipsCardsWithoutCleanPrice(t *testing.T) {
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.Pricing.RuleSet = "standard"

	recRepo := &fakeRecRepo{}
	s := NewSmartSuggestionStrategy(cfg, log,
		&fakeCardRepo{cards: []entity.Card{{ID: 2, ItemKey: "card-2", Tier: 1, IsActive: true}}},
		&fakeAggregateRepo{latest: map[uint]*entity.PriceAggregate{2: {CardID: 2, ItemKey: "card-2"}}},
		&fakeTrendRepo{},
		recRepo,
		&fakeNotifier{})

	job := &entity.Job{ID: 2, Type: entity.JobTypeSmartSuggestion, Payload: datatypes.JSON(`{"notify": false}`)}
	_, err = s.Execute(context.Background(), job)
	require.NoError(t, err)
	assert.Empty(t, recRepo.recs)
}
