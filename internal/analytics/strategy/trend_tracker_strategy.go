package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"tcg-pricewatch/internal/analytics/config"
	"tcg-pricewatch/internal/analytics/dto"
	"tcg-pricewatch/internal/analytics/repository"
	"tcg-pricewatch/internal/entity"
	"tcg-pricewatch/internal/pricing"
	"tcg-pricewatch/pkg/logger"
	"tcg-pricewatch/pkg/utils"

	"github.com/google/uuid"
)

// TrendTrackerStrategy classifies the price direction of every tracked
// card from its clean price history and replaces the stored signal set.
type TrendTrackerStrategy struct {
	cfg           *config.Config
	logger        *logger.Logger
	cardRepo      repository.CardRepository
	aggregateRepo repository.PriceAggregateRepository
	trendRepo     repository.TrendSignalRepository
}

// TrendTrackerPayload defines the payload for the trend tracker job.
type TrendTrackerPayload struct {
	Preset     string `json:"preset"`
	WindowDays int    `json:"window_days"`
}

// NewTrendTrackerStrategy creates a new TrendTrackerStrategy.
func NewTrendTrackerStrategy(cfg *config.Config, log *logger.Logger, cardRepo repository.CardRepository, aggregateRepo repository.PriceAggregateRepository, trendRepo repository.TrendSignalRepository) JobExecutionStrategy {
	return &TrendTrackerStrategy{
		cfg:           cfg,
		logger:        log,
		cardRepo:      cardRepo,
		aggregateRepo: aggregateRepo,
		trendRepo:     trendRepo,
	}
}

// GetType returns the job type this strategy handles.
func (s *TrendTrackerStrategy) GetType() entity.JobType {
	return entity.JobTypeTrendTracker
}

// Execute rebuilds the full trend signal set in one run.
func (s *TrendTrackerStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	var payload TrendTrackerPayload
	if len(job.Payload) > 0 {
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			s.logger.Error("Failed to unmarshal job payload", logger.ErrorField(err), logger.Field("job_id", job.ID))
			return "", fmt.Errorf("failed to unmarshal job payload: %w", err)
		}
	}

	preset := payload.Preset
	if preset == "" {
		preset = s.cfg.Pricing.TrendPreset
	}
	opts, err := pricing.TrendPreset(preset)
	if err != nil {
		s.logger.Error("Invalid trend preset", logger.ErrorField(err), logger.StringField("preset", preset))
		return "", err
	}

	windowDays := payload.WindowDays
	if windowDays <= 0 {
		windowDays = s.cfg.Pricing.WindowDays
	}

	cards, err := s.cardRepo.GetActiveMaxTier(ctx, maxAnalysisTier)
	if err != nil {
		s.logger.Error("Failed to get cards", logger.ErrorField(err))
		return "", fmt.Errorf("failed to get cards: %w", err)
	}

	runID := uuid.NewString()
	result := dto.TrendTrackerResult{RunID: runID, CardCount: len(cards)}

	signals := make([]entity.TrendSignal, 0, len(cards))
	for _, card := range cards {
		aggregates, err := s.aggregateRepo.GetSince(ctx, card.ID, utils.DaysAgo(windowDays))
		if err != nil {
			s.logger.Error("Failed to get price history", logger.ErrorField(err), logger.Field("item_key", card.ItemKey))
			return "", fmt.Errorf("failed to get price history for %s: %w", card.ItemKey, err)
		}

		history := make([]float64, 0, len(aggregates))
		for _, agg := range aggregates {
			if agg.Median != nil {
				history = append(history, *agg.Median)
			}
		}

		signal := pricing.ClassifyTrend(history, opts)
		if signal.Trend == pricing.LabelUnknown {
			result.Unknown++
		} else {
			result.Classified++
		}

		signals = append(signals, entity.TrendSignal{
			CardID:         card.ID,
			ItemKey:        card.ItemKey,
			Trend:          string(signal.Trend),
			PctChange:      signal.PctChange,
			LastPrice:      signal.Last,
			PriorPrice:     signal.Prior,
			WindowAverage:  signal.WindowAverage,
			SpikeTrend:     string(signal.SpikeTrend),
			SpikePctChange: signal.SpikePctChange,
			SampleSize:     signal.SampleSize,
			RunID:          runID,
		})
	}

	if err := s.trendRepo.ReplaceAll(ctx, signals); err != nil {
		s.logger.Error("Failed to replace trend signals", logger.ErrorField(err))
		return "", fmt.Errorf("failed to replace trend signals: %w", err)
	}

	s.logger.Info("Trend tracker run completed",
		logger.StringField("run_id", runID),
		logger.IntField("classified", result.Classified),
		logger.IntField("unknown", result.Unknown))

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}
	return string(resultJSON), nil
}
