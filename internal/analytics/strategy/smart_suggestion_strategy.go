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
	"tcg-pricewatch/pkg/telegram"

	"github.com/google/uuid"
)

// SmartSuggestionStrategy evaluates the recommendation rules for every
// tracked card and replaces the stored recommendation set, then sends a
// Telegram digest of the fresh set.
type SmartSuggestionStrategy struct {
	cfg              *config.Config
	logger           *logger.Logger
	cardRepo         repository.CardRepository
	aggregateRepo    repository.PriceAggregateRepository
	trendRepo        repository.TrendSignalRepository
	recRepo          repository.RecommendationRepository
	telegramNotifier telegram.Notifier
}

// SmartSuggestionPayload defines the payload for the smart suggestion job.
type SmartSuggestionPayload struct {
	RuleSet string `json:"rule_set"`
	Notify  *bool  `json:"notify"`
}

// NewSmartSuggestionStrategy creates a new SmartSuggestionStrategy.
func NewSmartSuggestionStrategy(cfg *config.Config, log *logger.Logger, cardRepo repository.CardRepository, aggregateRepo repository.PriceAggregateRepository, trendRepo repository.TrendSignalRepository, recRepo repository.RecommendationRepository, telegramNotifier telegram.Notifier) JobExecutionStrategy {
	return &SmartSuggestionStrategy{
		cfg:              cfg,
		logger:           log,
		cardRepo:         cardRepo,
		aggregateRepo:    aggregateRepo,
		trendRepo:        trendRepo,
		recRepo:          recRepo,
		telegramNotifier: telegramNotifier,
	}
}

// GetType returns the job type this strategy handles.
func (s *SmartSuggestionStrategy) GetType() entity.JobType {
	return entity.JobTypeSmartSuggestion
}

// Execute rebuilds the full recommendation set in one run.
func (s *SmartSuggestionStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	var payload SmartSuggestionPayload
	if len(job.Payload) > 0 {
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			s.logger.Error("Failed to unmarshal job payload", logger.ErrorField(err), logger.Field("job_id", job.ID))
			return "", fmt.Errorf("failed to unmarshal job payload: %w", err)
		}
	}

	ruleSetName := payload.RuleSet
	if ruleSetName == "" {
		ruleSetName = s.cfg.Pricing.RuleSet
	}
	ruleSet, err := pricing.RuleSetByName(ruleSetName)
	if err != nil {
		s.logger.Error("Invalid rule set", logger.ErrorField(err), logger.StringField("rule_set", ruleSetName))
		return "", err
	}

	cards, err := s.cardRepo.GetActiveMaxTier(ctx, maxAnalysisTier)
	if err != nil {
		s.logger.Error("Failed to get cards", logger.ErrorField(err))
		return "", fmt.Errorf("failed to get cards: %w", err)
	}

	trends, err := s.trendRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to get trend signals", logger.ErrorField(err))
		return "", fmt.Errorf("failed to get trend signals: %w", err)
	}
	trendByCard := make(map[uint]string, len(trends))
	for _, signal := range trends {
		trendByCard[signal.CardID] = signal.Trend
	}

	runID := uuid.NewString()
	result := dto.SmartSuggestionResult{RunID: runID, CardCount: len(cards)}

	var recs []entity.Recommendation
	for _, card := range cards {
		latest, err := s.aggregateRepo.GetLatest(ctx, card.ID)
		if err != nil {
			s.logger.Error("Failed to get latest aggregate", logger.ErrorField(err), logger.Field("item_key", card.ItemKey))
			return "", fmt.Errorf("failed to get latest aggregate for %s: %w", card.ItemKey, err)
		}
		if latest == nil || latest.Median == nil {
			s.logger.Debug("No trustworthy clean price, skipping card", logger.StringField("item_key", card.ItemKey))
			continue
		}

		trend := trendByCard[card.ID]
		if trend == "" {
			trend = entity.TrendUnknown
		}

		in := pricing.Input{
			CleanPrice:     pricing.Round2(*latest.Median),
			ReferenceValue: card.ReferenceValue,
			Trend:          pricing.Label(trend),
			HighDemand:     card.HighDemand,
			Ownership:      pricing.Ownership(card.Ownership),
		}

		action, targets, ok := ruleSet.Evaluate(in)
		if !ok {
			continue
		}

		recs = append(recs, entity.Recommendation{
			CardID:          card.ID,
			ItemKey:         card.ItemKey,
			SuggestedAction: string(action),
			RuleSet:         ruleSet.Name,
			CleanPrice:      in.CleanPrice,
			ReferenceValue:  in.ReferenceValue,
			TargetBuy:       targets.Buy,
			TargetSell:      targets.Sell,
			Trend:           trend,
			Ownership:       card.Ownership,
			HighDemand:      card.HighDemand,
			RunID:           runID,
		})
	}
	result.Recommendations = len(recs)

	if err := s.recRepo.ReplaceAll(ctx, recs); err != nil {
		s.logger.Error("Failed to replace recommendations", logger.ErrorField(err))
		return "", fmt.Errorf("failed to replace recommendations: %w", err)
	}

	notify := payload.Notify == nil || *payload.Notify
	if notify {
		for _, message := range telegram.FormatRecommendationDigest(recs) {
			if err := s.telegramNotifier.SendMessage(message); err != nil {
				s.logger.Error("Failed to send recommendation digest", logger.ErrorField(err))
				break
			}
			result.Notified = true
		}
	}

	s.logger.Info("Smart suggestion run completed",
		logger.StringField("run_id", runID),
		logger.IntField("recommendations", len(recs)))

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}
	return string(resultJSON), nil
}
