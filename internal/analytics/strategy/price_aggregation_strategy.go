package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"tcg-pricewatch/internal/analytics/dto"
	"tcg-pricewatch/internal/analytics/repository"
	"tcg-pricewatch/internal/entity"
	"tcg-pricewatch/pkg/common"
	"tcg-pricewatch/pkg/logger"
	"tcg-pricewatch/pkg/redis"

	"github.com/google/uuid"
	goRedis "github.com/redis/go-redis/v9"
)

// PriceAggregationStrategy fans out one aggregation task per tracked
// card onto the price aggregation stream.
type PriceAggregationStrategy struct {
	logger      *logger.Logger
	redisClient *redis.Client
	cardRepo    repository.CardRepository
}

// PriceAggregationPayload defines the payload for the fan-out job.
type PriceAggregationPayload struct {
	SkipItems []string `json:"skip_items"`
}

// NewPriceAggregationStrategy creates a new PriceAggregationStrategy.
func NewPriceAggregationStrategy(log *logger.Logger, redisClient *redis.Client, cardRepo repository.CardRepository) JobExecutionStrategy {
	return &PriceAggregationStrategy{logger: log, redisClient: redisClient, cardRepo: cardRepo}
}

// GetType returns the job type this strategy handles.
func (s *PriceAggregationStrategy) GetType() entity.JobType {
	return entity.JobTypePriceAggregation
}

// Execute enqueues one stream task per active card.
func (s *PriceAggregationStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	var payload PriceAggregationPayload
	if len(job.Payload) > 0 {
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			s.logger.Error("Failed to unmarshal job payload", logger.ErrorField(err), logger.Field("job_id", job.ID))
			return "", fmt.Errorf("failed to unmarshal job payload: %w", err)
		}
	}

	cards, err := s.cardRepo.GetActive(ctx)
	if err != nil {
		s.logger.Error("Failed to get cards", logger.ErrorField(err))
		return "", fmt.Errorf("failed to get cards: %w", err)
	}

	skipItems := make(map[string]bool)
	for _, item := range payload.SkipItems {
		skipItems[item] = true
	}

	runID := uuid.NewString()
	isSuccess := false

	var results []dto.PriceAggregationResult
	for _, card := range cards {
		if skipItems[card.ItemKey] {
			s.logger.Info("Skipping card", logger.Field("item_key", card.ItemKey))
			continue
		}

		streamData := &dto.StreamDataPriceAggregation{
			ItemKey: card.ItemKey,
			RunID:   runID,
		}

		streamDataJSON, err := json.Marshal(streamData)
		if err != nil {
			s.logger.Error("Failed to marshal price aggregation payload", logger.ErrorField(err))
			results = append(results, dto.PriceAggregationResult{
				ItemKey: card.ItemKey,
				Success: false,
				Error:   err.Error(),
			})
			continue
		}

		if err := s.redisClient.XAdd(ctx, &goRedis.XAddArgs{
			Stream: common.RedisStreamPriceAggregation,
			Values: map[string]interface{}{"payload": streamDataJSON},
		}).Err(); err != nil {
			s.logger.Error("Failed to enqueue price aggregation task", logger.ErrorField(err), logger.Field("item_key", card.ItemKey))
			results = append(results, dto.PriceAggregationResult{
				ItemKey: card.ItemKey,
				Success: false,
				Error:   err.Error(),
			})
			continue
		}
		isSuccess = true
		results = append(results, dto.PriceAggregationResult{
			ItemKey: card.ItemKey,
			Success: true,
		})
	}

	resultJSON, err := json.Marshal(results)
	if err != nil {
		s.logger.Error("Failed to marshal results", logger.ErrorField(err))
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	if isSuccess || len(cards) == 0 {
		return string(resultJSON), nil
	}

	return "", fmt.Errorf("failed to enqueue price aggregation tasks")
}
