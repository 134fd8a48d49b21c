package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"tcg-pricewatch/internal/analytics/config"
	"tcg-pricewatch/internal/analytics/dto"
	"tcg-pricewatch/internal/analytics/repository"
	"tcg-pricewatch/internal/entity"
	"tcg-pricewatch/internal/pricing"
	"tcg-pricewatch/pkg/common"
	"tcg-pricewatch/pkg/logger"
	"tcg-pricewatch/pkg/telegram"
	"tcg-pricewatch/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// PriceAggregatorService consumes per-card aggregation tasks from the
// price aggregation stream and rebuilds each card's cleaned daily price
// history.
type PriceAggregatorService interface {
	ProcessTask(ctx context.Context)
	ProcessRetries(ctx context.Context)
	Aggregate(ctx context.Context, itemKey string, runID string) error
}

type priceAggregatorService struct {
	cfg           *config.Config
	log           *logger.Logger
	redisClient   *redis.Client
	cardRepo      repository.CardRepository
	obsRepo       repository.ListingObservationRepository
	aggregateRepo repository.PriceAggregateRepository
	telegramBot   telegram.Notifier
}

// NewPriceAggregatorService creates a new PriceAggregatorService.
func NewPriceAggregatorService(cfg *config.Config, log *logger.Logger,
	redisClient *redis.Client,
	cardRepo repository.CardRepository,
	obsRepo repository.ListingObservationRepository,
	aggregateRepo repository.PriceAggregateRepository,
	telegramBot telegram.Notifier) PriceAggregatorService {
	return &priceAggregatorService{
		cfg:           cfg,
		log:           log,
		redisClient:   redisClient,
		cardRepo:      cardRepo,
		obsRepo:       obsRepo,
		aggregateRepo: aggregateRepo,
		telegramBot:   telegramBot,
	}
}

func (s *priceAggregatorService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamPriceAggregation, ">"}, // ">" means only new messages
		Count:    1,
		Block:    2 * time.Second, // Block for 2 seconds to allow graceful shutdown
	}).Result()
	if err != nil {
		// Ignore context cancellation and timeout errors, as they are expected during shutdown or idle periods.
		if err == context.Canceled || err == redis.Nil {
			return
		}
		s.log.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]

	// The task data is expected to be a JSON string in the 'payload' field.
	taskData, ok := message.Values["payload"].(string)
	if !ok {
		s.log.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", message.ID))
		return
	}

	var streamData dto.StreamDataPriceAggregation
	if err := json.Unmarshal([]byte(taskData), &streamData); err != nil {
		s.log.Error("Failed to unmarshal task data", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	s.log.Debug("Processing price aggregation task", logger.StringField("item_key", streamData.ItemKey), logger.StringField("run_id", streamData.RunID))

	if err := s.Aggregate(ctx, streamData.ItemKey, streamData.RunID); err != nil {
		s.log.Error("Failed to aggregate card prices", logger.ErrorField(err), logger.Field("message_id", message.ID), logger.StringField("item_key", streamData.ItemKey))
		return
	}
	if err := s.AckNDel(ctx, common.RedisStreamPriceAggregation, message.ID); err != nil {
		s.log.Error("Failed to acknowledge and delete price aggregation task", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	s.log.Debug("Price aggregation task processed successfully", logger.StringField("item_key", streamData.ItemKey), logger.StringField("run_id", streamData.RunID))
}

// buildDailyAggregates groups sold listing samples by sale day and
// summarizes each day, ascending by date. A card with no samples in the
// window still yields one zero-sample row dated today so the gap stays
// visible in the stored history.
func buildDailyAggregates(card *entity.Card, observations []entity.ListingObservation, opts pricing.Options, runID string, now time.Time) []entity.PriceAggregate {
	if len(observations) == 0 {
		return []entity.PriceAggregate{{
			CardID:     card.ID,
			ItemKey:    card.ItemKey,
			SampleDate: utils.DateOnly(now),
			RunID:      runID,
		}}
	}

	pricesByDay := make(map[time.Time][]float64)
	for _, obs := range observations {
		day := utils.DateOnly(obs.SoldAt)
		pricesByDay[day] = append(pricesByDay[day], obs.Price)
	}

	days := make([]time.Time, 0, len(pricesByDay))
	for day := range pricesByDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	aggregates := make([]entity.PriceAggregate, 0, len(days))
	for _, day := range days {
		agg := pricing.AggregateSold(pricesByDay[day], opts)
		aggregates = append(aggregates, entity.PriceAggregate{
			CardID:     card.ID,
			ItemKey:    card.ItemKey,
			SampleDate: day,
			Median:     agg.Median,
			Average:    agg.Average,
			SampleSize: agg.SampleSize,
			RawCount:   agg.RawCount,
			RunID:      runID,
		})
	}
	return aggregates
}

// Aggregate rebuilds one card's daily aggregate set from its sold
// listing samples inside the configured window. Only rows inside the
// window are replaced; aggregates older than the window keep their last
// computed value.
func (s *priceAggregatorService) Aggregate(ctx context.Context, itemKey string, runID string) error {
	card, err := s.cardRepo.FindByItemKey(ctx, itemKey)
	if err != nil {
		s.log.Error("Failed to find card", logger.ErrorField(err), logger.StringField("item_key", itemKey))
		return err
	}

	cutoff := utils.DaysAgo(s.cfg.Pricing.WindowDays)
	observations, err := s.obsRepo.GetSince(ctx, card.ID, cutoff)
	if err != nil {
		s.log.Error("Failed to get listing observations", logger.ErrorField(err), logger.StringField("item_key", itemKey))
		return err
	}

	aggregates := buildDailyAggregates(card, observations, s.cfg.Pricing.Options, runID, time.Now())

	if err := s.aggregateRepo.ReplaceForCard(ctx, card.ID, utils.DateOnly(cutoff), aggregates); err != nil {
		s.log.Error("Failed to replace price aggregates", logger.ErrorField(err), logger.StringField("item_key", itemKey))
		return err
	}

	s.log.Debug("Replaced price aggregates",
		logger.StringField("item_key", itemKey),
		logger.IntField("days", len(aggregates)),
		logger.IntField("raw_samples", len(observations)))

	return nil
}

func (s *priceAggregatorService) AckNDel(ctx context.Context, streamName string, messageID string) error {
	if err := s.redisClient.XAck(ctx, streamName, common.RedisStreamGroup, messageID).Err(); err != nil {
		s.log.Error("Failed to acknowledge price aggregation task", logger.ErrorField(err), logger.Field("message_id", messageID))
		return err
	}
	if err := s.redisClient.XDel(ctx, streamName, messageID).Err(); err != nil {
		s.log.Error("Failed to delete price aggregation task", logger.ErrorField(err), logger.Field("message_id", messageID))
		return err
	}
	return nil
}

func (s *priceAggregatorService) ProcessRetries(ctx context.Context) {
	msgs, _, err := s.redisClient.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   common.RedisStreamPriceAggregation,
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer + "-retry",
		MinIdle:  s.cfg.Analytics.RedisStreamPriceAggregationMaxIdleDuration,
		Start:    "0",
		Count:    1,
	}).Result()

	if err != nil {
		s.log.Error("Failed to claim price aggregation task on retry", logger.ErrorField(err))
		return
	}

	if len(msgs) == 0 {
		s.log.Debug("Retry No pending messages found", logger.StringField("stream", common.RedisStreamPriceAggregation))
		return
	}

	s.log.Info("Found pending messages", logger.StringField("stream", common.RedisStreamPriceAggregation))

	pendingInfo, err := s.redisClient.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: common.RedisStreamPriceAggregation,
		Group:  common.RedisStreamGroup,
		Start:  msgs[0].ID,
		End:    msgs[0].ID,
		Count:  1,
	}).Result()

	if err != nil {
		s.log.Error("Failed to get pending info", logger.ErrorField(err))
		return
	}

	if len(pendingInfo) == 0 {
		s.log.Warn("pending msg not found, but exist on xautoclaim",
			logger.StringField("stream", common.RedisStreamPriceAggregation),
			logger.StringField("message_id", msgs[0].ID))
		return
	}

	msg := msgs[0]
	// The task data is expected to be a JSON string in the 'payload' field.
	taskData, ok := msg.Values["payload"].(string)
	if !ok {
		s.log.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", msg.ID))
		return
	}

	var streamData dto.StreamDataPriceAggregation
	if err := json.Unmarshal([]byte(taskData), &streamData); err != nil {
		s.log.Error("Failed to unmarshal task data", logger.ErrorField(err), logger.Field("message_id", msg.ID))
		return
	}

	if pendingInfo[0].RetryCount >= int64(s.cfg.Analytics.RedisStreamPriceAggregationMaxRetry) {
		s.log.Error("pending msg retry count exceeded",
			logger.StringField("stream", common.RedisStreamPriceAggregation),
			logger.StringField("message_id", msg.ID),
			logger.StringField("item_key", streamData.ItemKey),
			logger.IntField("retry_count", int(pendingInfo[0].RetryCount)),
			logger.IntField("max_retry", s.cfg.Analytics.RedisStreamPriceAggregationMaxRetry),
		)
		msgTelegram := telegram.FormatErrorAlertMessage(time.Now(), fmt.Sprintf("Price aggregation task retry count exceeded for card %s", streamData.ItemKey))
		if err := s.telegramBot.SendMessage(msgTelegram); err != nil {
			s.log.Error("Failed to send telegram message retry exceeded", logger.ErrorField(err), logger.StringField("item_key", streamData.ItemKey))
		}
		if err := s.AckNDel(ctx, common.RedisStreamPriceAggregation, msg.ID); err != nil {
			s.log.Error("Failed to acknowledge and delete price aggregation task", logger.ErrorField(err), logger.Field("message_id", msg.ID))
			return
		}
		return
	}

	if err := s.Aggregate(ctx, streamData.ItemKey, streamData.RunID); err != nil {
		s.log.Error("Failed to aggregate card prices", logger.ErrorField(err), logger.Field("message_id", msg.ID), logger.StringField("item_key", streamData.ItemKey))
		return
	}

	if err := s.AckNDel(ctx, common.RedisStreamPriceAggregation, msg.ID); err != nil {
		s.log.Error("Failed to acknowledge and delete price aggregation task", logger.ErrorField(err), logger.Field("message_id", msg.ID))
		return
	}
	s.log.Info("Retry price aggregation task processed successfully", logger.StringField("item_key", streamData.ItemKey), logger.StringField("run_id", streamData.RunID))
}
