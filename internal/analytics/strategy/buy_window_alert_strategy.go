package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"tcg-pricewatch/internal/analytics/dto"
	"tcg-pricewatch/internal/analytics/repository"
	"tcg-pricewatch/internal/entity"
	"tcg-pricewatch/internal/pricing"
	"tcg-pricewatch/pkg/logger"
	redisPkg "tcg-pricewatch/pkg/redis"
	"tcg-pricewatch/pkg/telegram"

	"github.com/patrickmn/go-cache"
	redis "github.com/redis/go-redis/v9"
)

const (
	redisKeyBuyWindowAlert = "buy_window_alert:%s"
	redisKeyLastCleanPrice = "last_clean_price:%s"
)

// BuyWindowAlertStrategy notifies when a wanted card's clean price drops
// into the buy window derived from its reference value.
type BuyWindowAlertStrategy struct {
	logger           *logger.Logger
	inmemoryCache    *cache.Cache
	cardRepo         repository.CardRepository
	aggregateRepo    repository.PriceAggregateRepository
	trendRepo        repository.TrendSignalRepository
	telegramNotifier telegram.Notifier
	redisClient      *redisPkg.Client
}

// BuyWindowAlertPayload defines the payload for the buy window alert job.
type BuyWindowAlertPayload struct {
	AlertCacheDuration          string  `json:"alert_cache_duration"`
	AlertResendThresholdPercent float64 `json:"alert_resend_threshold_percent"`
}

// NewBuyWindowAlertStrategy creates a new instance of BuyWindowAlertStrategy.
func NewBuyWindowAlertStrategy(log *logger.Logger, cardRepo repository.CardRepository, aggregateRepo repository.PriceAggregateRepository, trendRepo repository.TrendSignalRepository, telegramNotifier telegram.Notifier, redisClient *redisPkg.Client) *BuyWindowAlertStrategy {
	return &BuyWindowAlertStrategy{
		logger:           log,
		inmemoryCache:    cache.New(5*time.Minute, 10*time.Minute),
		cardRepo:         cardRepo,
		aggregateRepo:    aggregateRepo,
		trendRepo:        trendRepo,
		telegramNotifier: telegramNotifier,
		redisClient:      redisClient,
	}
}

// GetType returns the job type this strategy handles.
func (s *BuyWindowAlertStrategy) GetType() entity.JobType {
	return entity.JobTypeBuyWindowAlert
}

// Execute runs the buy window alert job.
func (s *BuyWindowAlertStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	s.logger.DebugContext(ctx, "Executing buy window alert job", logger.IntField("job_id", int(job.ID)))

	var (
		payload BuyWindowAlertPayload
		results []dto.BuyWindowAlertResult
	)
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		s.logger.Error("Failed to unmarshal job payload", logger.ErrorField(err), logger.IntField("job_id", int(job.ID)))
		return FAILED, fmt.Errorf("failed to unmarshal job payload: %w", err)
	}

	alertCacheDuration, err := time.ParseDuration(payload.AlertCacheDuration)
	if err != nil {
		s.logger.Error("Failed to parse alert_cache_duration", logger.ErrorField(err), logger.StringField("alert_cache_duration", payload.AlertCacheDuration), logger.IntField("job_id", int(job.ID)))
		return FAILED, fmt.Errorf("failed to parse alert_cache_duration: %w", err)
	}

	ruleSet, err := pricing.RuleSetByName("ownership")
	if err != nil {
		return FAILED, err
	}

	cards, err := s.cardRepo.GetByOwnership(ctx, entity.OwnershipWanted)
	if err != nil {
		return FAILED, err
	}

	trends, err := s.trendRepo.FindAll(ctx)
	if err != nil {
		return FAILED, err
	}
	trendByCard := make(map[uint]string, len(trends))
	for _, signal := range trends {
		trendByCard[signal.CardID] = signal.Trend
	}

	for _, card := range cards {
		resultData := dto.BuyWindowAlertResult{ItemKey: card.ItemKey}

		s.logger.DebugContext(ctx, "Processing buy window check", logger.StringField("item_key", card.ItemKey))
		latest, err := s.aggregateRepo.GetLatest(ctx, card.ID)
		if err != nil {
			s.logger.Error("Failed to get latest aggregate", logger.ErrorField(err), logger.StringField("item_key", card.ItemKey))
			resultData.Status = FAILED
			resultData.Errors = err.Error()
			results = append(results, resultData)
			continue
		}
		if latest == nil || latest.Median == nil {
			resultData.Status = SKIPPED
			results = append(results, resultData)
			continue
		}
		cleanPrice := *latest.Median

		trend := trendByCard[card.ID]
		if trend == "" {
			trend = entity.TrendUnknown
		}

		// staleness guard against hammering Redis within a run burst
		if _, found := s.inmemoryCache.Get(card.ItemKey); found {
			resultData.Status = SKIPPED
			results = append(results, resultData)
			continue
		}
		s.inmemoryCache.SetDefault(card.ItemKey, cleanPrice)

		key := fmt.Sprintf(redisKeyLastCleanPrice, card.ItemKey)
		redisPipe := s.redisClient.Pipeline()
		redisPipe.HSet(ctx, key, map[string]interface{}{
			"price":     cleanPrice,
			"timestamp": time.Now().Unix(),
		})
		redisPipe.Expire(ctx, key, alertCacheDuration+2*time.Minute)
		if _, errRedis := redisPipe.Exec(ctx); errRedis != nil {
			s.logger.Error("Failed to execute Redis pipeline",
				logger.ErrorField(errRedis), logger.StringField("item_key", card.ItemKey))
		}

		action, _, ok := ruleSet.Evaluate(pricing.Input{
			CleanPrice:     cleanPrice,
			ReferenceValue: card.ReferenceValue,
			Trend:          pricing.Label(trend),
			HighDemand:     card.HighDemand,
			Ownership:      pricing.OwnershipWanted,
		})
		if !ok || action != pricing.ActionBuyNow {
			resultData.Status = SKIPPED
			results = append(results, resultData)
			continue
		}

		targetBuy := pricing.DeriveTargets(card.ReferenceValue, pricing.Label(trend)).Buy
		if err := s.sendBuyWindowAlert(ctx, &card, cleanPrice, targetBuy, trend, alertCacheDuration, payload.AlertResendThresholdPercent); err != nil {
			s.logger.Error("Failed to send buy window alert", logger.ErrorField(err), logger.StringField("item_key", card.ItemKey))
			resultData.Status = FAILED
			resultData.Errors = err.Error()
			results = append(results, resultData)
			continue
		}

		resultData.Status = SUCCESS
		results = append(results, resultData)
	}

	resultJSON, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	return string(resultJSON), nil
}

func (s *BuyWindowAlertStrategy) sendBuyWindowAlert(ctx context.Context, card *entity.Card, cleanPrice, targetBuy float64, trend string, cacheDuration time.Duration, resendThresholdPercent float64) error {
	ok, err := s.shouldTriggerAlert(ctx, card, cleanPrice, resendThresholdPercent)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	message := telegram.FormatBuyWindowAlert(card.ItemKey, cleanPrice, targetBuy, trend)
	if err := s.telegramNotifier.SendMessage(message); err != nil {
		s.logger.Error("Failed to send alert", logger.ErrorField(err), logger.StringField("item_key", card.ItemKey))
		return err
	}

	s.logger.Debug("Sent buy window alert", logger.StringField("item_key", card.ItemKey))

	return s.redisClient.Set(ctx, fmt.Sprintf(redisKeyBuyWindowAlert, card.ItemKey), cleanPrice, cacheDuration).Err()
}

func (s *BuyWindowAlertStrategy) getLastAlertPrice(ctx context.Context, card *entity.Card) (float64, error) {
	lastAlertPrice, err := s.redisClient.Get(ctx, fmt.Sprintf(redisKeyBuyWindowAlert, card.ItemKey)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return strconv.ParseFloat(lastAlertPrice, 64)
}

func (s *BuyWindowAlertStrategy) shouldTriggerAlert(ctx context.Context, card *entity.Card, cleanPrice float64, resendThresholdPercent float64) (bool, error) {
	lastAlertPrice, err := s.getLastAlertPrice(ctx, card)
	if err != nil {
		return false, err
	}

	if lastAlertPrice == 0 {
		return true, nil
	}

	diff := math.Abs(cleanPrice - lastAlertPrice)
	percentChange := (diff / lastAlertPrice) * 100

	if percentChange >= resendThresholdPercent {
		s.logger.Debug("Trigger resend alert", logger.StringField("item_key", card.ItemKey), logger.IntField("clean_price", int(cleanPrice)), logger.IntField("last_alert_price", int(lastAlertPrice)), logger.IntField("percent_change", int(percentChange)))
		return true, nil
	}

	s.logger.Debug("Skip resend alert", logger.StringField("item_key", card.ItemKey), logger.IntField("clean_price", int(cleanPrice)), logger.IntField("last_alert_price", int(lastAlertPrice)), logger.IntField("percent_change", int(percentChange)))

	return false, nil
}
