package config

import (
	"time"

	"tcg-pricewatch/internal/pricing"
	"tcg-pricewatch/pkg/config"
)

// Analytics holds analytics-service specific configuration.
type Analytics struct {
	MaxConcurrentTasks              int           `mapstructure:"max_concurrent_tasks"`
	RedisStreamTaskExecutionTimeout time.Duration `mapstructure:"redis_stream_task_execution_timeout"`

	// Price aggregation stream
	RedisStreamPriceAggregationTimeout         time.Duration `mapstructure:"redis_stream_price_aggregation_timeout"`
	RedisStreamPriceAggregationRetryInterval   time.Duration `mapstructure:"redis_stream_price_aggregation_retry_interval"`
	RedisStreamPriceAggregationMaxIdleDuration time.Duration `mapstructure:"redis_stream_price_aggregation_max_idle_duration"`
	RedisStreamPriceAggregationMaxRetry        int           `mapstructure:"redis_stream_price_aggregation_max_retry"`
}

// Pricing holds the tunables for the cleaning and analysis pipeline.
type Pricing struct {
	Options     pricing.Options `mapstructure:",squash"`
	WindowDays  int             `mapstructure:"window_days"`
	TrendPreset string          `mapstructure:"trend_preset"`
	RuleSet     string          `mapstructure:"rule_set"`
}

// Config holds the full configuration for the analytics service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	Analytics Analytics       `mapstructure:"analytics"`
	Pricing   Pricing         `mapstructure:"pricing"`
	Telegram  config.Telegram `mapstructure:"telegram"`
}

// Load loads the analytics configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Pricing.Options == (pricing.Options{}) {
		cfg.Pricing.Options = pricing.DefaultOptions()
	}
	if cfg.Pricing.WindowDays <= 0 {
		cfg.Pricing.WindowDays = 30
	}
	return &cfg, nil
}
