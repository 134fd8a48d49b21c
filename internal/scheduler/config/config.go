package config

import (
	"tcg-pricewatch/pkg/config"
)

// Scheduler tunes the due-schedule polling loop.
type Scheduler struct {
	PollingInterval   string `mapstructure:"polling_interval"`
	MaxConcurrentJobs int    `mapstructure:"max_concurrent_jobs"`
	DefaultTimeout    string `mapstructure:"default_timeout"`
}

// Config is the full configuration of the scheduling service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
}

// Load reads the scheduler configuration from path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
