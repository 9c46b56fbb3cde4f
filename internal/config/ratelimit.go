package config

import "time"

// RateLimit tunes the adaptive pacing of upstream requests. The growth factor
// and cap are deliberately configuration, not constants: the useful values are
// empirical.
type RateLimit struct {
	BaseDelay    time.Duration `env:"RATE_BASE_DELAY" envDefault:"1s"`
	MaxDelay     time.Duration `env:"RATE_MAX_DELAY" envDefault:"60s"`
	GrowthFactor float64       `env:"RATE_GROWTH_FACTOR" envDefault:"2.0" validate:"gt=1"`
	Jitter       float64       `env:"RATE_JITTER" envDefault:"0.2" validate:"gte=0,lt=1"`
	MaxAttempts  int           `env:"RATE_MAX_ATTEMPTS" envDefault:"5" validate:"min=1"`
}
