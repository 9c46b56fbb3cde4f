package config

import "time"

type Cache struct {
	File     string        `env:"CACHE_FILE" envDefault:"price_cache.json"`
	Duration time.Duration `env:"CACHE_DURATION" envDefault:"24h"`
}
