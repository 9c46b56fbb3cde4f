package config

import "time"

type Worker struct {
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"1h"`
}
