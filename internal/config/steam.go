package config

import "time"

type Steam struct {
	SteamID        string        `env:"STEAM_ID,required" validate:"numeric,len=17"`
	AppID          int           `env:"STEAM_APP_ID" envDefault:"730"`
	ContextID      int           `env:"STEAM_CONTEXT_ID" envDefault:"2"`
	Currency       int           `env:"STEAM_CURRENCY" envDefault:"3" validate:"min=1"`
	Language       string        `env:"STEAM_LANGUAGE" envDefault:"english"`
	PageSize       int           `env:"STEAM_PAGE_SIZE" envDefault:"100" validate:"min=1,max=2000"`
	BaseURL        string        `env:"STEAM_BASE_URL" envDefault:"https://steamcommunity.com" validate:"url"`
	RequestTimeout time.Duration `env:"STEAM_REQUEST_TIMEOUT" envDefault:"10s"`
}
