package config

// Notifier is optional: valuation-change alerts are sent only when the bot
// token is set.
type Notifier struct {
	BotToken              string  `env:"BOT_TOKEN" json:"-"`
	ChatID                int64   `env:"BOT_CHAT_ID"`
	AlertThresholdPercent float64 `env:"ALERT_THRESHOLD_PERCENT" envDefault:"5"`
}

func (n Notifier) Enabled() bool {
	return n.BotToken != "" && n.ChatID != 0
}
