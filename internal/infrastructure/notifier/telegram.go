// Package notifier pushes valuation-change alerts to a Telegram chat.
package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"inv_checker/internal/domain/entity"
	"inv_checker/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// ValueChange describes a total-value move between two valuation runs.
type ValueChange struct {
	Report        entity.Report
	PreviousTotal float64
	ChangePercent float64
}

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run drains value changes from the channel until it closes.
func (b *TelegramBot) Run(ctx context.Context, changes <-chan ValueChange) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-changes:
			if !ok {
				return nil
			}

			if err := b.SendValueChange(ctx, change); err != nil {
				logger(ctx).Error("failed to send value change", "error", err)
			}
		}
	}
}

func (b *TelegramBot) SendValueChange(ctx context.Context, change ValueChange) error {
	direction := "📈"
	if change.ChangePercent < 0 {
		direction = "📉"
	}

	text := fmt.Sprintf(
		"%s <b>Inventory value changed</b>\n\n"+
			"👤 <b>Account:</b> %s\n"+
			"💰 <b>Total:</b> %.2f %s\n"+
			"📊 <b>Previous:</b> %.2f %s\n"+
			"Δ <b>Change:</b> %+.1f%%",
		direction,
		change.Report.SteamID,
		change.Report.TotalValue,
		change.Report.Currency,
		change.PreviousTotal,
		change.Report.Currency,
		change.ChangePercent,
	)

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	_, err := b.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText sends a plain text message.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}
