package notifier

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	errs "github.com/Elieez/PricePilot/pkg/errors"
)

// TelegramNotifier sends offers as messages to a single chat
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram creates a Telegram notifier for the given bot token and chat
func NewTelegram(token, chatID string) (*TelegramNotifier, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, errs.NewConfiguration("invalid telegram_chat_id "+chatID, err)
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errs.NewConfiguration("failed to authorize telegram bot", err)
	}
	bot.Debug = false

	return &TelegramNotifier{bot: bot, chatID: id}, nil
}

// Send delivers the notification as a plain-text message
func (t *TelegramNotifier) Send(_ context.Context, n Notification) error {
	text := fmt.Sprintf("%s\n%s\n%s", n.Title, n.Description, n.Link)
	if n.Footer != "" {
		text += "\n— " + n.Footer
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return errs.NewNotify("telegram", "failed to send message", err)
	}
	return nil
}
