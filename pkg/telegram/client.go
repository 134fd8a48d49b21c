package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Notifier defines the interface for a Telegram notifier.
type Notifier interface {
	SendMessage(text string) error
	SendMessageUser(text string, chatID int64) error
}

// client is an implementation of Notifier.
type client struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
}

// NewClient creates a new Telegram notifier client. Sends are rate
// limited to stay under the Bot API per-chat message limits.
func NewClient(botToken string, chatID int64, maxMessagesPerMinute int) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	if maxMessagesPerMinute <= 0 {
		maxMessagesPerMinute = 20
	}
	return &client{
		bot:     bot,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(float64(maxMessagesPerMinute)/60.0), 1),
	}, nil
}

// SendMessage sends a message to the configured Telegram chat.
func (c *client) SendMessage(text string) error {
	return c.SendMessageUser(text, c.chatID)
}

// SendMessageUser sends a message to a specific chat.
func (c *client) SendMessageUser(text string, chatID int64) error {
	if err := c.limiter.Wait(context.Background()); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := c.bot.Send(msg)
	return err
}
