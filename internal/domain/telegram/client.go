package telegram

import (
	"context"

	"gopkg.in/telebot.v3"
)

// Client defines an interface for sending messages via a Telegram bot.
type Client interface {
	SendMessage(ctx context.Context, recipientChatID int64, text string, options *telebot.SendOptions) error
}
