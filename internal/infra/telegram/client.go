// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot     *telebot.Bot
	limiter *rate.Limiter
}

// NewTelebotAdapter wraps b. Sends are throttled to ratePerSec messages per
// second, which keeps bursts of status changes under the Bot API chat limit.
func NewTelebotAdapter(b *telebot.Bot, ratePerSec int) *TelebotAdapter {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	return &TelebotAdapter{
		bot:     b,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
	}
}

// NewBot creates a send-only bot. No poller is started: the bot never
// receives updates. With offline set the getMe check is skipped.
func NewBot(token, apiURL string, timeout time.Duration, offline bool) (*telebot.Bot, error) {
	pref := telebot.Settings{
		Token:   token,
		URL:     apiURL,
		Offline: offline,
	}
	if timeout > 0 {
		pref.Client = &http.Client{Timeout: timeout}
	}
	b, err := telebot.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return b, nil
}

// SendMessage sends a text message to the specified chat.
func (tba *TelebotAdapter) SendMessage(ctx context.Context, recipientChatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}
	if err := tba.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send throttled: %w", err)
	}

	recipient := &telebot.Chat{ID: recipientChatID}
	_, err := tba.bot.Send(recipient, text, options)
	return err
}
