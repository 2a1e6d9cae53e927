package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"elbasta-backend/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier is told about every order that was persisted.
type Notifier interface {
	OrderPlaced(ctx context.Context, o models.Order)
}

// Nop drops every notification.
type Nop struct{}

func (Nop) OrderPlaced(context.Context, models.Order) {}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts the order summary to an admin chat. Messages are sent in the
// background; failures are logged and never reach the customer.
type Telegram struct {
	bot    sender
	chatID int64
	logger *zap.Logger
	wg     sync.WaitGroup
}

// sendTimeout bounds every Bot API call so Close cannot hang on a stuck send.
const sendTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: sendTimeout}
}

func NewTelegram(token string, chatID int64, logger *zap.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, newHTTPClient())
	if err != nil {
		return nil, err
	}
	logger.Info("telegram alerts enabled", zap.String("bot", api.Self.UserName))
	return newTelegram(api, chatID, logger), nil
}

func newTelegram(bot sender, chatID int64, logger *zap.Logger) *Telegram {
	return &Telegram{bot: bot, chatID: chatID, logger: logger}
}

func (t *Telegram) OrderPlaced(ctx context.Context, o models.Order) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		if err := ctx.Err(); err != nil {
			t.logger.Warn("telegram order alert dropped",
				zap.String("trackingId", o.TrackingID),
				zap.Error(err),
			)
			return
		}

		msg := tgbotapi.NewMessage(t.chatID, OrderSummary(o))
		msg.DisableWebPagePreview = true
		if _, err := t.bot.Send(msg); err != nil {
			t.logger.Error("telegram order alert failed",
				zap.String("trackingId", o.TrackingID),
				zap.Error(err),
			)
		}
	}()
}

// Close waits for alerts still in flight.
func (t *Telegram) Close() {
	t.wg.Wait()
}
