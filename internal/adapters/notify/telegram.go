package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

const (
	// Telegram limita a ~30 mensajes/min por chat.
	telegramSendInterval = 2 * time.Second
	telegramMaxPerBatch  = 10
)

// sender es el subconjunto de *tgbotapi.BotAPI que usa Telegram.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram envía un mensaje por lote de oportunidades a un chat.
// Los lotes vacíos no se envían.
type Telegram struct {
	bot      sender
	chatID   int64
	interval time.Duration

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegram crea el bot y verifica el token.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify.NewTelegram: %w", err)
	}
	slog.Info("telegram notifier initialized", "bot", bot.Self.UserName, "chat_id", chatID)
	return newTelegram(bot, chatID, telegramSendInterval), nil
}

func newTelegram(bot sender, chatID int64, interval time.Duration) *Telegram {
	return &Telegram{bot: bot, chatID: chatID, interval: interval}
}

// Notify implementa ports.Notifier.
func (t *Telegram) Notify(ctx context.Context, opportunities []domain.Opportunity) error {
	if len(opportunities) == 0 {
		return nil
	}

	if err := t.throttle(ctx); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, formatTelegram(opportunities))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("notify.Telegram: send: %w", err)
	}
	return nil
}

// throttle respeta el intervalo mínimo entre envíos.
func (t *Telegram) throttle(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if wait := t.interval - time.Since(t.lastSend); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	t.lastSend = time.Now()
	return nil
}

func formatTelegram(opps []domain.Opportunity) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%d edge opportunities</b>\n", len(opps))

	for i, opp := range opps {
		if i >= telegramMaxPerBatch {
			fmt.Fprintf(&sb, "\n… and %d more", len(opps)-telegramMaxPerBatch)
			break
		}
		fmt.Fprintf(&sb, "\n<b>%s</b> (<code>%s</code>)\n", escapeHTML(opp.EventName), escapeHTML(opp.Ticker))
		fmt.Fprintf(&sb, "Kalshi %.0f¢ vs book %+.0f (%.1f%%)\n",
			opp.MarketPrice*100, opp.SportsbookOdds, opp.SportsbookImpliedProb)
		fmt.Fprintf(&sb, "Edge %.1f%% · EV $%.2f on $%.0f · %s\n",
			opp.EdgePct, opp.ExpectedValue, opp.Stake, opp.Recommendation)
	}
	return sb.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
