package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tesla-crm/internal/config"
	"tesla-crm/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ===========================================================================
// Telegram Notifier
// Pushes new-lead alerts to a Telegram chat. Delivery is best effort:
// failures are logged and never propagate to the caller.
// ===========================================================================

// Notifier interface for lead notifications
type Notifier interface {
	// NotifyNewLead sends an alert for a freshly created lead
	NotifyNewLead(ctx context.Context, lead *models.Lead)
}

// telegramAPI base URL, the bot token is appended per request
const telegramAPI = "https://api.telegram.org"

// TelegramNotifier implements Notifier over the Bot API
type TelegramNotifier struct {
	botToken string
	chatID   string
	client   *resty.Client
	log      *zap.Logger
}

// NewTelegramNotifier creates a Telegram notifier
func NewTelegramNotifier(cfg config.TelegramConfig, log *zap.Logger) *TelegramNotifier {
	client := resty.New().
		SetBaseURL(telegramAPI).
		SetTimeout(10 * time.Second)

	return &TelegramNotifier{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		client:   client,
		log:      log,
	}
}

// sendMessagePayload Telegram sendMessage request body
type sendMessagePayload struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// NotifyNewLead sends an alert for a freshly created lead
func (n *TelegramNotifier) NotifyNewLead(ctx context.Context, lead *models.Lead) {
	text := formatLeadAlert(lead)

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(sendMessagePayload{ChatID: n.chatID, Text: text}).
		Post(fmt.Sprintf("/bot%s/sendMessage", n.botToken))

	if err != nil {
		n.log.Warn("telegram notify failed", zap.Error(err))
		return
	}

	if resp.StatusCode() != 200 {
		n.log.Warn("telegram notify bad status",
			zap.Int("status", resp.StatusCode()),
		)
		return
	}

	n.log.Debug("telegram lead alert sent",
		zap.String("lead_id", lead.ID.String()),
	)
}

// formatLeadAlert builds the alert text for a lead
func formatLeadAlert(lead *models.Lead) string {
	var b strings.Builder
	b.WriteString("Nuevo lead:\n")
	b.WriteString("Nombre: " + lead.FullName() + "\n")
	if lead.Email != nil {
		b.WriteString("Email: " + *lead.Email + "\n")
	}
	if lead.Phone != nil {
		b.WriteString("Tel: " + *lead.Phone + "\n")
	}
	b.WriteString("Fuente: " + string(lead.Source))
	if lead.Notes != nil && *lead.Notes != "" {
		b.WriteString("\nMensaje: " + *lead.Notes)
	}
	return b.String()
}

// ===========================================================================
// Noop Notifier (for when Telegram is not configured)
// ===========================================================================

// NoopNotifier does nothing (used when notifications are disabled)
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) NotifyNewLead(ctx context.Context, lead *models.Lead) {}
