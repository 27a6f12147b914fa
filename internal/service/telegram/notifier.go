package telegram

import (
	"context"
	"fmt"
	"time"

	"SignalGate/internal/domain/models"
	"SignalGate/internal/domain/repository"
	xhttp "SignalGate/pkg/http"
	xlogger "SignalGate/pkg/logger"
)

const notConfigured = "NOT_CONFIGURED"

// Notifier delivers signal summaries to a fixed Telegram channel.
// Delivery is best effort: an unconfigured bot token is a logged no-op,
// and callers are expected to swallow errors after logging them.
type Notifier struct {
	client    *xhttp.Client
	logger    *xlogger.Logger
	apiBase   string
	botToken  string
	channelID string
}

// Option configures Notifier.
type Option func(*Notifier)

// WithAPIBase overrides the Telegram API base URL (used in tests).
func WithAPIBase(base string) Option {
	return func(n *Notifier) {
		n.apiBase = base
	}
}

func New(botToken, channelID string, timeout time.Duration, l *xlogger.Logger, opts ...Option) *Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	n := &Notifier{
		client:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		logger:    l,
		apiBase:   "https://api.telegram.org",
		botToken:  botToken,
		channelID: channelID,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Configured reports whether a usable bot token is present.
func (n *Notifier) Configured() bool {
	return n.botToken != "" && n.botToken != notConfigured
}

// Notify sends one formatted signal summary. Not configured is a no-op
// success.
func (n *Notifier) Notify(ctx context.Context, s *models.Signal) error {
	if !n.Configured() {
		n.logger.Info("telegram not configured, skipping notification",
			xlogger.String("signal_id", s.ID))
		return nil
	}

	var reply struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	err := n.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken),
		Body: map[string]any{
			"chat_id":    n.channelID,
			"text":       FormatSignal(s),
			"parse_mode": "HTML",
		},
	}, &reply)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if !reply.OK {
		return fmt.Errorf("telegram send: %s", reply.Description)
	}

	n.logger.Info("telegram notification sent",
		xlogger.String("signal_id", s.ID),
		xlogger.String("channel", n.channelID))
	return nil
}

// FormatSignal renders the human-readable channel message.
func FormatSignal(s *models.Signal) string {
	return fmt.Sprintf(
		"<b>%s %s</b> [%s]\n"+
			"Entry: <code>%v</code>\n"+
			"Stop: <code>%v</code>\n"+
			"Target: <code>%v</code>\n"+
			"RR: <code>%v</code> | Score: <code>%d/10</code>\n"+
			"<code>%s</code>\n"+
			"%s",
		s.Direction, s.Asset, s.Status,
		s.EntryPrice, s.StopLoss, s.TakeProfit,
		s.RRRatio, s.ConfidenceScore,
		s.ID,
		s.Timestamp.Format(time.RFC3339),
	)
}

var _ repository.Notifier = (*Notifier)(nil)
