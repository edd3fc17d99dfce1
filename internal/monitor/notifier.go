package monitor

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier delivers an alert to the user. A returned error is logged by the
// monitor and never retried.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// LogNotifier delivers alerts by writing them to the log. It stands in for a
// mail or SMS transport.
type LogNotifier struct {
	log        zerolog.Logger
	recipients []string
}

// NewLogNotifier creates a LogNotifier that tags each alert with recipients.
func NewLogNotifier(log zerolog.Logger, recipients []string) *LogNotifier {
	return &LogNotifier{
		log:        log.With().Str("component", "notifier").Logger(),
		recipients: recipients,
	}
}

// Notify writes the alert at warn level.
func (n *LogNotifier) Notify(_ context.Context, subject, body string) error {
	n.log.Warn().
		Strs("recipients", n.recipients).
		Str("subject", subject).
		Str("body", body).
		Msg("Threshold alert")
	return nil
}
