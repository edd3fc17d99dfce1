package testutil

import (
	"context"
	"sync"
)

// SentNotification is one delivered alert captured by RecordingNotifier.
type SentNotification struct {
	Subject string
	Body    string
}

// RecordingNotifier captures notifications instead of delivering them.
// Set Err to simulate delivery failures.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []SentNotification
	Err  error
}

// NewRecordingNotifier creates a notifier that accepts every alert.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

// Notify records the alert and returns the configured error.
func (n *RecordingNotifier) Notify(_ context.Context, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, SentNotification{Subject: subject, Body: body})
	return n.Err
}

// Sent returns a copy of the recorded notifications.
func (n *RecordingNotifier) Sent() []SentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]SentNotification, len(n.sent))
	copy(out, n.sent)
	return out
}
