package notify

import (
	"context"
)

// MessageAPINotifier posts {"message": text} to a relay endpoint that
// forwards it to a chat (Telegram in the reference deployment).
type MessageAPINotifier struct {
	webhook
}

type messagePayload struct {
	Message string `json:"message"`
}

// NewMessageAPINotifier creates a MessageAPINotifier for endpoint.
func NewMessageAPINotifier(endpoint string, opts ...Option) *MessageAPINotifier {
	return &MessageAPINotifier{webhook: newWebhook("message api", endpoint, opts...)}
}

// Notify implements Notifier.
func (n *MessageAPINotifier) Notify(ctx context.Context, text string) error {
	return n.post(ctx, messagePayload{Message: text})
}

var _ Notifier = (*MessageAPINotifier)(nil)
