// Package notify defines the notification interface and its delivery
// backends.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Notifier delivers a plain-text message to an external endpoint.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Backend names accepted by New.
const (
	BackendMessageAPI = "message_api"
	BackendDiscord    = "discord"
	BackendNoOp       = "noop"
)

// Settings selects and configures a backend for New.
type Settings struct {
	Backend  string
	Endpoint string
	Timeout  time.Duration
}

// New builds the Notifier selected by s.Backend.
func New(s Settings, log *slog.Logger) (Notifier, error) {
	client := &http.Client{Timeout: s.Timeout}

	switch s.Backend {
	case BackendMessageAPI, "":
		return NewMessageAPINotifier(s.Endpoint, WithHTTPClient(client)), nil
	case BackendDiscord:
		return NewDiscordNotifier(s.Endpoint, WithHTTPClient(client)), nil
	case BackendNoOp:
		return NewNoOpNotifier(log), nil
	default:
		return nil, fmt.Errorf("unknown notifier backend %q", s.Backend)
	}
}
