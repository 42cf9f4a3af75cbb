package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/donaldgifford/retail-price-tracker/internal/metrics"
	"github.com/donaldgifford/retail-price-tracker/internal/notify"
)

// Notification kinds, used as metric labels.
const (
	kindChange         = "change"
	kindError          = "error"
	kindInitialSummary = "initial_summary"
	kindDailySummary   = "daily_summary"
)

// deliver sends text and reports whether it was delivered. Failures are
// logged and counted, never retried.
func deliver(ctx context.Context, n notify.Notifier, log *slog.Logger, kind, text string) bool {
	if err := n.Notify(ctx, text); err != nil {
		log.Error("sending notification", "kind", kind, "error", err)
		metrics.NotificationFailuresTotal.Inc()
		return false
	}
	metrics.NotificationsSentTotal.WithLabelValues(kind).Inc()
	return true
}

// ErrorMessage formats the ad-hoc notification for an extraction failure.
func ErrorMessage(url string, err error) string {
	return fmt.Sprintf("Error scraping %s: %v", url, err)
}
