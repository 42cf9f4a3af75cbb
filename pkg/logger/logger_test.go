package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/retail-price-tracker/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		" info ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"trace":   slog.LevelInfo,
	} {
		assert.Equal(t, want, logger.ParseLevel(in), "level %q", in)
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		format  string
		log     func(*slog.Logger)
		want    []string
		notWant []string
		empty   bool
	}{
		{
			name:    "text",
			level:   "info",
			format:  "text",
			log:     func(l *slog.Logger) { l.Info("scan cycle complete", "variants", 4) },
			want:    []string{"level=INFO", `msg="scan cycle complete"`, "variants=4"},
			notWant: []string{"source="},
		},
		{
			name:   "json is case insensitive",
			level:  "info",
			format: "JSON",
			log:    func(l *slog.Logger) { l.Warn("retries exhausted", "url", "https://clement.ca/x") },
			want:   []string{`"level":"WARN"`, `"msg":"retries exhausted"`, `"url":"https://clement.ca/x"`},
		},
		{
			name:   "debug adds source",
			level:  "debug",
			format: "text",
			log:    func(l *slog.Logger) { l.Debug("fetching page") },
			want:   []string{"level=DEBUG", "source="},
		},
		{
			name:   "debug suppressed at info",
			level:  "info",
			format: "text",
			log:    func(l *slog.Logger) { l.Debug("fetching page") },
			empty:  true,
		},
		{
			name:   "info suppressed at warn",
			level:  "warn",
			format: "json",
			log:    func(l *slog.Logger) { l.Info("price unchanged") },
			empty:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tt.log(logger.NewWithWriter(&buf, tt.level, tt.format))

			if tt.empty {
				assert.Empty(t, buf.String())
				return
			}
			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestNewAndDiscard(t *testing.T) {
	t.Parallel()

	require.NotNil(t, logger.New("info", "text"))

	l := logger.Discard()
	require.NotNil(t, l)
	l.Error("dropped")
}
