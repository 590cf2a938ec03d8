package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleHandler(t *testing.T) {
	buf := new(bytes.Buffer)
	h := NewConsoleHandler(buf, slog.LevelInfo)
	logger := slog.New(h.WithoutColor())

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.With("id", 1).WithGroup("event").Info("registered", "names", "click")
	assert.Contains(t, buf.String(), "INFO registered id: 1 event.names: click")

	buf.Reset()
	h.noColor = false
	slog.New(h).Error("failed")
	assert.Contains(t, buf.String(), "\x1b[31mERROR")
}
