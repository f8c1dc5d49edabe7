package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/malphas-lang/malphas-lang/internal/logging"
)

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("info", "text", &buf)
	logger.Info("hello", "key", "value")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "key=value")
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("info", "json", &buf)
	logger.Info("hello")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("warn", "text", &buf)
	logger.Info("should be suppressed")
	assert.Empty(t, buf.String())

	logger.Warn("should appear")
	assert.Contains(t, buf.String(), "should appear")
}
