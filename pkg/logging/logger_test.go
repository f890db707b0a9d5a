package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerReturnsSingleton(t *testing.T) {
	first := GetLogger()
	require.NotNil(t, first)

	second := GetLogger()
	assert.Same(t, first, second)
}

func TestTestLoggerCapturesOutput(t *testing.T) {
	logger, buf := NewTestLoggerWithBuffer()

	logger.Info("stored upload", "filename", "clip.mp4")
	logger.Debug("debug detail")

	out := buf.String()
	assert.Contains(t, out, "stored upload")
	assert.Contains(t, out, "clip.mp4")
	assert.Contains(t, out, "debug detail")
}

func TestBaseLogger(t *testing.T) {
	logger := NewTestLogger()
	assert.NotNil(t, logger.BaseLogger())
}
