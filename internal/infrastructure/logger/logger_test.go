package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("chatty"))
}

func TestNew(t *testing.T) {
	log, sync, err := New("debug")
	require.NoError(t, err)
	require.NotNil(t, log)
	require.NotNil(t, sync)

	assert.NotPanics(t, func() {
		log.WithFields(map[string]any{"component": "test"}).Debug("logger ready")
	})
	assert.NotNil(t, Nop())
}
