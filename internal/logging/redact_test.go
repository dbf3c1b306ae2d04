package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fyrsmithlabs/taskwave/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferedLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := NewDefaultConfig()
	cfg.Sampling.Enabled = false
	logger, err := NewLogger(cfg, nil, WithWriter(&buf))
	require.NoError(t, err)
	return logger, &buf
}

func TestRedaction_SensitiveKeys(t *testing.T) {
	logger, buf := newBufferedLogger(t)

	logger.Info(context.Background(), "connecting",
		zap.String("token", "abc123"),
		zap.String("Authorization", "Basic xyz"),
		zap.String("url", "nats://localhost:4222"),
	)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "[REDACTED]", lines[0]["token"])
	assert.Equal(t, "[REDACTED]", lines[0]["Authorization"])
	assert.Equal(t, "nats://localhost:4222", lines[0]["url"])
	assert.NotContains(t, buf.String(), "abc123")
}

func TestRedaction_Patterns(t *testing.T) {
	logger, buf := newBufferedLogger(t)

	logger.Info(context.Background(), "request",
		zap.String("header", "Bearer eyJhbGciOi"),
		zap.Error(errors.New("auth failed: token=s3cr3t")),
	)

	assert.NotContains(t, buf.String(), "eyJhbGciOi")
	assert.NotContains(t, buf.String(), "s3cr3t")
	assert.Contains(t, buf.String(), "[REDACTED:pattern]")
}

func TestRedaction_WithFields(t *testing.T) {
	logger, buf := newBufferedLogger(t)

	logger.With(zap.String("password", "hunter2")).Info(context.Background(), "login")

	assert.NotContains(t, buf.String(), "hunter2")
}

func TestRedaction_Reflected(t *testing.T) {
	logger, buf := newBufferedLogger(t)

	logger.Info(context.Background(), "creds", zap.Any("credential", map[string]string{"user": "me"}))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "[REDACTED]", lines[0]["credential"])
}

func TestRedaction_Disabled(t *testing.T) {
	enc, err := NewRedactingEncoder(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), RedactionConfig{})
	require.NoError(t, err)

	buf, err := enc.EncodeEntry(zapcore.Entry{Message: "m"}, []zapcore.Field{zap.String("token", "visible")})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "visible")
}

func TestNewRedactingEncoder_InvalidPattern(t *testing.T) {
	base := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	_, err := NewRedactingEncoder(base, RedactionConfig{Enabled: true, Patterns: []string{"("}})
	assert.Error(t, err)

	long := make([]byte, maxPatternLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = NewRedactingEncoder(base, RedactionConfig{Enabled: true, Patterns: []string{string(long)}})
	assert.Error(t, err)
}

func TestSecretField(t *testing.T) {
	field := Secret("nats_token", config.Secret("abcdef"))
	assert.Equal(t, "[REDACTED:6]", field.String)
}
