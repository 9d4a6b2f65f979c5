package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log := New(zerolog.WarnLevel)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestNewConsole(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewConsole(buf, zerolog.InfoLevel)
	log.Debug().Msg("hidden")
	log.Warn().Str("url", "https://example.test").Msg("candidate failed")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "candidate failed")
	assert.Contains(t, buf.String(), "url=")
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)
	log.Info().Str("kind", "expenses").Msg("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), `"kind":"expenses"`)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)

	lvl, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))
	assert.NotNil(t, ctx.Value(LoggerKey))

	log := FromContext(ctx)
	log.Info().Msg("test")
	assert.NotZero(t, buf.Len())
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())
	assert.NotEqual(t, zerolog.Disabled, log.GetLevel())
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]any{"kind": "debts", "records": 3})
	log.Info().Msg("loaded")

	out := buf.String()
	assert.Contains(t, out, `"kind":"debts"`)
	assert.Contains(t, out, `"records":3`)
}
