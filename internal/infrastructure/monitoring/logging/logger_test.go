package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "source", Value: "bigg"}, String("source", "bigg"))
	assert.Equal(t, Field{Key: "count", Value: 42}, Int("count", 42))
	assert.Equal(t, Field{Key: "verbose", Value: true}, Bool("verbose", true))
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
	assert.Equal(t, Field{Key: "error", Value: "boom"}, Err(errors.New("boom")))
}

func TestZapLogger_EmitsFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromCore(core)

	logger.Info("record rejected",
		String("reason", "unresolved stoichiometry"),
		Int("line", 17))

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "record rejected", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "unresolved stoichiometry", fields["reason"])
	assert.EqualValues(t, 17, fields["line"])
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromCore(core).Named("build").With(String("source", "metanetx"))

	logger.Warn("skipped record")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "build", entries[0].LoggerName)
	assert.Equal(t, "metanetx", entries[0].ContextMap()["source"])
}

func TestNewLogger_Defaults(t *testing.T) {
	logger, err := NewLogger(Config{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	// Must not panic and must chain.
	logger.With(String("k", "v")).Named("x").Info("ignored")
}
