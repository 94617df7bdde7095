package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLoggerFrom(zap.New(core))

	l.Warn("BILLING", "signature rejected", map[string]interface{}{"provider": "paddle"})
	l.Info("GATE", "allowed", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "signature rejected", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "BILLING", fields["module"])
	assert.Equal(t, map[string]interface{}{"provider": "paddle"}, fields["details"])

	assert.Equal(t, map[string]interface{}{}, entries[1].ContextMap()["details"])
}

func TestZapLoggerErrorCarriesErrorRef(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLoggerFrom(zap.New(core))

	l.Error("RESOLVER", "lookup failed", map[string]interface{}{"error": "boom"})

	entries := logs.FilterField(zap.Any("error_ref", "boom")).All()
	assert.Len(t, entries, 1)
}

func TestNopLoggerIsSilent(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Error("X", "y", nil)
		_ = l.Sync()
	})
}
