package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingSink_MirrorsToLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := NewLoggingSink(zap.New(core))

	sink.LogError(CodeKeyTypeNotSupported, "key member type is not supported", "Shop.Order", "Tags")
	sink.LogWarning(CodeAttributeFailed, "attribute dropped", "Shop.Order", "")
	sink.LogMessage(CodeMemberSkipped, "flattened", "", "")

	assert.True(t, sink.HasLoggedErrors())

	collected := sink.Collected()
	assert.Len(t, collected.Errors, 1)
	assert.Len(t, collected.Warnings, 1)
	assert.Len(t, collected.Infos, 1)

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, map[string]any{
		"code":   CodeKeyTypeNotSupported,
		"type":   "Shop.Order",
		"member": "Tags",
	}, entries[0].ContextMap())

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.NotContains(t, entries[1].ContextMap(), "member")

	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
	assert.Equal(t, map[string]any{"code": CodeMemberSkipped}, entries[2].ContextMap())
}

func TestLoggingSink_NilLogger(t *testing.T) {
	sink := NewLoggingSink(nil)
	sink.LogWarning(CodeAttributeFailed, "dropped", "", "")

	assert.False(t, sink.HasLoggedErrors())
	assert.Len(t, sink.WithCode(CodeAttributeFailed), 1)
}

func TestLoggingSink_Replay(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := NewLoggingSink(zap.New(core))

	var built Diagnostics
	built.AddError(CodeUnknownType, "unknown type Custmer", "Shop.Order", "Customer", "Shop.Customer")
	built.AddWarning(CodeAttributeFailed, "attribute dropped", "Shop.Order", "")
	built.AddInfo(CodeMemberSkipped, "excluded", "Shop.Order", "Secret")

	sink.Replay(built)

	collected := sink.Collected()
	require.Len(t, collected.Errors, 1)
	assert.Equal(t, []string{"Shop.Customer"}, collected.Errors[0].Suggestions)
	assert.Len(t, collected.Warnings, 1)
	assert.Len(t, collected.Infos, 1)

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "unknown type Custmer", entries[0].Message)
	assert.Equal(t, CodeUnknownType, entries[0].ContextMap()["code"])
	assert.Equal(t, []any{"Shop.Customer"}, entries[0].ContextMap()["suggestions"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.NotContains(t, entries[1].ContextMap(), "suggestions")
	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
}
