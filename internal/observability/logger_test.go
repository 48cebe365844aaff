// File: internal/observability/logger_test.go
package observability_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/hotspot-cli/internal/config"
	"github.com/xkilldash9x/hotspot-cli/internal/observability"
)

func testLoggerConfig() config.LoggerConfig {
	return config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "hotspot-cli-test",
	}
}

func TestInitialize_WritesStructuredLogs(t *testing.T) {
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)

	var buf bytes.Buffer
	observability.Initialize(testLoggerConfig(), zapcore.AddSync(&buf))

	logger := observability.GetLogger()
	require.NotNil(t, logger)

	logger.Info("fetch complete")
	out := buf.String()
	assert.Contains(t, out, `"msg":"fetch complete"`)
	assert.Contains(t, out, "hotspot-cli-test")
}

func TestInitialize_LevelFiltering(t *testing.T) {
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)

	var buf bytes.Buffer
	cfg := testLoggerConfig()
	cfg.Level = "warn"
	observability.Initialize(cfg, zapcore.AddSync(&buf))

	logger := observability.GetLogger()
	logger.Info("below the threshold")
	logger.Warn("at the threshold")

	out := buf.String()
	assert.NotContains(t, out, "below the threshold")
	assert.Contains(t, out, "at the threshold")
}

func TestInitialize_InvalidLevelFallsBackToInfo(t *testing.T) {
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)

	var buf bytes.Buffer
	cfg := testLoggerConfig()
	cfg.Level = "nonsense"
	observability.Initialize(cfg, zapcore.AddSync(&buf))

	logger := observability.GetLogger()
	logger.Debug("should be filtered at info")
	logger.Info("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should be filtered at info")
	assert.Contains(t, out, "should appear")
}

func TestInitialize_RunsOnlyOnce(t *testing.T) {
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)

	var first, second bytes.Buffer
	observability.Initialize(testLoggerConfig(), zapcore.AddSync(&first))
	observability.Initialize(testLoggerConfig(), zapcore.AddSync(&second))

	observability.GetLogger().Info("only to the first writer")
	assert.Contains(t, first.String(), "only to the first writer")
	assert.Empty(t, second.String())
}

func TestGetLogger_FallbackBeforeInitialization(t *testing.T) {
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)

	logger := observability.GetLogger()
	require.NotNil(t, logger)
}

func TestSync_DoesNotPanic(t *testing.T) {
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)

	// Both uninitialized and initialized syncs must be safe.
	observability.Sync()

	var buf bytes.Buffer
	observability.Initialize(testLoggerConfig(), zapcore.AddSync(&buf))
	observability.Sync()
}
