package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseConfig_Default 测试默认配置
func TestParseConfig_Default(t *testing.T) {
	cfg := parseConfig("", "")
	assert.Equal(t, slog.LevelInfo, cfg.DefaultLevel)
	assert.False(t, cfg.JSON)
	assert.Empty(t, cfg.SubsystemLevels)
}

// TestParseConfig_SubsystemLevels 测试按子系统配置级别
func TestParseConfig_SubsystemLevels(t *testing.T) {
	cfg := parseConfig("warmstart=debug, peercache=warn ,error", "json")

	assert.Equal(t, slog.LevelError, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelDebug, cfg.SubsystemLevels["warmstart"])
	assert.Equal(t, slog.LevelWarn, cfg.SubsystemLevels["peercache"])
	assert.True(t, cfg.JSON)

	assert.Equal(t, slog.LevelDebug, cfg.LevelForSubsystem("warmstart"))
	assert.Equal(t, slog.LevelError, cfg.LevelForSubsystem("lifecycle"))
}

// TestParseConfig_InvalidLevel 测试无效级别被忽略
func TestParseConfig_InvalidLevel(t *testing.T) {
	cfg := parseConfig("warmstart=verbose,info", "")
	_, ok := cfg.SubsystemLevels["warmstart"]
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, cfg.DefaultLevel)
}

// TestLogger_SameInstance 测试同一子系统返回相同实例
func TestLogger_SameInstance(t *testing.T) {
	l1 := Logger("test-subsystem")
	l2 := Logger("test-subsystem")
	require.NotNil(t, l1)
	assert.Same(t, l1, l2)
}

// TestDiscard 测试 Discard Logger 不输出
func TestDiscard(t *testing.T) {
	l := Discard()
	require.NotNil(t, l)
	assert.False(t, l.Enabled(nil, slog.LevelError))
}
