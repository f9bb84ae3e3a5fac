// Package logger 提供 filemesh 的统一日志系统
//
// 基于标准库 log/slog，支持：
//   - 按子系统配置日志级别
//   - 环境变量配置（FILEMESH_LOG_LEVEL, FILEMESH_LOG_FORMAT）
//   - 结构化日志
//
// 使用示例:
//
//	package warmstart
//
//	import "github.com/dep2p/go-filemesh/internal/util/logger"
//
//	var log = logger.Logger("warmstart")
//
//	func foo() {
//	    log.Info("candidates built", "count", len(candidates))
//	}
//
// 环境变量配置:
//
//	# 设置所有模块为 info，warmstart 模块为 debug
//	FILEMESH_LOG_LEVEL=warmstart=debug,info
//
//	# 使用 JSON 格式输出
//	FILEMESH_LOG_FORMAT=json
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	// loggers 缓存各子系统的 Logger
	loggers sync.Map // map[string]*slog.Logger

	// handlers 缓存各子系统的 Handler（用于动态调整级别）
	handlers sync.Map // map[string]*subsystemHandler
)

// Config 日志配置
type Config struct {
	// DefaultLevel 默认日志级别
	DefaultLevel slog.Level

	// SubsystemLevels 各子系统的日志级别
	SubsystemLevels map[string]slog.Level

	// JSON 是否使用 JSON 格式输出
	JSON bool
}

// LevelForSubsystem 获取指定子系统的日志级别
func (c *Config) LevelForSubsystem(subsystem string) slog.Level {
	if level, ok := c.SubsystemLevels[subsystem]; ok {
		return level
	}
	return c.DefaultLevel
}

var (
	configCache *Config
	configOnce  sync.Once
)

// ConfigFromEnv 从环境变量解析配置
//
// 环境变量:
//   - FILEMESH_LOG_LEVEL: 日志级别配置
//     格式: 子系统=级别,子系统=级别,默认级别
//     示例: warmstart=debug,peercache=warn,info
//   - FILEMESH_LOG_FORMAT: text 或 json
func ConfigFromEnv() *Config {
	configOnce.Do(func() {
		configCache = parseConfig(
			os.Getenv("FILEMESH_LOG_LEVEL"),
			os.Getenv("FILEMESH_LOG_FORMAT"),
		)
	})
	return configCache
}

// parseConfig 解析环境变量配置
func parseConfig(levelStr, formatStr string) *Config {
	cfg := &Config{
		DefaultLevel:    slog.LevelInfo,
		SubsystemLevels: make(map[string]slog.Level),
		JSON:            strings.EqualFold(formatStr, "json"),
	}

	for _, part := range strings.Split(levelStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if kv := strings.SplitN(part, "=", 2); len(kv) == 2 {
			// 子系统级别: subsystem=level
			if level, ok := parseLevel(strings.TrimSpace(kv[1])); ok {
				cfg.SubsystemLevels[strings.TrimSpace(kv[0])] = level
			}
		} else if level, ok := parseLevel(part); ok {
			// 默认级别
			cfg.DefaultLevel = level
		}
	}

	return cfg
}

// parseLevel 解析日志级别名称
func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Logger 获取指定子系统的 Logger
//
// Logger 会根据 FILEMESH_LOG_LEVEL 环境变量配置日志级别。
// 同一子系统多次调用会返回相同的 Logger 实例。
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := ConfigFromEnv()
	handler := newHandler(subsystem, cfg.LevelForSubsystem(subsystem), cfg.JSON)

	actual, loaded := loggers.LoadOrStore(subsystem, slog.New(handler))
	if !loaded {
		handlers.Store(subsystem, handler)
	}

	return actual.(*slog.Logger)
}

// SetLevel 动态设置子系统的日志级别
//
// 允许在运行时调整日志级别，无需重启。
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).SetLevel(level)
	}
}

// Discard 返回一个丢弃所有日志的 Logger
//
// 主要用于测试，避免日志输出干扰测试结果。
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// ResetConfig 重置配置缓存（仅用于测试）
func ResetConfig() {
	configOnce = sync.Once{}
	configCache = nil
}
