package peercache

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrIO 文件系统访问失败（不含"文件不存在"，后者不是错误）
	ErrIO = errors.New("peercache: io failure")

	// ErrParse 持久化 JSON 格式损坏
	ErrParse = errors.New("peercache: malformed cache file")
)

// CacheError 缓存操作错误
type CacheError struct {
	Op   string // 操作名称
	Path string // 文件路径
	Err  error  // 底层错误
}

// Error 实现 error 接口
func (e *CacheError) Error() string {
	return fmt.Sprintf("peercache %s failed for %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap 支持 errors.Unwrap
func (e *CacheError) Unwrap() error {
	return e.Err
}

// newCacheError 创建缓存错误
func newCacheError(op, path string, kind, cause error) *CacheError {
	return &CacheError{Op: op, Path: path, Err: fmt.Errorf("%w: %v", kind, cause)}
}
