package lifecycle

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition 非法的状态转换
//
// 这是可恢复的结果而非致命错误，是否重试由调用方决定。
var ErrInvalidTransition = errors.New("lifecycle: invalid transition")

// TransitionError 状态转换被拒绝
type TransitionError struct {
	Op   string // 操作名称
	From State  // 拒绝时的状态
	Run  RunID  // 请求方令牌
}

// Error 实现 error 接口
func (e *TransitionError) Error() string {
	return fmt.Sprintf("lifecycle %s rejected in state %s", e.Op, e.From)
}

// Unwrap 支持 errors.Is(err, ErrInvalidTransition)
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// newTransitionError 创建转换拒绝错误
func newTransitionError(op string, from State, run RunID) *TransitionError {
	return &TransitionError{Op: op, From: from, Run: run}
}
