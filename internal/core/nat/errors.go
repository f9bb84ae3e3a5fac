package nat

import (
	"errors"
	"fmt"
)

// ErrNoAddress 响应中未携带可用地址
var ErrNoAddress = errors.New("nat: no address in response")

// DetectError 地址探测错误
type DetectError struct {
	Op  string // 探测阶段
	Err error  // 底层错误
}

// Error 实现 error 接口
func (e *DetectError) Error() string {
	return fmt.Sprintf("nat detect %s: %v", e.Op, e.Err)
}

// Unwrap 返回底层错误
func (e *DetectError) Unwrap() error {
	return e.Err
}

// newDetectError 创建探测错误
func newDetectError(op string, cause error) *DetectError {
	return &DetectError{Op: op, Err: cause}
}
