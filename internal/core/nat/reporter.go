package nat

import (
	"fmt"
	"sync/atomic"
)

// ============================================================================
//                              状态常量
// ============================================================================

// DCUtR 验证状态
const (
	// StatusDisabled 打洞能力未启用
	StatusDisabled = "disabled"

	// StatusNotTested 已启用但尚无尝试
	StatusNotTested = "not_tested"

	// StatusWorking 打洞工作正常
	StatusWorking = "working"

	// StatusUnreliable 打洞成功率偏低
	StatusUnreliable = "unreliable"

	// StatusFailing 打洞几乎不可用
	StatusFailing = "failing"
)

// 成功率阈值
//
// 可调策略而非固定契约：低于 lowSuccessRate 视为基本不可用，
// 低于 fairSuccessRate 视为不稳定。
const (
	lowSuccessRate  = 0.2
	fairSuccessRate = 0.5
)

// ============================================================================
//                              DcutrValidation 快照
// ============================================================================

// DcutrValidation DCUtR 打洞能力验证快照
type DcutrValidation struct {
	// Enabled 打洞能力是否启用
	Enabled bool `json:"enabled"`

	// Status 验证状态
	Status string `json:"status"`

	// Attempts 总尝试次数
	Attempts int64 `json:"attempts"`

	// Successes 成功次数
	Successes int64 `json:"successes"`

	// Failures 失败次数
	Failures int64 `json:"failures"`

	// SuccessRate 成功率（0~1）
	SuccessRate float64 `json:"success_rate"`

	// Recommendations 建议列表
	Recommendations []string `json:"recommendations,omitempty"`
}

// ============================================================================
//                              TraversalReporter
// ============================================================================

// TraversalReporter 打洞结果聚合器
//
// 计数器由传输层在每次打洞尝试后递增；Validate 随时可调用，
// 不阻塞上报路径。
type TraversalReporter struct {
	// enabled 依赖外部可达性检测特性是否启用
	enabled atomic.Bool

	attempts  atomic.Int64
	successes atomic.Int64
	failures  atomic.Int64
}

// NewTraversalReporter 创建打洞结果聚合器
func NewTraversalReporter(enabled bool) *TraversalReporter {
	r := &TraversalReporter{}
	r.enabled.Store(enabled)
	return r
}

// SetEnabled 设置启用状态
func (r *TraversalReporter) SetEnabled(enabled bool) {
	r.enabled.Store(enabled)
}

// Enabled 返回启用状态
func (r *TraversalReporter) Enabled() bool {
	return r.enabled.Load()
}

// RecordAttempt 记录一次打洞尝试开始
func (r *TraversalReporter) RecordAttempt() {
	r.attempts.Add(1)
}

// RecordSuccess 记录一次打洞成功
func (r *TraversalReporter) RecordSuccess() {
	r.successes.Add(1)
}

// RecordFailure 记录一次打洞失败
func (r *TraversalReporter) RecordFailure() {
	r.failures.Add(1)
}

// Validate 计算当前验证快照
//
// 未启用时状态为 disabled 且所有计数报告为零，不受陈旧计数影响；
// 启用但无尝试时状态为 not_tested；否则按观测成功率派生状态与建议。
func (r *TraversalReporter) Validate() DcutrValidation {
	if !r.enabled.Load() {
		return DcutrValidation{
			Enabled: false,
			Status:  StatusDisabled,
			Recommendations: []string{
				"启用可达性检测以激活 NAT 打洞能力",
			},
		}
	}

	attempts := r.attempts.Load()
	successes := r.successes.Load()
	failures := r.failures.Load()

	v := DcutrValidation{
		Enabled:   true,
		Attempts:  attempts,
		Successes: successes,
		Failures:  failures,
	}

	if attempts == 0 {
		v.Status = StatusNotTested
		return v
	}

	v.SuccessRate = float64(successes) / float64(attempts)

	switch {
	case v.SuccessRate < lowSuccessRate:
		v.Status = StatusFailing
		v.Recommendations = append(v.Recommendations,
			"打洞成功率极低，建议在路由器上配置端口转发",
			"或配置一个中继节点保证可达性")
	case v.SuccessRate < fairSuccessRate:
		v.Status = StatusUnreliable
		v.Recommendations = append(v.Recommendations,
			fmt.Sprintf("打洞成功率 %.0f%% 偏低，检查 NAT 类型（对称 NAT 无法打洞）", v.SuccessRate*100),
			"建议保留中继配置作为回退")
	default:
		v.Status = StatusWorking
	}

	return v
}
