// Package lifecycle 提供节点生命周期仲裁器
//
// 覆盖节点的启动/停止状态机：
//
//	Stopped → Starting(run) → Running(run) → Stopping(run) → Stopped
//
// 所有状态转换在单一互斥点下作为一个原子步骤完成（检查当前状态
// 与令牌、应用或拒绝），因此 N 个并发的启动或停止尝试恰好有一个
// 胜出。run 令牌用于防止过期的停止操作作用于它没有启动的实例。
//
// 持锁期间不做任何 I/O 或可挂起操作。
package lifecycle

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dep2p/go-filemesh/internal/util/logger"
)

var log = logger.Logger("lifecycle")

// ============================================================================
//                              状态定义
// ============================================================================

// State 生命周期状态
type State int

const (
	// StateStopped 已停止
	StateStopped State = iota

	// StateStarting 启动中
	StateStarting

	// StateRunning 运行中
	StateRunning

	// StateStopping 停止中
	StateStopping
)

// String 返回状态字符串表示
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// RunID 一次启动尝试的不透明令牌
type RunID string

// NewRunID 生成新的启动令牌
func NewRunID() RunID {
	return RunID(uuid.NewString())
}

// ============================================================================
//                              仲裁器
// ============================================================================

// Arbiter 生命周期仲裁器
//
// 状态是独占可变数据：所有转换经由带锁的操作，绝不作为进程级
// 环境状态暴露。
type Arbiter struct {
	mu    sync.Mutex
	state State
	runID RunID
}

// NewArbiter 创建仲裁器，初始状态 Stopped
func NewArbiter() *Arbiter {
	return &Arbiter{state: StateStopped}
}

// State 返回当前状态与令牌
func (a *Arbiter) State() (State, RunID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, a.runID
}

// TryBeginStart 尝试开始启动
//
// 仅从 Stopped 成功，转换到 Starting(run)。已处于 Starting、
// Running 或 Stopping（包括另一实例正在收尾）时失败且状态不变。
// N 个并发调用恰好一个成功。
func (a *Arbiter) TryBeginStart(run RunID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateStopped {
		return newTransitionError("begin_start", a.state, run)
	}

	a.state = StateStarting
	a.runID = run
	log.Debug("生命周期转换", "to", StateStarting.String(), "run", string(run))
	return nil
}

// MarkRunning 标记启动完成
//
// 仅从持有相同令牌的 Starting 成功，转换到 Running(run)。
func (a *Arbiter) MarkRunning(run RunID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateStarting || a.runID != run {
		return newTransitionError("mark_running", a.state, run)
	}

	a.state = StateRunning
	log.Debug("生命周期转换", "to", StateRunning.String(), "run", string(run))
	return nil
}

// AbortStart 放弃一次失败的启动
//
// 仅从持有相同令牌的 Starting 成功，直接归位为 Stopped。
// 用于启动流程中途失败时的回滚，不经过 Stopping。
func (a *Arbiter) AbortStart(run RunID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateStarting || a.runID != run {
		return newTransitionError("abort_start", a.state, run)
	}

	a.state = StateStopped
	a.runID = ""
	log.Debug("生命周期转换", "to", StateStopped.String(), "reason", "start aborted")
	return nil
}

// TryBeginStop 尝试开始停止
//
// 仅从令牌匹配的 Running(run) 成功，转换到 Stopping(run)。
// 状态为 Stopped、Starting、已在 Stopping，或令牌与当前运行实例
// 不符时失败。针对同一运行实例的 N 个并发停止恰好一个成功。
func (a *Arbiter) TryBeginStop(run RunID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateRunning || a.runID != run {
		return newTransitionError("begin_stop", a.state, run)
	}

	a.state = StateStopping
	log.Debug("生命周期转换", "to", StateStopping.String(), "run", string(run))
	return nil
}

// MarkStopped 标记停止完成
//
// 把 Stopping 状态归位为 Stopped，此后新的 TryBeginStart 可以
// 成功。其他状态下不做任何事。
func (a *Arbiter) MarkStopped() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateStopping {
		return
	}

	a.state = StateStopped
	a.runID = ""
	log.Debug("生命周期转换", "to", StateStopped.String())
}
