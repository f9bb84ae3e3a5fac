package filemesh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-filemesh/internal/core/lifecycle"
	"github.com/dep2p/go-filemesh/internal/discovery/warmstart"
)

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期常量
// ════════════════════════════════════════════════════════════════════════════

const (
	// initializeTimeout 初始化超时（Fx App Start）
	initializeTimeout = 30 * time.Second

	// shutdownTimeout 关闭超时（Fx App Stop）
	shutdownTimeout = 10 * time.Second
)

// ════════════════════════════════════════════════════════════════════════════
//                              启动
// ════════════════════════════════════════════════════════════════════════════

// Start 启动节点
//
// 启动流程：
//  1. 向仲裁器申请 Starting（N 个并发 Start 恰好一个胜出）
//  2. 启动 Fx App
//  3. 加载对等缓存（含旧版一次性迁移）
//  4. 计算热启动候选并应用地址准入策略
//  5. 标记 Running，启动周期性检查点
//
// 任一步失败都会回滚到 Stopped，可以再次尝试启动。
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNodeClosed
	}

	run := lifecycle.NewRunID()
	if err := n.arbiter.TryBeginStart(run); err != nil {
		if errors.Is(err, lifecycle.ErrInvalidTransition) {
			return ErrAlreadyStarted
		}
		return err
	}
	n.runID = run

	log.Info("正在启动节点", "namespace", n.nsCtx.Key)

	// Fx App 启动
	initCtx, initCancel := context.WithTimeout(ctx, initializeTimeout)
	defer initCancel()
	if err := n.app.Start(initCtx); err != nil {
		_ = n.arbiter.AbortStart(run)
		return fmt.Errorf("initialize failed: %w", err)
	}

	// 缓存加载（含旧版迁移）。损坏或 IO 错误不阻断启动，
	// 结果已退化为空缓存。
	result, err := n.pipeline.LoadOrMigrate()
	if err != nil {
		log.Warn("对等缓存加载降级为空缓存", "error", err)
	}
	if result.LegacyMigrated {
		log.Info("旧版对等缓存已迁移", "namespace", n.nsCtx.Key)
	}
	if result.NamespaceMismatch {
		log.Warn("对等缓存命名空间不符，内容已保留", "namespace", n.nsCtx.Key)
	}

	// 热启动候选：排序、截断、地址准入过滤
	candidates := warmstart.BuildCandidates(result.Cache, result.SuccessMap, n.warmLimit)
	candidates = n.policy.FilterCandidates(ctx, candidates)
	n.candidates = candidates
	log.Info("热启动候选就绪", "count", len(candidates), "cached", result.Cache.Len())

	// 运行期存储接管缓存内容
	n.store.SeedFrom(result)

	if err := n.arbiter.MarkRunning(run); err != nil {
		// 注入的仲裁器只被本门面驱动，Starting 期间不会被他人改动
		return err
	}

	// 把候选交给外部拨号器（独立协程，不持有门面锁）
	if n.onWarmStart != nil {
		handoff := append([]Candidate(nil), candidates...)
		go n.onWarmStart(ctx, handoff)
	}

	// 周期性检查点
	if interval := n.cfg.Discovery.CheckpointInterval.Duration(); interval > 0 {
		n.checkpointStop = make(chan struct{})
		n.checkpointDone = make(chan struct{})
		go n.checkpointLoop(interval, n.checkpointStop, n.checkpointDone)
	}

	log.Info("节点已启动", "run", string(run))
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              停止
// ════════════════════════════════════════════════════════════════════════════

// Stop 停止节点
//
// 停止流程：
//  1. 向仲裁器申请 Stopping（携带本轮令牌，过期令牌被拒）
//  2. 停止检查点协程
//  3. 把运行期存储快照落盘
//  4. 停止 Fx App，标记 Stopped
//
// 落盘失败不阻断停止，错误聚合后返回。
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stopLocked(ctx)
}

func (n *Node) stopLocked(ctx context.Context) error {
	if err := n.arbiter.TryBeginStop(n.runID); err != nil {
		if errors.Is(err, lifecycle.ErrInvalidTransition) {
			state, _ := n.arbiter.State()
			if state == lifecycle.StateStopping {
				return ErrStopInProgress
			}
			return ErrNotStarted
		}
		return err
	}

	log.Info("正在停止节点", "run", string(n.runID))

	// 停止检查点协程
	if n.checkpointStop != nil {
		close(n.checkpointStop)
		<-n.checkpointDone
		n.checkpointStop = nil
		n.checkpointDone = nil
	}

	var errs error

	// 最终落盘
	if err := n.pipeline.Save(n.store.Export(), n.store.SuccessMap()); err != nil {
		log.Error("停止时保存对等缓存失败", "error", err)
		errs = multierr.Append(errs, err)
	}

	stopCtx, stopCancel := context.WithTimeout(ctx, shutdownTimeout)
	defer stopCancel()
	if err := n.app.Stop(stopCtx); err != nil {
		errs = multierr.Append(errs, err)
	}

	n.arbiter.MarkStopped()
	n.runID = ""
	n.candidates = nil

	log.Info("节点已停止")
	return errs
}

// Close 关闭节点
//
// 运行中的节点先停止。Close 之后节点不可再启动。
func (n *Node) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	n.closed = true

	err := n.stopLocked(context.Background())
	if errors.Is(err, ErrNotStarted) {
		return nil
	}
	return err
}

// ════════════════════════════════════════════════════════════════════════════
//                              检查点
// ════════════════════════════════════════════════════════════════════════════

// checkpointLoop 周期性把运行期存储落盘
//
// 进程崩溃时最多丢失一个间隔内的连接记录。
func (n *Node) checkpointLoop(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := n.pipeline.Save(n.store.Export(), n.store.SuccessMap()); err != nil {
				log.Warn("检查点保存失败", "error", err)
			}
		}
	}
}
