package filemesh

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/dep2p/go-filemesh/config"
	"github.com/dep2p/go-filemesh/internal/core/lifecycle"
	"github.com/dep2p/go-filemesh/internal/core/namespace"
	"github.com/dep2p/go-filemesh/internal/core/nat"
	"github.com/dep2p/go-filemesh/internal/core/peercache"
	"github.com/dep2p/go-filemesh/internal/discovery/warmstart"
	"github.com/dep2p/go-filemesh/internal/util/logger"
	"github.com/dep2p/go-filemesh/pkg/types"
)

var log = logger.Logger("filemesh")

// ════════════════════════════════════════════════════════════════════════════
//                              节点状态
// ════════════════════════════════════════════════════════════════════════════

// NodeState 节点状态
type NodeState int

const (
	// StateStopped 已停止（可启动）
	StateStopped NodeState = iota

	// StateStarting 启动中
	StateStarting

	// StateRunning 运行中
	StateRunning

	// StateStopping 停止中
	StateStopping
)

// String 返回状态的字符串表示
func (s NodeState) String() string {
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
		return "unknown"
	}
}

// fromArbiterState 把仲裁器状态映射到公共状态
func fromArbiterState(s lifecycle.State) NodeState {
	switch s {
	case lifecycle.StateStarting:
		return StateStarting
	case lifecycle.StateRunning:
		return StateRunning
	case lifecycle.StateStopping:
		return StateStopping
	default:
		return StateStopped
	}
}

// Candidate 热启动重连候选（公开别名）
type Candidate = warmstart.Candidate

// ════════════════════════════════════════════════════════════════════════════
//                              Node 门面
// ════════════════════════════════════════════════════════════════════════════

// Node FileMesh 节点
//
// Node 是用户与引导韧性子系统交互的主入口。它是一个门面，
// 聚合内部组件：
//   - lifecycle.Arbiter: 启停状态机
//   - peercache.Pipeline/Store: 对等缓存加载、迁移与运行期存储
//   - warmstart.Policy: 热启动候选排序与地址准入
//   - nat.Service/TraversalReporter: NAT 穿透评估与可达性报告
//
// Start/Stop 可以成对多次调用；Close 之后节点不可再用。
type Node struct {
	mu sync.Mutex

	cfg *config.Config
	app *fx.App

	// Fx 注入的组件（buildFxApp 期间回填）
	arbiter   *lifecycle.Arbiter
	nsCtx     *namespace.Context
	pipeline  *peercache.Pipeline
	store     *peercache.Store
	policy    *warmstart.Policy
	reporter  *nat.TraversalReporter
	natSvc    *nat.Service
	warmLimit int

	// 本轮运行的令牌
	runID lifecycle.RunID

	// 热启动候选（Start 期间计算，运行期只读）
	candidates []warmstart.Candidate

	// onWarmStart 候选就绪回调
	onWarmStart func(context.Context, []Candidate)

	// 检查点协程控制
	checkpointStop chan struct{}
	checkpointDone chan struct{}

	closed bool
}

// New 创建节点（不启动）
func New(opts ...Option) (*Node, error) {
	o := newOptions()
	if err := o.apply(opts...); err != nil {
		return nil, err
	}

	node := &Node{cfg: o.config, onWarmStart: o.onWarmStart}
	node.app = buildFxApp(o, node)
	if err := node.app.Err(); err != nil {
		return nil, err
	}
	return node, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              查询接口
// ════════════════════════════════════════════════════════════════════════════

// State 返回节点当前状态
func (n *Node) State() NodeState {
	state, _ := n.arbiter.State()
	return fromArbiterState(state)
}

// NamespaceKey 返回本节点的命名空间指纹
func (n *Node) NamespaceKey() string {
	return n.nsCtx.Key
}

// WarmStartCandidates 返回热启动重连候选
//
// 列表在 Start 期间计算：按最后成功连接时间降序、节点 ID 升序，
// 截断到配置上限，并已通过地址准入策略过滤。limit > 0 时进一步
// 截断到调用方给定的上限；limit <= 0 返回全部。
func (n *Node) WarmStartCandidates(limit int) []Candidate {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := append([]Candidate(nil), n.candidates...)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// KnownPeers 返回运行期存储中的所有节点
func (n *Node) KnownPeers() []types.PeerInfo {
	entries := n.store.All()
	out := make([]types.PeerInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, types.PeerInfo{
			ID:    e.ID,
			Addrs: append([]string(nil), e.Addrs...),
		})
	}
	return out
}

// DCUtRValidation 返回打洞能力验证快照
func (n *Node) DCUtRValidation() nat.DcutrValidation {
	return n.reporter.Validate()
}

// PortForwardingConfig 生成端口转发配置摘要
func (n *Node) PortForwardingConfig(ctx context.Context) nat.PortForwardingConfig {
	return n.natSvc.PortForwardingConfig(ctx)
}

// ════════════════════════════════════════════════════════════════════════════
//                              运行期记录
// ════════════════════════════════════════════════════════════════════════════

// RecordConnection 记录一次成功建立的连接
func (n *Node) RecordConnection(id types.PeerID, addrs []string) {
	n.store.RecordConnection(id, addrs)
}

// RecordTransfer 记录一次传输结果
func (n *Node) RecordTransfer(id types.PeerID, ok bool, bytes int64, latencyMs float64) {
	n.store.RecordTransfer(id, ok, bytes, latencyMs)
}

// RecordHolePunchAttempt 记录一次打洞尝试
func (n *Node) RecordHolePunchAttempt() {
	n.reporter.RecordAttempt()
}

// RecordHolePunchResult 记录一次打洞结果
func (n *Node) RecordHolePunchResult(ok bool) {
	if ok {
		n.reporter.RecordSuccess()
	} else {
		n.reporter.RecordFailure()
	}
}

// SetNATType 上报 NAT 分类
func (n *Node) SetNATType(t types.NATType) {
	n.natSvc.SetNATType(t)
}

// SetReachability 上报可达性结论
func (n *Node) SetReachability(r types.Reachability) {
	n.natSvc.SetReachability(r)
}

// SetListenAddrs 上报当前监听地址
func (n *Node) SetListenAddrs(addrs []string) {
	n.natSvc.SetListenAddrs(addrs)
}
