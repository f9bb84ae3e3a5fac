package filemesh

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-filemesh/internal/core/lifecycle"
	"github.com/dep2p/go-filemesh/internal/core/namespace"
	"github.com/dep2p/go-filemesh/internal/core/nat"
	"github.com/dep2p/go-filemesh/internal/core/peercache"
	"github.com/dep2p/go-filemesh/internal/discovery/warmstart"
)

// buildFxApp 构建 Fx 应用
//
// 组装顺序（按依赖）：
//  1. 配置派生值：namespace.Context、warmstart.Config、nat.Config
//  2. Core Layer: lifecycle → peercache → nat
//  3. Discovery Layer: warmstart
//  4. 用户扩展选项
//  5. Node 组件注入
func buildFxApp(opts *options, node *Node) *fx.App {
	cfg := opts.config

	modules := []fx.Option{
		// 配置派生值
		fx.Provide(func() *namespace.Context {
			return namespace.NewContext(cfg.Storage.DataDir, namespace.Meta{
				ListenPort:     cfg.Network.ListenPort,
				BootstrapPeers: cfg.Discovery.BootstrapPeers,
				ChainID:        cfg.Namespace.ChainID,
				IncludeChainID: cfg.Namespace.IncludeChainID,
			})
		}),
		fx.Supply(warmstart.Config{
			Limit:         cfg.Discovery.WarmStartLimit,
			RestrictToLAN: cfg.Network.RestrictToLAN,
		}),
		fx.Supply(nat.Config{
			EnableReachability: cfg.NAT.EnableReachability,
			PrimaryPort:        cfg.Network.ListenPort,
			STUNServers:        cfg.NAT.STUNServers,
		}),

		// Core Layer
		lifecycle.Module,
		peercache.Module,
		nat.Module,

		// Discovery Layer
		warmstart.Module,
	}

	// 用户扩展
	if len(opts.userFxOptions) > 0 {
		modules = append(modules, opts.userFxOptions...)
	}

	// Node 组件注入
	modules = append(modules, fx.Invoke(injectNodeComponents(node)))

	// 禁用 Fx 日志输出（避免干扰用户日志）
	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
		fx.NopLogger,
	)

	return fx.New(modules...)
}

// nodeComponents Node 组件注入参数
type nodeComponents struct {
	fx.In

	Arbiter      *lifecycle.Arbiter
	NamespaceCtx *namespace.Context
	Pipeline     *peercache.Pipeline
	Store        *peercache.Store
	Policy       *warmstart.Policy
	WarmConfig   warmstart.Config
	Reporter     *nat.TraversalReporter
	NATService   *nat.Service
}

// injectNodeComponents 把 Fx 容器内的组件回填到 Node 门面
func injectNodeComponents(node *Node) func(nodeComponents) {
	return func(c nodeComponents) {
		node.arbiter = c.Arbiter
		node.nsCtx = c.NamespaceCtx
		node.pipeline = c.Pipeline
		node.store = c.Store
		node.policy = c.Policy
		node.warmLimit = c.WarmConfig.Limit
		node.reporter = c.Reporter
		node.natSvc = c.NATService
	}
}
