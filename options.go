package filemesh

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-filemesh/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	config *config.Config

	// onWarmStart 热启动候选就绪后的回调（交给外部拨号器）
	onWarmStart func(context.Context, []Candidate)

	// 用户自定义 Fx 选项（扩展点）
	userFxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{
		config: config.NewConfig(),
	}
}

// apply 应用选项并验证最终配置
func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	return o.config.Validate()
}

// WithConfig 使用完整配置对象
//
// 与其他选项组合时，后出现的选项覆盖配置中的对应字段。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("config must not be nil")
		}
		o.config = cfg
		return nil
	}
}

// WithListenPort 设置主监听端口
func WithListenPort(port int) Option {
	return func(o *options) error {
		o.config.Network.ListenPort = port
		return nil
	}
}

// WithBootstrapPeers 设置引导节点地址
func WithBootstrapPeers(addrs ...string) Option {
	return func(o *options) error {
		o.config.Discovery.BootstrapPeers = append([]string(nil), addrs...)
		return nil
	}
}

// WithDataDir 设置数据目录
func WithDataDir(dir string) Option {
	return func(o *options) error {
		o.config.Storage.DataDir = dir
		return nil
	}
}

// WithChainID 设置链标识并将其纳入命名空间指纹
func WithChainID(chainID string) Option {
	return func(o *options) error {
		o.config.Namespace.ChainID = chainID
		o.config.Namespace.IncludeChainID = true
		return nil
	}
}

// WithRestrictToLAN 启用局域网模式
//
// 地址准入策略只接受回环与私网地址，用于开发环境。
func WithRestrictToLAN() Option {
	return func(o *options) error {
		o.config.Network.RestrictToLAN = true
		return nil
	}
}

// WithWarmStartLimit 设置热启动候选上限
func WithWarmStartLimit(limit int) Option {
	return func(o *options) error {
		o.config.Discovery.WarmStartLimit = limit
		return nil
	}
}

// WithCheckpointInterval 设置运行期缓存检查点间隔
//
// 0 表示关闭周期性检查点，缓存只在停止时落盘。
func WithCheckpointInterval(d time.Duration) Option {
	return func(o *options) error {
		o.config.Discovery.CheckpointInterval = config.Duration(d)
		return nil
	}
}

// WithReachability 控制可达性检测与打洞结果上报
func WithReachability(enable bool) Option {
	return func(o *options) error {
		o.config.NAT.EnableReachability = enable
		return nil
	}
}

// WithSTUNServers 设置 STUN 服务器列表
func WithSTUNServers(servers ...string) Option {
	return func(o *options) error {
		o.config.NAT.STUNServers = append([]string(nil), servers...)
		return nil
	}
}

// WithOnWarmStart 设置热启动候选回调
//
// Start 期间候选列表计算并过滤完成后，在独立协程中调用一次，
// 外部拨号器由此拿到重连候选。回调内可以安全调用 Node 的查询接口。
func WithOnWarmStart(fn func(ctx context.Context, candidates []Candidate)) Option {
	return func(o *options) error {
		o.onWarmStart = fn
		return nil
	}
}

// WithFxOption 注入用户自定义 Fx 选项（高级用法）
func WithFxOption(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
