package nat

import (
	"go.uber.org/fx"
)

// Config NAT 模块配置
type Config struct {
	// EnableReachability 是否启用可达性检测与打洞上报
	EnableReachability bool

	// PrimaryPort 主监听端口
	PrimaryPort int

	// STUNServers STUN 服务器列表（为空时使用默认列表）
	STUNServers []string
}

// ModuleInput 模块输入
type ModuleInput struct {
	fx.In

	Config Config
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Reporter *TraversalReporter
	Service  *Service
}

// ProvideNAT 提供 NAT 能力评估组件
func ProvideNAT(in ModuleInput) ModuleOutput {
	reporter := NewTraversalReporter(in.Config.EnableReachability)
	detector := NewDetectorWithServers(in.Config.STUNServers)
	return ModuleOutput{
		Reporter: reporter,
		Service:  NewService(in.Config.PrimaryPort, reporter, detector),
	}
}

// Module 返回 Fx 模块
var Module = fx.Module("core/nat",
	fx.Provide(ProvideNAT),
)
