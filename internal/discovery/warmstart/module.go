package warmstart

import (
	"go.uber.org/fx"
)

// Config 热启动配置
type Config struct {
	// Limit 候选列表上限
	Limit int

	// RestrictToLAN 地址策略限制为仅局域网
	RestrictToLAN bool
}

// DefaultLimit 默认候选列表上限
const DefaultLimit = 16

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	Config Config
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Policy *Policy
}

// ProvideWarmstart 提供地址准入策略
func ProvideWarmstart(input ModuleInput) ModuleOutput {
	return ModuleOutput{
		Policy: NewPolicy(input.Config.RestrictToLAN),
	}
}

// Module 返回 Fx 模块
var Module = fx.Module("discovery/warmstart",
	fx.Provide(ProvideWarmstart),
)
