package lifecycle

import (
	"go.uber.org/fx"
)

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Arbiter *Arbiter
}

// ProvideArbiter 提供生命周期仲裁器
func ProvideArbiter() ModuleOutput {
	return ModuleOutput{Arbiter: NewArbiter()}
}

// Module 返回 Fx 模块
var Module = fx.Module("core/lifecycle",
	fx.Provide(ProvideArbiter),
)
