package peercache

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-filemesh/internal/core/namespace"
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	NamespaceCtx *namespace.Context
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Pipeline *Pipeline
	Store    *Store
}

// ProvidePeerCache 提供缓存管线与运行期存储
func ProvidePeerCache(input ModuleInput) ModuleOutput {
	return ModuleOutput{
		Pipeline: NewPipeline(input.NamespaceCtx),
		Store:    NewStore(),
	}
}

// Module 返回 Fx 模块
var Module = fx.Module("core/peercache",
	fx.Provide(ProvidePeerCache),
)
