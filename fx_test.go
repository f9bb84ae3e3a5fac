package filemesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-filemesh/internal/core/lifecycle"
	"github.com/dep2p/go-filemesh/internal/core/namespace"
	"github.com/dep2p/go-filemesh/internal/core/nat"
	"github.com/dep2p/go-filemesh/internal/core/peercache"
	"github.com/dep2p/go-filemesh/internal/discovery/warmstart"
)

// TestFxModules_Assemble 测试各组件模块可以独立组装
func TestFxModules_Assemble(t *testing.T) {
	dir := t.TempDir()

	var (
		arbiter  *lifecycle.Arbiter
		pipeline *peercache.Pipeline
		store    *peercache.Store
		policy   *warmstart.Policy
		reporter *nat.TraversalReporter
		natSvc   *nat.Service
	)

	app := fxtest.New(t,
		fx.Provide(func() *namespace.Context {
			return namespace.NewContext(dir, namespace.Meta{ListenPort: 4001})
		}),
		fx.Supply(warmstart.Config{Limit: 16}),
		fx.Supply(nat.Config{PrimaryPort: 4001}),
		lifecycle.Module,
		peercache.Module,
		nat.Module,
		warmstart.Module,
		fx.Populate(&arbiter, &pipeline, &store, &policy, &reporter, &natSvc),
	)
	app.RequireStart().RequireStop()

	assert.NotNil(t, arbiter)
	assert.NotNil(t, pipeline)
	assert.NotNil(t, store)
	assert.NotNil(t, policy)
	assert.NotNil(t, reporter)
	assert.NotNil(t, natSvc)
}

// TestBuildFxApp_InjectsComponents 测试门面组件在构建期回填
func TestBuildFxApp_InjectsComponents(t *testing.T) {
	o := newOptions()
	o.config.Storage.DataDir = t.TempDir()

	node := &Node{cfg: o.config}
	node.app = buildFxApp(o, node)
	require.NoError(t, node.app.Err())

	assert.NotNil(t, node.arbiter)
	assert.NotNil(t, node.nsCtx)
	assert.NotNil(t, node.pipeline)
	assert.NotNil(t, node.store)
	assert.NotNil(t, node.policy)
	assert.NotNil(t, node.reporter)
	assert.NotNil(t, node.natSvc)
	assert.Equal(t, o.config.Discovery.WarmStartLimit, node.warmLimit)
}
