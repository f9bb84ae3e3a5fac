package peercache

import (
	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-filemesh/internal/core/namespace"
	"github.com/dep2p/go-filemesh/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
// LoadResult 加载/迁移结果
// ════════════════════════════════════════════════════════════════════════════

// LoadResult 一次加载或迁移操作的输出
type LoadResult struct {
	// Cache 得到的缓存
	Cache *Cache

	// SuccessMap 节点 ID → 最后一次成功连接时间（Unix 秒）
	SuccessMap map[string]int64

	// LegacyMigrated 仅在执行了旧版迁移的那一次调用为 true
	LegacyMigrated bool

	// NamespaceMismatch 文件内嵌的命名空间 key 与期望不符
	// （数据照常返回，不会被丢弃）
	NamespaceMismatch bool
}

// ════════════════════════════════════════════════════════════════════════════
// Pipeline 缓存加载/迁移管线
// ════════════════════════════════════════════════════════════════════════════

// Pipeline 按命名空间上下文定位、加载、迁移和保存缓存文件
//
// 加载决策是显式的两分支过程：
//  1. 命名空间文件存在 → 加载（key 不符仅置 NamespaceMismatch 标志）
//  2. 否则旧版文件存在 → 加载并立即持久化到命名空间路径（一次性迁移）
//  3. 否则 → 空缓存
type Pipeline struct {
	nsCtx *namespace.Context
	clk   clock.Clock
}

// NewPipeline 创建加载/迁移管线
func NewPipeline(nsCtx *namespace.Context) *Pipeline {
	return &Pipeline{nsCtx: nsCtx, clk: clock.New()}
}

// NewPipelineWithClock 创建使用指定时钟的管线（用于测试）
func NewPipelineWithClock(nsCtx *namespace.Context, clk clock.Clock) *Pipeline {
	return &Pipeline{nsCtx: nsCtx, clk: clk}
}

// Context 返回管线绑定的命名空间上下文
func (p *Pipeline) Context() *namespace.Context {
	return p.nsCtx
}

// LoadOrMigrate 加载命名空间缓存，必要时执行一次性旧版迁移
//
// 调用方永远得到可用的 LoadResult；类型化错误仅用于上报损坏或
// IO 失败，此时结果退化为空缓存。
func (p *Pipeline) LoadOrMigrate() (*LoadResult, error) {
	result := &LoadResult{
		Cache:      NewCache(),
		SuccessMap: make(map[string]int64),
	}

	// 分支 1：命名空间文件存在
	schema, err := readCacheFile(p.nsCtx.CachePath)
	if err != nil {
		log.Warn("命名空间缓存文件不可用，按空缓存处理",
			"path", p.nsCtx.CachePath, "error", err)
		return result, err
	}
	if schema != nil {
		result.Cache = &Cache{Entries: schema.Entries}
		if schema.SuccessMap != nil {
			result.SuccessMap = schema.SuccessMap
		}
		if schema.Namespace != "" && schema.Namespace != p.nsCtx.Key {
			// 损坏或手工编辑的命名空间映射不能悄悄抹掉缓存的节点
			result.NamespaceMismatch = true
			log.Warn("缓存文件命名空间不符，保留其内容",
				"expected", p.nsCtx.Key, "found", schema.Namespace)
		}
		return result, nil
	}

	// 分支 2：旧版文件存在 → 一次性迁移
	legacy, err := readCacheFile(p.nsCtx.LegacyCachePath)
	if err != nil {
		log.Warn("旧版缓存文件不可用，按空缓存处理",
			"path", p.nsCtx.LegacyCachePath, "error", err)
		return result, err
	}
	if legacy != nil {
		result.Cache = &Cache{Entries: legacy.Entries}
		if legacy.SuccessMap != nil {
			result.SuccessMap = legacy.SuccessMap
		}
		result.LegacyMigrated = true

		// 立即持久化到命名空间路径，下一次调用不会再迁移
		if err := p.Save(result.Cache, result.SuccessMap); err != nil {
			log.Error("迁移写入命名空间缓存失败", "error", err)
			return result, err
		}
		log.Info("旧版缓存已迁移到命名空间",
			"namespace", p.nsCtx.Key, "entries", result.Cache.Len())
		return result, nil
	}

	// 分支 3：两个文件都不存在
	return result, nil
}

// Save 将缓存与成功连接映射一并原子持久化到命名空间路径
func (p *Pipeline) Save(cache *Cache, successMap map[string]int64) error {
	return writeCacheFile(p.nsCtx.CachePath, &fileSchema{
		Version:    schemaVersion,
		Namespace:  p.nsCtx.Key,
		SavedAt:    p.clk.Now().Unix(),
		Entries:    cache.Entries,
		SuccessMap: successMap,
	})
}

// BuildSnapshot 将存活的节点地址映射转换为可持久化的快照
//
// 每个条目的 LastSeen 以当前时钟时间戳记；存活节点同时被视为
// 最近一次成功连接发生在当前时刻。节点按 ID 排序，保证快照的
// 确定性。
func (p *Pipeline) BuildSnapshot(live map[types.PeerID][]string) (*Cache, map[string]int64) {
	return BuildSnapshot(live, p.clk.Now().Unix())
}

// BuildSnapshot 以给定时间构建快照（见 Pipeline.BuildSnapshot）
func BuildSnapshot(live map[types.PeerID][]string, now int64) (*Cache, map[string]int64) {
	ids := make([]types.PeerID, 0, len(live))
	for id := range live {
		ids = append(ids, id)
	}
	sortPeerIDs(ids)

	cache := NewCache()
	successMap := make(map[string]int64, len(live))
	for _, id := range ids {
		cache.Entries = append(cache.Entries, &Entry{
			ID:       id,
			Addrs:    append([]string(nil), live[id]...),
			LastSeen: now,
		})
		successMap[string(id)] = now
	}

	return cache, successMap
}

// sortPeerIDs 按字节序排序节点 ID
func sortPeerIDs(ids []types.PeerID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
