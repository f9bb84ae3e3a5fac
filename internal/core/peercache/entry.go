// Package peercache 提供已知节点的持久化缓存
//
// 本包实现内容分发节点的"热启动"记忆：每个见过的节点保留一条
// Entry（地址、最后活跃时间、传输计数等），整个缓存按命名空间
// 作为单个 JSON 文件原子落盘。文件缺失、为空或损坏一律视为空
// 缓存，绝不让调用方因此失败。
package peercache

import (
	"github.com/dep2p/go-filemesh/internal/util/logger"
	"github.com/dep2p/go-filemesh/pkg/types"
)

var log = logger.Logger("peercache")

// ════════════════════════════════════════════════════════════════════════════
// Entry 节点缓存条目
// ════════════════════════════════════════════════════════════════════════════

// Entry 一个被记住的节点
//
// 字段缺失或新增时按零值处理，保证缓存文件的前后向兼容。
type Entry struct {
	// ID 节点 ID
	ID types.PeerID `json:"id"`

	// Addrs 已知地址列表
	Addrs []string `json:"addrs"`

	// LastSeen 最后活跃时间（Unix 秒）
	LastSeen int64 `json:"last_seen"`

	// ConnCount 累计连接次数
	ConnCount int64 `json:"conn_count"`

	// TransfersOK 成功传输次数
	TransfersOK int64 `json:"transfers_ok"`

	// TransfersFailed 失败传输次数
	TransfersFailed int64 `json:"transfers_failed"`

	// BytesTransferred 累计传输字节数
	BytesTransferred int64 `json:"bytes_transferred"`

	// AvgLatencyMs 平均延迟（毫秒）
	AvgLatencyMs float64 `json:"avg_latency_ms"`

	// IsBootstrap 是否是引导节点
	IsBootstrap bool `json:"is_bootstrap"`

	// SupportsRelay 是否支持中继
	SupportsRelay bool `json:"supports_relay"`

	// Reliability 可靠性评分（由调用方计算）
	Reliability float64 `json:"reliability"`
}

// Clone 返回条目的深拷贝
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	dup := *e
	dup.Addrs = append([]string(nil), e.Addrs...)
	return &dup
}

// ════════════════════════════════════════════════════════════════════════════
// Cache 节点缓存集合
// ════════════════════════════════════════════════════════════════════════════

// Cache 有序的条目集合
//
// 插入顺序对正确性无影响，但会被保留以保证测试与落盘的确定性。
// Cache 独占其条目，作为一个整体持久化。
type Cache struct {
	// Entries 条目列表
	Entries []*Entry `json:"entries"`
}

// NewCache 创建空缓存
func NewCache() *Cache {
	return &Cache{Entries: make([]*Entry, 0)}
}

// Len 返回条目数量
func (c *Cache) Len() int {
	return len(c.Entries)
}

// Get 按 ID 查找条目
func (c *Cache) Get(id types.PeerID) (*Entry, bool) {
	for _, e := range c.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Upsert 添加或替换条目，保持首次插入位置
func (c *Cache) Upsert(entry *Entry) {
	for i, e := range c.Entries {
		if e.ID == entry.ID {
			c.Entries[i] = entry
			return
		}
	}
	c.Entries = append(c.Entries, entry)
}

// Clone 返回缓存的深拷贝
func (c *Cache) Clone() *Cache {
	dup := &Cache{Entries: make([]*Entry, 0, len(c.Entries))}
	for _, e := range c.Entries {
		dup.Entries = append(dup.Entries, e.Clone())
	}
	return dup
}
