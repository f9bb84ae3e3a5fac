package peercache

import (
	"sync"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-filemesh/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
// Store 运行期节点存储
// ════════════════════════════════════════════════════════════════════════════

// defaultHotCacheSize 热点索引默认容量
const defaultHotCacheSize = 128

// Store 运行期的节点记忆
//
// 在两次落盘之间维护活跃节点的条目与成功连接时间。
// 热点条目走 LRU 索引，避免高频查询每次都扫主表。
type Store struct {
	mu sync.RWMutex

	// 主存储（保留插入顺序）
	entries map[types.PeerID]*Entry
	order   []types.PeerID

	// 成功连接映射：节点 ID → 最后一次成功连接时间（Unix 秒）
	success map[string]int64

	// 热点索引
	hot *lru.Cache[types.PeerID, *Entry]

	clk clock.Clock
}

// StoreOption 存储选项
type StoreOption func(*Store)

// WithClock 设置时钟（用于测试）
func WithClock(clk clock.Clock) StoreOption {
	return func(s *Store) {
		s.clk = clk
	}
}

// NewStore 创建运行期节点存储
func NewStore(opts ...StoreOption) *Store {
	hot, _ := lru.New[types.PeerID, *Entry](defaultHotCacheSize)
	s := &Store{
		entries: make(map[types.PeerID]*Entry),
		success: make(map[string]int64),
		hot:     hot,
		clk:     clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedFrom 用一次加载结果初始化存储
func (s *Store) SeedFrom(result *LoadResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range result.Cache.Entries {
		if e == nil || e.ID.IsEmpty() {
			continue
		}
		if _, ok := s.entries[e.ID]; !ok {
			s.order = append(s.order, e.ID)
		}
		s.entries[e.ID] = e.Clone()
	}
	for id, ts := range result.SuccessMap {
		s.success[id] = ts
	}
}

// Put 添加或更新条目
func (s *Store) Put(entry *Entry) {
	if entry == nil || entry.ID.IsEmpty() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[entry.ID]; !ok {
		s.order = append(s.order, entry.ID)
	}
	s.entries[entry.ID] = entry
	s.hot.Add(entry.ID, entry)
}

// Get 按 ID 获取条目
func (s *Store) Get(id types.PeerID) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.hot.Get(id); ok {
		return e, true
	}
	e, ok := s.entries[id]
	return e, ok
}

// All 按插入顺序返回所有条目
func (s *Store) All() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

// Len 返回条目数量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// ════════════════════════════════════════════════════════════════════════════
// 连接与传输记录
// ════════════════════════════════════════════════════════════════════════════

// RecordConnection 记录一次成功建立的连接
//
// 不存在的节点会被创建。更新 LastSeen、连接计数与成功连接映射。
func (s *Store) RecordConnection(id types.PeerID, addrs []string) {
	if id.IsEmpty() {
		return
	}

	now := s.clk.Now().Unix()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		e = &Entry{ID: id}
		s.entries[id] = e
		s.order = append(s.order, id)
	}

	e.LastSeen = now
	e.ConnCount++
	if len(addrs) > 0 {
		e.Addrs = mergeAddrs(e.Addrs, addrs)
	}
	s.success[string(id)] = now
	s.hot.Add(id, e)
	log.Debug("记录连接", "peer", id.ShortString(), "conn_count", e.ConnCount)
}

// RecordTransfer 记录一次传输结果
func (s *Store) RecordTransfer(id types.PeerID, ok bool, bytes int64, latencyMs float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.entries[id]
	if !found {
		return
	}

	e.LastSeen = s.clk.Now().Unix()
	if ok {
		e.TransfersOK++
		e.BytesTransferred += bytes
	} else {
		e.TransfersFailed++
	}

	// 指数滑动平均，避免保存全部样本
	if latencyMs > 0 {
		if e.AvgLatencyMs == 0 {
			e.AvgLatencyMs = latencyMs
		} else {
			e.AvgLatencyMs = e.AvgLatencyMs*0.8 + latencyMs*0.2
		}
	}
}

// SuccessMap 返回成功连接映射的副本
func (s *Store) SuccessMap() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int64, len(s.success))
	for id, ts := range s.success {
		out[id] = ts
	}
	return out
}

// LiveAddrs 返回当前所有节点的地址映射（快照输入）
func (s *Store) LiveAddrs() map[types.PeerID][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[types.PeerID][]string, len(s.entries))
	for id, e := range s.entries {
		out[id] = append([]string(nil), e.Addrs...)
	}
	return out
}

// Export 导出为可持久化的 Cache（插入顺序）
func (s *Store) Export() *Cache {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cache := NewCache()
	for _, id := range s.order {
		cache.Entries = append(cache.Entries, s.entries[id].Clone())
	}
	return cache
}

// mergeAddrs 合并地址列表，保序去重
func mergeAddrs(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		seen[a] = struct{}{}
	}
	for _, a := range incoming {
		if _, ok := seen[a]; !ok {
			seen[a] = struct{}{}
			existing = append(existing, a)
		}
	}
	return existing
}
