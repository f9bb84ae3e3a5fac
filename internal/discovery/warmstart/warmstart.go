// Package warmstart 提供热启动候选节点排序与地址准入策略
//
// 节点重启后优先重连最近成功过的缓存节点，而不是只依赖引导节点。
// 候选列表的排序是确定性的：相同输入每次产生字节级相同的输出，
// 这是测试与可复现重连行为的依赖。
package warmstart

import (
	"sort"

	"github.com/dep2p/go-filemesh/internal/core/peercache"
	"github.com/dep2p/go-filemesh/internal/util/logger"
	"github.com/dep2p/go-filemesh/pkg/types"
)

var log = logger.Logger("warmstart")

// ============================================================================
//                              候选节点
// ============================================================================

// Candidate 热启动重连候选
type Candidate struct {
	// ID 节点 ID
	ID types.PeerID

	// Addrs 已知地址列表
	Addrs []string

	// LastSuccess 最后一次成功连接时间（Unix 秒，0 表示从未成功）
	LastSuccess int64
}

// ============================================================================
//                              排序
// ============================================================================

// BuildCandidates 从缓存构建有序候选列表
//
// 排序规则：最后成功连接时间降序，平局按节点 ID 升序。
// 返回至多 limit 个候选；limit <= 0 时返回空列表。
func BuildCandidates(cache *peercache.Cache, successMap map[string]int64, limit int) []Candidate {
	if cache == nil || limit <= 0 {
		return []Candidate{}
	}

	candidates := make([]Candidate, 0, cache.Len())
	for _, e := range cache.Entries {
		if e == nil || e.ID.IsEmpty() {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:          e.ID,
			Addrs:       append([]string(nil), e.Addrs...),
			LastSuccess: successMap[string(e.ID)],
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].LastSuccess != candidates[j].LastSuccess {
			return candidates[i].LastSuccess > candidates[j].LastSuccess
		}
		return candidates[i].ID < candidates[j].ID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
