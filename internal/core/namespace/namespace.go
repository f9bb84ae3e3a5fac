// Package namespace 提供网络配置指纹与缓存分区
//
// 节点的引导配置（引导地址集合、监听端口、可选链标识）决定它加入的
// 逻辑网络。为了避免不同网络的节点缓存互相污染，每个配置会被哈希为
// 一个稳定的命名空间 key，缓存文件按 key 分区存放。
//
// key 的性质：
//   - 对引导地址的排列顺序和首尾空白不敏感
//   - 对监听端口敏感
//   - 仅在 IncludeChainID 为 true 时对链标识敏感
package namespace

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sha256 "github.com/minio/sha256-simd"
)

const (
	// keyLength 命名空间 key 的十六进制字符数
	keyLength = 16

	// cacheDirName 缓存子目录名
	cacheDirName = "cache"

	// legacyCacheFile 分区引入前的单一缓存文件名
	legacyCacheFile = "peer_cache.json"

	// cacheFilePrefix 分区缓存文件名前缀
	cacheFilePrefix = "peer_cache_"
)

// ============================================================================
//                              Meta - 指纹输入
// ============================================================================

// Meta 命名空间指纹的输入
//
// 对于一次运行构造后不可变。
type Meta struct {
	// ListenPort 监听端口
	ListenPort int

	// BootstrapPeers 引导地址字符串集合（multiaddr 风格）
	BootstrapPeers []string

	// ChainID 可选链标识
	ChainID string

	// IncludeChainID 链标识是否参与指纹
	IncludeChainID bool
}

// ============================================================================
//                              Context - 派生上下文
// ============================================================================

// Context 由 Meta 派生的命名空间上下文
//
// 每个节点配置在启动时构建一个 Context，进程生命周期内不变。
type Context struct {
	// Key 计算出的命名空间 key
	Key string

	// CachePath 命名空间专属缓存文件路径
	CachePath string

	// LegacyCachePath 单一旧版缓存文件路径
	LegacyCachePath string
}

// NewContext 从数据目录和 Meta 构建命名空间上下文
func NewContext(dataDir string, meta Meta) *Context {
	key := ComputeKey(meta.BootstrapPeers, meta.ListenPort, meta.ChainID, meta.IncludeChainID)
	cacheDir := filepath.Join(dataDir, cacheDirName)

	return &Context{
		Key:             key,
		CachePath:       filepath.Join(cacheDir, cacheFilePrefix+key+".json"),
		LegacyCachePath: filepath.Join(cacheDir, legacyCacheFile),
	}
}

// ============================================================================
//                              指纹计算
// ============================================================================

// CanonicalizeBootstrapSet 规范化引导地址集合
//
// 去除每个地址的首尾空白、删除完全重复项、按字典序排序，
// 使同一逻辑集合无论输入顺序或空白差异都得到相同的规范形式。
func CanonicalizeBootstrapSet(addrs []string) []string {
	seen := make(map[string]struct{}, len(addrs))
	out := make([]string, 0, len(addrs))

	for _, addr := range addrs {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}

	sort.Strings(out)
	return out
}

// ComputeKey 计算命名空间 key
//
// 对规范化后的地址列表、端口以及（仅在 includeChain 为 true 时）
// 链标识做 SHA-256，取前 16 个十六进制字符。
func ComputeKey(addrs []string, port int, chainID string, includeChain bool) string {
	canonical := CanonicalizeBootstrapSet(addrs)

	h := sha256.New()
	for _, addr := range canonical {
		h.Write([]byte(addr))
		h.Write([]byte{'\n'})
	}
	fmt.Fprintf(h, "|port:%d", port)
	if includeChain {
		fmt.Fprintf(h, "|chain:%s", chainID)
	}

	return hex.EncodeToString(h.Sum(nil))[:keyLength]
}
