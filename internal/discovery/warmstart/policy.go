package warmstart

import (
	"context"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-filemesh/internal/util/addrutil"
)

// ============================================================================
//                              地址准入策略
// ============================================================================

// Resolver DNS 解析接口（*net.Resolver 满足）
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Policy 热启动地址准入策略
//
// 广域模式下，从缓存里捞出的 localhost 或私网地址意味着缓存过期
// 或被投毒，自动重连不得拨出这类地址。解析失败的安全默认是拒绝。
type Policy struct {
	// RestrictToLAN 限制为仅局域网地址
	RestrictToLAN bool

	resolver Resolver
}

// NewPolicy 创建地址准入策略
func NewPolicy(restrictToLAN bool) *Policy {
	return &Policy{
		RestrictToLAN: restrictToLAN,
		resolver:      net.DefaultResolver,
	}
}

// NewPolicyWithResolver 创建使用指定解析器的策略（用于测试）
func NewPolicyWithResolver(restrictToLAN bool, resolver Resolver) *Policy {
	return &Policy{
		RestrictToLAN: restrictToLAN,
		resolver:      resolver,
	}
}

// IsAddressAllowed 判断地址是否允许用于热启动重连
//
// 广域模式（RestrictToLAN=false）：
//   - 公网 IP 字面量允许
//   - 回环/私网/链路本地的字面量拒绝
//   - DNS 名称先解析，任一结果非公网即拒绝；解析失败拒绝
//
// 局域网模式（RestrictToLAN=true）：
//   - 回环/私网字面量允许，公网字面量拒绝
//   - DNS 名称解析后按同样规则判断
func (p *Policy) IsAddressAllowed(ctx context.Context, addr string) bool {
	if addr == "" {
		return false
	}

	// 字面量 IP 直接判定
	if ip := addrutil.ExtractIP(addr); ip != nil {
		return p.allowIP(ip)
	}

	// DNS 名称：解析后判定（挂起点只在这里，不持有任何锁）
	host := addrutil.ExtractHost(addr)
	if host == "" {
		return false
	}

	ipAddrs, err := p.resolver.LookupIPAddr(ctx, host)
	if err != nil || len(ipAddrs) == 0 {
		log.Debug("地址解析失败，拒绝热启动候选地址", "addr", addr, "error", err)
		return false
	}

	for _, ia := range ipAddrs {
		if !p.allowIP(ia.IP) {
			return false
		}
	}
	return true
}

// allowIP 按模式判定单个 IP
func (p *Policy) allowIP(ip net.IP) bool {
	if p.RestrictToLAN {
		return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
	}
	return addrutil.IsPublicIP(ip)
}

// FilterCandidates 对候选列表应用准入策略
//
// 每个候选并发评估，输出保持输入的排序；候选至少有一个可准入
// 地址才会保留，且其地址列表被收敛为可准入的子集。
func (p *Policy) FilterCandidates(ctx context.Context, candidates []Candidate) []Candidate {
	allowed := make([][]string, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i := range candidates {
		i := i
		g.Go(func() error {
			var keep []string
			for _, addr := range candidates[i].Addrs {
				if p.IsAddressAllowed(gctx, addr) {
					keep = append(keep, addr)
				}
			}
			allowed[i] = keep
			return nil
		})
	}
	_ = g.Wait() // 评估函数不返回错误，拒绝即剔除

	out := make([]Candidate, 0, len(candidates))
	for i, c := range candidates {
		if len(allowed[i]) == 0 {
			continue
		}
		c.Addrs = allowed[i]
		out = append(out, c)
	}

	if dropped := len(candidates) - len(out); dropped > 0 {
		log.Debug("地址策略剔除热启动候选", "dropped", dropped, "kept", len(out))
	}
	return out
}
