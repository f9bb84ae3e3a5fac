package warmstart

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-filemesh/pkg/types"
)

// fakeResolver 测试用 DNS 解析器
type fakeResolver struct {
	hosts map[string][]string
	err   error
}

func (r *fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	if r.err != nil {
		return nil, r.err
	}
	ips, ok := r.hosts[host]
	if !ok {
		return nil, errors.New("no such host")
	}
	out := make([]net.IPAddr, 0, len(ips))
	for _, s := range ips {
		out = append(out, net.IPAddr{IP: net.ParseIP(s)})
	}
	return out, nil
}

// TestIsAddressAllowed_WANLiterals 测试广域模式下的字面量判定
func TestIsAddressAllowed_WANLiterals(t *testing.T) {
	p := NewPolicy(false)
	ctx := context.Background()

	// 公网字面量允许
	assert.True(t, p.IsAddressAllowed(ctx, "/ip4/203.0.113.7/tcp/4001"))
	assert.True(t, p.IsAddressAllowed(ctx, "8.8.8.8:4001"))

	// 回环/私网/链路本地拒绝
	assert.False(t, p.IsAddressAllowed(ctx, "/ip4/127.0.0.1/tcp/4001"))
	assert.False(t, p.IsAddressAllowed(ctx, "/ip4/192.168.1.10/tcp/4001"))
	assert.False(t, p.IsAddressAllowed(ctx, "/ip4/10.0.0.1/tcp/4001"))
	assert.False(t, p.IsAddressAllowed(ctx, "/ip6/fe80::1/tcp/4001"))
	assert.False(t, p.IsAddressAllowed(ctx, ""))
}

// TestIsAddressAllowed_WANDNS 测试广域模式下的 DNS 判定
func TestIsAddressAllowed_WANDNS(t *testing.T) {
	resolver := &fakeResolver{hosts: map[string][]string{
		"good.example.com":  {"203.0.113.7"},
		"localhost":         {"127.0.0.1"},
		"mixed.example.com": {"203.0.113.7", "192.168.1.1"},
	}}
	p := NewPolicyWithResolver(false, resolver)
	ctx := context.Background()

	// 解析为公网 IP 的 DNS 名允许
	assert.True(t, p.IsAddressAllowed(ctx, "/dns4/good.example.com/tcp/4001"))

	// 解析为回环的 DNS 名拒绝（如 localhost）
	assert.False(t, p.IsAddressAllowed(ctx, "/dns4/localhost/tcp/4001"))

	// 任一解析结果非公网即拒绝
	assert.False(t, p.IsAddressAllowed(ctx, "/dns4/mixed.example.com/tcp/4001"))

	// 解析不到的名称拒绝
	assert.False(t, p.IsAddressAllowed(ctx, "/dns4/unknown.example.com/tcp/4001"))
}

// TestIsAddressAllowed_ResolutionFailure 测试解析失败的安全默认是拒绝
func TestIsAddressAllowed_ResolutionFailure(t *testing.T) {
	p := NewPolicyWithResolver(false, &fakeResolver{err: errors.New("dns timeout")})
	assert.False(t, p.IsAddressAllowed(context.Background(), "/dns4/any.example.com/tcp/4001"))
}

// TestIsAddressAllowed_LANMode 测试局域网模式的判定反转
func TestIsAddressAllowed_LANMode(t *testing.T) {
	p := NewPolicy(true)
	ctx := context.Background()

	assert.True(t, p.IsAddressAllowed(ctx, "/ip4/127.0.0.1/tcp/4001"))
	assert.True(t, p.IsAddressAllowed(ctx, "/ip4/192.168.1.10/tcp/4001"))
	assert.False(t, p.IsAddressAllowed(ctx, "/ip4/203.0.113.7/tcp/4001"))
}

// TestFilterCandidates 测试过滤保序与地址收敛
func TestFilterCandidates(t *testing.T) {
	p := NewPolicy(false)

	candidates := []Candidate{
		{ID: types.PeerID("pub"), Addrs: []string{"/ip4/203.0.113.7/tcp/4001"}, LastSuccess: 300},
		{ID: types.PeerID("mixed"), Addrs: []string{"/ip4/127.0.0.1/tcp/4001", "/ip4/198.51.100.3/tcp/4001"}, LastSuccess: 200},
		{ID: types.PeerID("stale"), Addrs: []string{"/ip4/10.0.0.9/tcp/4001"}, LastSuccess: 100},
	}

	out := p.FilterCandidates(context.Background(), candidates)
	require.Len(t, out, 2)

	// 排序保持不变
	assert.Equal(t, types.PeerID("pub"), out[0].ID)
	assert.Equal(t, types.PeerID("mixed"), out[1].ID)

	// 混合候选的地址被收敛为可准入子集
	assert.Equal(t, []string{"/ip4/198.51.100.3/tcp/4001"}, out[1].Addrs)
}
