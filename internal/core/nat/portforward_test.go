package nat

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-filemesh/pkg/types"
)

// fakeDetector 测试用地址探测器
type fakeDetector struct {
	publicIP  net.IP
	publicErr error
	localIP   net.IP
	localErr  error
}

func (f *fakeDetector) PublicIP(_ context.Context) (net.IP, error) {
	return f.publicIP, f.publicErr
}

func (f *fakeDetector) LocalIP() (net.IP, error) {
	return f.localIP, f.localErr
}

// TestService_PortForwardingConfig 测试完整配置摘要
func TestService_PortForwardingConfig(t *testing.T) {
	det := &fakeDetector{
		publicIP: net.ParseIP("203.0.113.7"),
		localIP:  net.ParseIP("192.168.1.20"),
	}
	s := NewService(4001, NewTraversalReporter(true), det)
	s.SetNATType(types.NATTypePortRestricted)
	s.SetReachability(types.ReachabilityPrivate)
	s.SetListenAddrs([]string{"/ip4/0.0.0.0/tcp/4001"})

	cfg := s.PortForwardingConfig(context.Background())

	assert.Equal(t, "203.0.113.7", cfg.PublicIP)
	assert.Equal(t, "192.168.1.20", cfg.LocalIP)
	assert.Equal(t, 4001, cfg.PrimaryPort)
	assert.Equal(t, types.NATTypePortRestricted.String(), cfg.NATStatus)
	assert.Equal(t, types.ReachabilityPrivate.String(), cfg.Reachability)
	assert.Equal(t, []string{"/ip4/0.0.0.0/tcp/4001"}, cfg.ListenAddrs)

	require.NotEmpty(t, cfg.Instructions)
	assert.Contains(t, cfg.Instructions[0], "192.168.1.20:4001")
}

// TestService_DetectFailureDoesNotBlock 测试探测失败不阻断摘要生成
func TestService_DetectFailureDoesNotBlock(t *testing.T) {
	det := &fakeDetector{
		publicErr: errors.New("stun unreachable"),
		localErr:  errors.New("no route"),
	}
	s := NewService(4001, NewTraversalReporter(false), det)

	cfg := s.PortForwardingConfig(context.Background())

	assert.Empty(t, cfg.PublicIP)
	assert.Empty(t, cfg.LocalIP)
	assert.Equal(t, types.NATTypeUnknown.String(), cfg.NATStatus)
	assert.NotEmpty(t, cfg.Instructions)
}

// TestService_PrivateSTUNResultIgnored 测试探测到的私网地址不会当作公网 IP
func TestService_PrivateSTUNResultIgnored(t *testing.T) {
	det := &fakeDetector{
		publicIP: net.ParseIP("10.0.0.5"),
		localIP:  net.ParseIP("10.0.0.5"),
	}
	s := NewService(4001, NewTraversalReporter(false), det)

	cfg := s.PortForwardingConfig(context.Background())
	assert.Empty(t, cfg.PublicIP)
	assert.Equal(t, "10.0.0.5", cfg.LocalIP)
}

// TestService_PublicReachabilitySkipsInstructions 测试公网可达时无需转发指引
func TestService_PublicReachabilitySkipsInstructions(t *testing.T) {
	det := &fakeDetector{
		publicIP: net.ParseIP("203.0.113.7"),
		localIP:  net.ParseIP("192.168.1.20"),
	}
	s := NewService(4001, NewTraversalReporter(true), det)
	s.SetReachability(types.ReachabilityPublic)

	cfg := s.PortForwardingConfig(context.Background())
	require.Len(t, cfg.Instructions, 1)
	assert.Contains(t, cfg.Instructions[0], "无需配置")
}

// TestService_SymmetricNATInstruction 测试对称 NAT 的额外提示
func TestService_SymmetricNATInstruction(t *testing.T) {
	det := &fakeDetector{
		publicIP: net.ParseIP("203.0.113.7"),
		localIP:  net.ParseIP("192.168.1.20"),
	}
	s := NewService(4001, NewTraversalReporter(true), det)
	s.SetNATType(types.NATTypeSymmetric)
	s.SetReachability(types.ReachabilityPrivate)

	cfg := s.PortForwardingConfig(context.Background())

	found := false
	for _, line := range cfg.Instructions {
		if strings.Contains(line, "对称 NAT") {
			found = true
		}
	}
	assert.True(t, found, "应包含对称 NAT 提示")
}

// TestService_StateAccessors 测试状态读写
func TestService_StateAccessors(t *testing.T) {
	s := NewService(4001, NewTraversalReporter(true), &fakeDetector{})

	assert.Equal(t, types.NATTypeUnknown, s.NATType())
	assert.Equal(t, types.ReachabilityUnknown, s.Reachability())

	s.SetNATType(types.NATTypeFull)
	s.SetReachability(types.ReachabilityPublic)

	assert.Equal(t, types.NATTypeFull, s.NATType())
	assert.Equal(t, types.ReachabilityPublic, s.Reachability())
	assert.True(t, s.NATType().SupportsHolePunch())
	assert.NotNil(t, s.Reporter())
}
