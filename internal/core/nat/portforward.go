package nat

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/dep2p/go-filemesh/internal/util/addrutil"
	"github.com/dep2p/go-filemesh/pkg/types"
)

// ============================================================================
//                              PortForwardingConfig
// ============================================================================

// PortForwardingConfig 端口转发配置摘要
//
// 面向运维人员：汇总探测到的地址信息与当前 NAT 分类，并给出
// 人类可读的配置指引。
type PortForwardingConfig struct {
	// PublicIP 探测到的公网 IP（未知时为空）
	PublicIP string `json:"public_ip,omitempty"`

	// LocalIP 本机内网 IP（未知时为空）
	LocalIP string `json:"local_ip,omitempty"`

	// PrimaryPort 主监听端口
	PrimaryPort int `json:"primary_port"`

	// NATStatus NAT 分类描述
	NATStatus string `json:"nat_status"`

	// Reachability 可达性状态描述
	Reachability string `json:"reachability"`

	// ListenAddrs 当前监听地址列表
	ListenAddrs []string `json:"listen_addrs,omitempty"`

	// Instructions 配置指引
	Instructions []string `json:"instructions,omitempty"`
}

// ============================================================================
//                              AddrDetector 接口
// ============================================================================

// AddrDetector 地址探测器
//
// 生产实现走 STUN 与 NAT-PMP（见 detect.go），测试注入假实现。
type AddrDetector interface {
	// PublicIP 探测公网 IP
	PublicIP(ctx context.Context) (net.IP, error)

	// LocalIP 探测本机内网 IP
	LocalIP() (net.IP, error)
}

// ============================================================================
//                              Service
// ============================================================================

// Service NAT 状态汇聚服务
//
// 持有传输层上报的 NAT 分类、可达性结论与监听地址，
// 按需生成端口转发配置摘要。
type Service struct {
	mu sync.RWMutex

	natType      types.NATType
	reachability types.Reachability
	listenAddrs  []string
	primaryPort  int

	detector AddrDetector
	reporter *TraversalReporter
}

// NewService 创建 NAT 状态汇聚服务
func NewService(primaryPort int, reporter *TraversalReporter, detector AddrDetector) *Service {
	if detector == nil {
		detector = NewDetector()
	}
	return &Service{
		natType:      types.NATTypeUnknown,
		reachability: types.ReachabilityUnknown,
		primaryPort:  primaryPort,
		detector:     detector,
		reporter:     reporter,
	}
}

// SetNATType 更新 NAT 分类
func (s *Service) SetNATType(t types.NATType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.natType != t {
		log.Debug("NAT 分类更新", "old", s.natType, "new", t)
	}
	s.natType = t
}

// NATType 返回当前 NAT 分类
func (s *Service) NATType() types.NATType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.natType
}

// SetReachability 更新可达性结论
func (s *Service) SetReachability(r types.Reachability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reachability = r
}

// Reachability 返回当前可达性结论
func (s *Service) Reachability() types.Reachability {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reachability
}

// SetListenAddrs 更新监听地址列表
func (s *Service) SetListenAddrs(addrs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listenAddrs = append([]string(nil), addrs...)
}

// Reporter 返回打洞结果聚合器
func (s *Service) Reporter() *TraversalReporter {
	return s.reporter
}

// PortForwardingConfig 生成端口转发配置摘要
//
// 地址探测失败不阻断摘要生成，对应字段留空并在指引中提示。
func (s *Service) PortForwardingConfig(ctx context.Context) PortForwardingConfig {
	s.mu.RLock()
	natType := s.natType
	reach := s.reachability
	port := s.primaryPort
	addrs := append([]string(nil), s.listenAddrs...)
	s.mu.RUnlock()

	cfg := PortForwardingConfig{
		PrimaryPort:  port,
		NATStatus:    natType.String(),
		Reachability: reach.String(),
		ListenAddrs:  addrs,
	}

	if ip, err := s.detector.PublicIP(ctx); err != nil {
		log.Debug("公网 IP 探测失败", "err", err)
	} else if ip != nil && addrutil.IsPublicIP(ip) {
		cfg.PublicIP = ip.String()
	}

	if ip, err := s.detector.LocalIP(); err != nil {
		log.Debug("内网 IP 探测失败", "err", err)
	} else if ip != nil {
		cfg.LocalIP = ip.String()
	}

	cfg.Instructions = buildInstructions(cfg, natType, reach)
	return cfg
}

// buildInstructions 生成配置指引
func buildInstructions(cfg PortForwardingConfig, natType types.NATType, reach types.Reachability) []string {
	// 已公网可达则无需任何配置
	if reach == types.ReachabilityPublic {
		return []string{"节点已公网可达，无需配置端口转发"}
	}

	var out []string

	if cfg.LocalIP != "" {
		out = append(out, fmt.Sprintf(
			"在路由器上将外部端口 %d 转发到内网地址 %s:%d（TCP 与 UDP）",
			cfg.PrimaryPort, cfg.LocalIP, cfg.PrimaryPort))
	} else {
		out = append(out, fmt.Sprintf(
			"在路由器上将外部端口 %d 转发到本机监听端口 %d（TCP 与 UDP）",
			cfg.PrimaryPort, cfg.PrimaryPort))
	}

	if cfg.PublicIP == "" {
		out = append(out, "未能探测到公网 IP，请确认出口网络可访问 STUN 服务")
	}

	switch natType {
	case types.NATTypeSymmetric:
		out = append(out, "检测到对称 NAT，打洞不可用，端口转发或中继是唯一出路")
	case types.NATTypeUnknown:
		out = append(out, "NAT 类型未知，完成端口转发后重启节点以重新检测")
	}

	return out
}
