package types

// ============================================================================
//                              NATType - NAT 类型
// ============================================================================

// NATType NAT 类型
type NATType int

const (
	// NATTypeUnknown 未知类型
	NATTypeUnknown NATType = iota
	// NATTypeNone 无 NAT（公网）
	NATTypeNone
	// NATTypeFull 完全锥形 NAT
	NATTypeFull
	// NATTypeRestricted 受限锥形 NAT
	NATTypeRestricted
	// NATTypePortRestricted 端口受限锥形 NAT
	NATTypePortRestricted
	// NATTypeSymmetric 对称 NAT
	NATTypeSymmetric
)

// String 返回 NAT 类型字符串表示
func (t NATType) String() string {
	switch t {
	case NATTypeNone:
		return "none"
	case NATTypeFull:
		return "full_cone"
	case NATTypeRestricted:
		return "restricted_cone"
	case NATTypePortRestricted:
		return "port_restricted_cone"
	case NATTypeSymmetric:
		return "symmetric"
	default:
		return "unknown"
	}
}

// SupportsHolePunch 判断该 NAT 类型是否通常支持打洞
//
// 对称 NAT 的端口映射随目标变化，打洞成功率极低。
func (t NATType) SupportsHolePunch() bool {
	switch t {
	case NATTypeNone, NATTypeFull, NATTypeRestricted, NATTypePortRestricted:
		return true
	default:
		return false
	}
}

// ============================================================================
//                              Reachability - 可达性
// ============================================================================

// Reachability 节点可达性状态
type Reachability int

const (
	// ReachabilityUnknown 未知
	ReachabilityUnknown Reachability = iota
	// ReachabilityPublic 公网可达
	ReachabilityPublic
	// ReachabilityPrivate NAT 后
	ReachabilityPrivate
)

// String 返回可达性字符串表示
func (r Reachability) String() string {
	switch r {
	case ReachabilityPublic:
		return "public"
	case ReachabilityPrivate:
		return "private"
	default:
		return "unknown"
	}
}
