// Package types 定义 filemesh 的基础类型
//
// 这是整个系统的最底层包，不依赖任何其他 filemesh 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
package types

// ============================================================================
//                              PeerID - 节点标识
// ============================================================================

// PeerID 节点唯一标识符
//
// 在本子系统中是不透明字符串（由外部身份层派生），
// 仅用于缓存键、排序和日志。
type PeerID string

// String 返回 PeerID 的字符串表示
func (id PeerID) String() string {
	return string(id)
}

// ShortString 返回 PeerID 的短字符串表示
//
// 格式：前 8 个字符，用于日志中的简短标识。
func (id PeerID) ShortString() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// IsEmpty 检查 PeerID 是否为空
func (id PeerID) IsEmpty() bool {
	return id == ""
}

// ============================================================================
//                              PeerInfo - 节点信息
// ============================================================================

// PeerInfo 节点信息（ID + 地址列表）
type PeerInfo struct {
	// ID 节点 ID
	ID PeerID

	// Addrs 节点地址列表（multiaddr 风格字符串）
	Addrs []string
}
