package config

// NamespaceConfig 命名空间配置
//
// 命名空间指纹决定节点使用哪个对等缓存文件，由引导节点集合、
// 监听端口与（可选的）链标识共同派生。
type NamespaceConfig struct {
	// ChainID 链标识（可选）
	ChainID string `json:"chain_id,omitempty"`

	// IncludeChainID 是否将链标识纳入命名空间指纹
	//
	// 启用后不同链的节点即使引导配置相同也使用隔离的缓存。
	IncludeChainID bool `json:"include_chain_id"`
}

// DefaultNamespaceConfig 返回默认命名空间配置
func DefaultNamespaceConfig() NamespaceConfig {
	return NamespaceConfig{}
}
