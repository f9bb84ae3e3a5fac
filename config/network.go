package config

import "fmt"

// NetworkConfig 网络配置
type NetworkConfig struct {
	// ListenPort 主监听端口
	ListenPort int `json:"listen_port"`

	// RestrictToLAN 局域网模式
	//
	// 启用后地址准入策略只接受回环与私网地址（开发环境），
	// 关闭时为 WAN 模式，只接受公网可路由地址。
	RestrictToLAN bool `json:"restrict_to_lan"`
}

// DefaultNetworkConfig 返回默认网络配置
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		ListenPort:    4001,
		RestrictToLAN: false,
	}
}

// Validate 验证网络配置
func (c *NetworkConfig) Validate() error {
	if c.ListenPort < 1 || c.ListenPort > 65535 {
		return fmt.Errorf("config: invalid listen port %d", c.ListenPort)
	}
	return nil
}
