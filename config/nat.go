package config

import "fmt"

// NATConfig NAT 穿透配置
type NATConfig struct {
	// EnableReachability 是否启用可达性检测与打洞结果上报
	EnableReachability bool `json:"enable_reachability"`

	// STUNServers STUN 服务器列表
	//
	// 为空时使用内置默认列表。
	STUNServers []string `json:"stun_servers,omitempty"`
}

// DefaultNATConfig 返回默认 NAT 配置
func DefaultNATConfig() NATConfig {
	return NATConfig{
		EnableReachability: true,
	}
}

// Validate 验证 NAT 配置
func (c *NATConfig) Validate() error {
	for _, s := range c.STUNServers {
		if s == "" {
			return fmt.Errorf("config: empty STUN server entry")
		}
	}
	return nil
}
