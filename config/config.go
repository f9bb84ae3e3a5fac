// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Network.ListenPort = 4002
//	cfg.NAT.EnableReachability = true
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

import "encoding/json"

// Config 是 FileMesh 节点的完整配置结构
//
// 配置按照功能模块组织：
//   - Network: 监听端口与地址准入策略
//   - Namespace: 缓存命名空间标识
//   - Discovery: 引导节点与热启动
//   - NAT: NAT 穿透与可达性
//   - Storage: 数据目录
type Config struct {
	// Network 网络配置
	Network NetworkConfig `json:"network"`

	// Namespace 命名空间配置
	Namespace NamespaceConfig `json:"namespace"`

	// Discovery 节点发现配置
	Discovery DiscoveryConfig `json:"discovery"`

	// NAT NAT 穿透配置
	NAT NATConfig `json:"nat"`

	// Storage 存储配置
	Storage StorageConfig `json:"storage"`
}

// NewConfig 创建默认配置
//
// 返回的配置使用所有组件的默认值，适用于大多数场景。
func NewConfig() *Config {
	return &Config{
		Network:   DefaultNetworkConfig(),
		Namespace: DefaultNamespaceConfig(),
		Discovery: DefaultDiscoveryConfig(),
		NAT:       DefaultNATConfig(),
		Storage:   DefaultStorageConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，如果发现无效配置则返回错误。
// 建议在使用配置前调用此方法。
func (c *Config) Validate() error {
	if err := c.Network.Validate(); err != nil {
		return err
	}
	if err := c.Discovery.Validate(); err != nil {
		return err
	}
	if err := c.NAT.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	return nil
}

// FromJSON 从 JSON 数据解析配置
//
// 未出现的字段保持默认值。
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToJSON 序列化配置为 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
