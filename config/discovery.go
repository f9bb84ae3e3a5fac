package config

import (
	"fmt"
	"time"
)

// DiscoveryConfig 节点发现配置
type DiscoveryConfig struct {
	// BootstrapPeers 引导节点地址列表
	BootstrapPeers []string `json:"bootstrap_peers,omitempty"`

	// WarmStartLimit 热启动候选上限
	WarmStartLimit int `json:"warm_start_limit"`

	// CheckpointInterval 运行期缓存检查点间隔
	CheckpointInterval Duration `json:"checkpoint_interval"`
}

// DefaultDiscoveryConfig 返回默认发现配置
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		WarmStartLimit:     16,
		CheckpointInterval: Duration(5 * time.Minute),
	}
}

// Validate 验证发现配置
func (c *DiscoveryConfig) Validate() error {
	if c.WarmStartLimit < 0 {
		return fmt.Errorf("config: warm start limit must be >= 0, got %d", c.WarmStartLimit)
	}
	if c.CheckpointInterval < 0 {
		return fmt.Errorf("config: checkpoint interval must be >= 0, got %s", c.CheckpointInterval)
	}
	return nil
}
