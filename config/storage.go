package config

import "errors"

// StorageConfig 存储配置
type StorageConfig struct {
	// DataDir 数据目录
	//
	// 对等缓存等持久化文件都存放在该目录下。
	DataDir string `json:"data_dir"`
}

// DefaultStorageConfig 返回默认存储配置
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		DataDir: ".filemesh",
	}
}

// Validate 验证存储配置
func (c *StorageConfig) Validate() error {
	if c.DataDir == "" {
		return errors.New("config: data dir must not be empty")
	}
	return nil
}
