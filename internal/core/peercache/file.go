package peercache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// ============================================================================
//                              持久化文件格式
// ============================================================================

const schemaVersion = 1

// fileSchema 缓存文件 schema
//
// 未知字段被忽略，缺失字段取零值，保证文件的前后向兼容。
type fileSchema struct {
	// Version schema 版本
	Version int `json:"version"`

	// Namespace 写入时的命名空间 key（旧版文件无此字段）
	Namespace string `json:"namespace,omitempty"`

	// SavedAt 保存时间（Unix 秒）
	SavedAt int64 `json:"saved_at"`

	// Entries 节点条目
	Entries []*Entry `json:"entries"`

	// SuccessMap 节点 ID → 最后一次成功连接时间（Unix 秒）
	SuccessMap map[string]int64 `json:"success_map,omitempty"`
}

// ============================================================================
//                              加载与保存
// ============================================================================

// readCacheFile 读取缓存文件
//
// 返回约定：
//   - 文件不存在或为空：返回 (nil, nil)，调用方按空缓存处理
//   - JSON 损坏：返回 (nil, ErrParse 包装错误)
//   - 其他 IO 失败：返回 (nil, ErrIO 包装错误)
func readCacheFile(path string) (*fileSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, newCacheError("load", path, ErrIO, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var schema fileSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, newCacheError("load", path, ErrParse, err)
	}

	if schema.Entries == nil {
		schema.Entries = make([]*Entry, 0)
	}
	return &schema, nil
}

// Load 从文件加载缓存
//
// 调用方永远得到可用的缓存：缺失、为空或损坏的文件产生空缓存。
// 损坏与 IO 失败通过第二个返回值以类型化错误上报，供调用方记录。
func Load(path string) (*Cache, error) {
	schema, err := readCacheFile(path)
	if schema == nil {
		return NewCache(), err
	}
	return &Cache{Entries: schema.Entries}, err
}

// writeCacheFile 原子写入缓存文件
//
// 先写同目录临时文件再重命名覆盖，读者不会观察到写了一半的文件。
// 按需创建父目录。
func writeCacheFile(path string, schema *fileSchema) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return newCacheError("save", path, ErrIO, err)
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return newCacheError("save", path, ErrParse, err)
	}

	// 写入临时文件（使用 0600 权限保护数据）
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return newCacheError("save", path, ErrIO, err)
	}

	// 原子重命名
	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return newCacheError("save", path, ErrIO, err)
	}

	return nil
}

// Save 保存缓存到文件，替换已有文件
func Save(path string, cache *Cache) error {
	return writeCacheFile(path, &fileSchema{
		Version: schemaVersion,
		SavedAt: time.Now().Unix(),
		Entries: cache.Entries,
	})
}
