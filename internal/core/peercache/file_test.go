package peercache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-filemesh/pkg/types"
)

// testEntries 构造测试条目
func testEntries() []*Entry {
	return []*Entry{
		{
			ID:               types.PeerID("peer-a"),
			Addrs:            []string{"/ip4/1.1.1.1/tcp/4001"},
			LastSeen:         1700000000,
			ConnCount:        5,
			TransfersOK:      3,
			TransfersFailed:  1,
			BytesTransferred: 1 << 20,
			AvgLatencyMs:     42.5,
			IsBootstrap:      true,
			Reliability:      0.9,
		},
		{
			ID:            types.PeerID("peer-b"),
			Addrs:         []string{"/ip4/2.2.2.2/tcp/4001", "/ip6/::2/tcp/4001"},
			LastSeen:      1700000100,
			SupportsRelay: true,
		},
	}
}

// TestLoad_MissingFile 测试缺失文件得到空缓存且无错误
func TestLoad_MissingFile(t *testing.T) {
	cache, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.NotNil(t, cache)
	assert.Equal(t, 0, cache.Len())
}

// TestLoad_EmptyFile 测试空文件得到空缓存且无错误
func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	cache, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())
}

// TestLoad_CorruptFile 测试损坏文件得到空缓存与类型化错误
func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	cache, err := Load(path)
	require.NotNil(t, cache)
	assert.Equal(t, 0, cache.Len())
	assert.ErrorIs(t, err, ErrParse)

	var cacheErr *CacheError
	assert.True(t, errors.As(err, &cacheErr))
	assert.Equal(t, "load", cacheErr.Op)
}

// TestSaveLoad_RoundTrip 测试保存后重新加载还原全部条目
func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "cache.json")

	original := &Cache{Entries: testEntries()}
	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.Entries, loaded.Entries)
}

// TestSave_ReplacesExisting 测试保存替换已有文件且无残留临时文件
func TestSave_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	require.NoError(t, Save(path, &Cache{Entries: testEntries()}))
	require.NoError(t, Save(path, NewCache()))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

// TestLoad_UnknownFieldsIgnored 测试未知字段不影响反序列化
func TestLoad_UnknownFieldsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forward.json")
	doc := `{
		"version": 99,
		"future_field": {"nested": true},
		"entries": [
			{"id": "peer-x", "addrs": ["/ip4/3.3.3.3/tcp/4001"], "brand_new_flag": 7}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	cache, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())
	assert.Equal(t, types.PeerID("peer-x"), cache.Entries[0].ID)
	// 缺失字段取零值
	assert.Zero(t, cache.Entries[0].ConnCount)
	assert.False(t, cache.Entries[0].IsBootstrap)
}
