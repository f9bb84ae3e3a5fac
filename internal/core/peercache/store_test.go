package peercache

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-filemesh/pkg/types"
)

// TestStore_PutGet 测试基本读写
func TestStore_PutGet(t *testing.T) {
	s := NewStore()

	s.Put(&Entry{ID: types.PeerID("peer-a"), Addrs: []string{"/ip4/1.1.1.1/tcp/4001"}})

	e, ok := s.Get(types.PeerID("peer-a"))
	require.True(t, ok)
	assert.Equal(t, types.PeerID("peer-a"), e.ID)

	_, ok = s.Get(types.PeerID("missing"))
	assert.False(t, ok)
}

// TestStore_AllPreservesInsertionOrder 测试 All 保留插入顺序
func TestStore_AllPreservesInsertionOrder(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"c", "a", "b"} {
		s.Put(&Entry{ID: types.PeerID(id)})
	}

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, types.PeerID("c"), all[0].ID)
	assert.Equal(t, types.PeerID("a"), all[1].ID)
	assert.Equal(t, types.PeerID("b"), all[2].ID)
}

// TestStore_RecordConnection 测试连接记录更新计数与成功映射
func TestStore_RecordConnection(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Unix(1700000000, 0))
	s := NewStore(WithClock(mock))

	s.RecordConnection(types.PeerID("peer-a"), []string{"/ip4/1.1.1.1/tcp/4001"})
	mock.Set(time.Unix(1700000060, 0))
	s.RecordConnection(types.PeerID("peer-a"), []string{"/ip4/1.1.1.1/tcp/4001", "/ip6/::1/tcp/4001"})

	e, ok := s.Get(types.PeerID("peer-a"))
	require.True(t, ok)
	assert.Equal(t, int64(2), e.ConnCount)
	assert.Equal(t, int64(1700000060), e.LastSeen)
	// 地址合并去重
	assert.Equal(t, []string{"/ip4/1.1.1.1/tcp/4001", "/ip6/::1/tcp/4001"}, e.Addrs)

	assert.Equal(t, int64(1700000060), s.SuccessMap()["peer-a"])
}

// TestStore_RecordTransfer 测试传输计数与延迟平滑
func TestStore_RecordTransfer(t *testing.T) {
	s := NewStore()
	s.Put(&Entry{ID: types.PeerID("peer-a")})

	s.RecordTransfer(types.PeerID("peer-a"), true, 1024, 100)
	s.RecordTransfer(types.PeerID("peer-a"), false, 0, 0)
	s.RecordTransfer(types.PeerID("peer-a"), true, 2048, 200)

	e, _ := s.Get(types.PeerID("peer-a"))
	assert.Equal(t, int64(2), e.TransfersOK)
	assert.Equal(t, int64(1), e.TransfersFailed)
	assert.Equal(t, int64(3072), e.BytesTransferred)
	assert.InDelta(t, 120.0, e.AvgLatencyMs, 0.001)

	// 未知节点的传输记录被忽略
	s.RecordTransfer(types.PeerID("ghost"), true, 1, 1)
	assert.Equal(t, 1, s.Len())
}

// TestStore_SeedFromAndExport 测试加载结果播种与导出
func TestStore_SeedFromAndExport(t *testing.T) {
	s := NewStore()
	s.SeedFrom(&LoadResult{
		Cache:      &Cache{Entries: testEntries()},
		SuccessMap: map[string]int64{"peer-a": 123},
	})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, int64(123), s.SuccessMap()["peer-a"])

	exported := s.Export()
	require.Equal(t, 2, exported.Len())
	assert.Equal(t, types.PeerID("peer-a"), exported.Entries[0].ID)

	// 导出是深拷贝，修改不回写
	exported.Entries[0].ConnCount = 999
	e, _ := s.Get(types.PeerID("peer-a"))
	assert.NotEqual(t, int64(999), e.ConnCount)
}

// TestStore_ConcurrentAccess 测试并发读写安全
func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := types.PeerID(string(rune('a' + n)))
			for j := 0; j < 100; j++ {
				s.RecordConnection(id, []string{"/ip4/1.1.1.1/tcp/4001"})
				s.Get(id)
				s.SuccessMap()
				s.All()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, s.Len())
}
