package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rushteam/movierec/core"
)

// DefaultMetaTTL 元数据缓存的默认过期秒数。
const DefaultMetaTTL = 600

// CachedCatalog 在向量目录外面套一层 KV 缓存，只加速元数据补全
// （HydrateMeta / PopularMovies 之外的读路径不缓存：向量与近邻结果随
// 离线训练更新，评分历史要求读到最新写入）。
//
// 缓存失效只影响延迟不影响正确性：miss 直接回源。
type CachedCatalog struct {
	core.VectorStore

	Cache core.Store
	// TTL 缓存过期秒数，<=0 时取 DefaultMetaTTL。
	TTL int
}

func NewCachedCatalog(catalog core.VectorStore, cache core.Store) *CachedCatalog {
	return &CachedCatalog{VectorStore: catalog, Cache: cache, TTL: DefaultMetaTTL}
}

func (c *CachedCatalog) Name() string { return "cached:" + c.VectorStore.Name() }

func metaKey(id int64) string { return "meta:" + strconv.FormatInt(id, 10) }

// HydrateMeta 先查缓存，miss 的批量回源并回填。
// 缓存读写失败视为 miss，不让缓存故障放大为请求失败。
func (c *CachedCatalog) HydrateMeta(ctx context.Context, ids []int64) (map[int64]*core.Movie, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = metaKey(id)
	}

	out := make(map[int64]*core.Movie, len(ids))
	var misses []int64

	cached, err := c.Cache.BatchGet(ctx, keys)
	if err != nil {
		cached = nil
	}
	for i, id := range ids {
		raw, ok := cached[keys[i]]
		if !ok {
			misses = append(misses, id)
			continue
		}
		m := &core.Movie{}
		if err := json.Unmarshal(raw, m); err != nil {
			misses = append(misses, id)
			continue
		}
		out[id] = m
	}

	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := c.VectorStore.HydrateMeta(ctx, misses)
	if err != nil {
		return nil, err
	}

	backfill := make(map[string][]byte, len(fetched))
	for id, m := range fetched {
		out[id] = m
		if raw, err := json.Marshal(m); err == nil {
			backfill[metaKey(id)] = raw
		}
	}
	if len(backfill) > 0 {
		ttl := c.TTL
		if ttl <= 0 {
			ttl = DefaultMetaTTL
		}
		_ = c.Cache.BatchSet(ctx, backfill, ttl)
	}
	return out, nil
}

func (c *CachedCatalog) Close() error {
	_ = c.Cache.Close()
	return c.VectorStore.Close()
}

var _ core.VectorStore = (*CachedCatalog)(nil)
