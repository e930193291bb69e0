package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rushteam/movierec/core"
)

// MemoryCatalog 是内存实现的向量目录，平替 Postgres + pgvector，
// 用于测试/开发/原型。近邻查询为暴力扫描，语义与生产索引一致：
// 按余弦距离升序，距离相同按电影 ID 升序。
type MemoryCatalog struct {
	mu      sync.RWMutex
	movies  map[int64]*core.Movie
	vectors map[int64]*core.MovieVectors
	ratings map[string]map[int64]*core.RatingEvent // userID -> movieID -> 最近一次评分
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		movies:  make(map[int64]*core.Movie),
		vectors: make(map[int64]*core.MovieVectors),
		ratings: make(map[string]map[int64]*core.RatingEvent),
	}
}

func (c *MemoryCatalog) Name() string { return "memory_catalog" }

// AddMovie 写入一部电影的元数据与向量（离线训练器的职责，仅测试/原型使用）。
func (c *MemoryCatalog) AddMovie(m *core.Movie, v *core.MovieVectors) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.movies[m.ID] = m
	c.vectors[m.ID] = v
}

func (c *MemoryCatalog) GetVectors(ctx context.Context, movieID int64) (*core.MovieVectors, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.vectors[movieID]
	if !ok {
		return nil, core.ErrMovieNotFound
	}
	return v, nil
}

func (c *MemoryCatalog) NearestBySignal(ctx context.Context, sig core.Signal, target []float64, k int) ([]int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	type scored struct {
		id   int64
		dist float64
	}
	results := make([]scored, 0, len(c.vectors))
	for id, vec := range c.vectors {
		// 余弦距离 = 1 - 余弦相似度，与 pgvector 的 <=> 对齐
		results = append(results, scored{id: id, dist: 1 - core.Cosine(target, vec.BySignal(sig))})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].dist != results[j].dist {
			return results[i].dist < results[j].dist
		}
		return results[i].id < results[j].id
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	ids := make([]int64, len(results))
	for i, r := range results {
		ids[i] = r.id
	}
	return ids, nil
}

func (c *MemoryCatalog) BatchGetVectors(ctx context.Context, ids []int64) (map[int64]*core.MovieVectors, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[int64]*core.MovieVectors, len(ids))
	for _, id := range ids {
		if v, ok := c.vectors[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (c *MemoryCatalog) HydrateMeta(ctx context.Context, ids []int64) (map[int64]*core.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[int64]*core.Movie, len(ids))
	for _, id := range ids {
		if m, ok := c.movies[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (c *MemoryCatalog) RatingHistory(ctx context.Context, userID string) ([]core.RatedMovie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	userRatings := c.ratings[userID]
	if len(userRatings) == 0 {
		return nil, nil
	}

	// 只聚合向量表里存在的电影，与 SQL JOIN 语义一致
	out := make([]core.RatedMovie, 0, len(userRatings))
	for movieID, ev := range userRatings {
		if vec, ok := c.vectors[movieID]; ok {
			out = append(out, core.RatedMovie{Vectors: vec, Rating: ev.Rating})
		}
	}
	return out, nil
}

func (c *MemoryCatalog) PopularMovies(ctx context.Context, limit int) ([]*core.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*core.Movie, 0, len(c.movies))
	for _, m := range c.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *MemoryCatalog) UpsertRating(ctx context.Context, userID string, movieID int64, rating float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ratings[userID] == nil {
		c.ratings[userID] = make(map[int64]*core.RatingEvent)
	}
	// (user, movie) 键上 last-write-wins，同时刷新时间戳
	c.ratings[userID][movieID] = &core.RatingEvent{
		UserID:  userID,
		MovieID: movieID,
		Rating:  rating,
		RatedAt: time.Now(),
	}
	return nil
}

// RatingOf 返回某 (user, movie) 的当前评分记录，仅测试使用。
func (c *MemoryCatalog) RatingOf(userID string, movieID int64) (*core.RatingEvent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ev, ok := c.ratings[userID][movieID]
	return ev, ok
}

func (c *MemoryCatalog) Close() error { return nil }

var _ core.VectorStore = (*MemoryCatalog)(nil)
