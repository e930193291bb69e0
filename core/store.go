package core

import "context"

// VectorStore 是向量目录的领域接口：电影向量、元数据、评分历史与近邻查询。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 近邻索引本身（HNSW 等）是存储的职责，核心只消费查询协议
//
// 实现：
//   - store.MemoryCatalog 实现此接口（测试/开发/原型）
//   - store.PgCatalog 实现此接口（Postgres + pgvector，生产）
//   - store.CachedCatalog 装饰任意实现，叠加元数据缓存
type VectorStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// GetVectors 获取单部电影的三路向量；不存在时返回 NOT_FOUND
	GetVectors(ctx context.Context, movieID int64) (*MovieVectors, error)

	// NearestBySignal 在指定信号的向量空间做近邻查询，
	// 返回距离升序的电影 ID 序列，距离相同时按 ID 升序
	NearestBySignal(ctx context.Context, sig Signal, target []float64, k int) ([]int64, error)

	// BatchGetVectors 批量获取向量（候选水合，减少网络往返）
	BatchGetVectors(ctx context.Context, ids []int64) (map[int64]*MovieVectors, error)

	// HydrateMeta 批量获取元数据；缺失的 ID 不出现在结果中，由调用方决定处置
	HydrateMeta(ctx context.Context, ids []int64) (map[int64]*Movie, error)

	// RatingHistory 获取用户全部评分历史，已与电影向量连接
	RatingHistory(ctx context.Context, userID string) ([]RatedMovie, error)

	// PopularMovies 按流行度降序返回电影元数据（冷启动兜底）
	PopularMovies(ctx context.Context, limit int) ([]*Movie, error)

	// UpsertRating 写入评分，(user, movie) 键上 last-write-wins 并刷新时间戳。
	// 评分范围校验在引擎侧完成，存储只承担原子覆盖语义。
	UpsertRating(ctx context.Context, userID string, movieID int64, rating float64) error

	// Close 关闭连接/释放资源
	Close() error
}

// MetadataSource 是元数据水合的最小接口。
// 任何 VectorStore 都满足它；feast.Provider 等外部特征服务也可单独实现，
// 用于替换召回链路中的元数据来源。
type MetadataSource interface {
	HydrateMeta(ctx context.Context, ids []int64) (map[int64]*Movie, error)
}

// Store 是通用 KV 存储的领域接口，用于元数据缓存等场景。
//
// 实现：
//   - store.MemoryStore 实现此接口
//   - store.RedisStore 实现此接口
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 单位秒（0 表示不过期）
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// BatchGet 批量读取（缺失的 key 不出现在结果中）
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)

	// BatchSet 批量写入
	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error

	// Close 关闭连接/释放资源
	Close() error
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrMovieNotFound 表示电影不存在
	ErrMovieNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: movie not found")
)
