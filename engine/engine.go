// Package engine 把召回、过滤、打分、重排组装成完整的推荐请求编排。
//
// 请求级状态机：
//
//	Start → {ColdStart | ItemSimilarity | HistoryAggregation}
//	      → CandidateRetrieval → Rerank → Assemble → Done
//
// 每次请求独立从当前存储内容计算，跨请求不保留任何进程内可变状态，
// 多个请求可无协调并发执行；唯一的串行点是外部存储。
package engine

import (
	"context"
	"log"
	"time"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/rank"
	"github.com/rushteam/movierec/recall"
	"github.com/rushteam/movierec/rerank"
)

// DefaultTimeout 是单次请求内全部存储调用的默认预算。
const DefaultTimeout = 3 * time.Second

// Engine 是推荐引擎。零值不可用，使用 New 创建。
type Engine struct {
	store core.VectorStore

	// fanoutK 每个信号索引的召回条数。
	fanoutK int

	// timeout 请求级存储预算；超时后请求整体以 UNAVAILABLE 失败，
	// 绝不返回部分候选集上的重排结果。
	timeout time.Duration

	// filters 附加业务过滤器（焦点电影剔除之外），如 CEL 表达式过滤。
	filters []filter.Filter

	// meta 可替换的元数据来源（如 feast.Provider）；为空时用 store。
	meta core.MetadataSource

	logger *log.Logger
}

// Option 配置 Engine。
type Option func(*Engine)

// WithFanoutK 设置每个信号索引的召回条数（默认 recall.DefaultTopK）。
func WithFanoutK(k int) Option {
	return func(e *Engine) { e.fanoutK = k }
}

// WithTimeout 设置请求级存储预算（默认 DefaultTimeout）。
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithFilters 追加业务过滤器。
func WithFilters(fs ...filter.Filter) Option {
	return func(e *Engine) { e.filters = append(e.filters, fs...) }
}

// WithMetadataSource 替换候选元数据来源。
func WithMetadataSource(m core.MetadataSource) Option {
	return func(e *Engine) { e.meta = m }
}

// WithLogger 设置 logger（默认进程级 log.Default）。
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New 创建推荐引擎。
func New(store core.VectorStore, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		fanoutK: recall.DefaultTopK,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend 执行一次推荐请求，返回按最终得分降序（同分按 ID 升序）的结果。
//
// 错误语义：
//   - INVALID_INPUT：limit <= 0、缺少信号权重、权重非有限值（存储访问前拒绝）
//   - NOT_FOUND：item-similarity 模式引用了不存在的焦点电影
//   - UNAVAILABLE：存储超时/连接失败（整个请求失败，无部分结果）
func (e *Engine) Recommend(ctx context.Context, req *core.RecommendRequest) ([]*core.Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	rctx := core.NewRecommendContext(req)

	// 目标构建：焦点电影 / 历史聚合 / 冷启动
	builder := &recall.TargetBuilder{Store: e.store}
	targets, coldStart, err := builder.Build(ctx, rctx)
	if err != nil {
		// 焦点电影不存在原样透出；其余归一为 UNAVAILABLE
		return nil, core.AsUnavailable(core.ModuleEngine, err)
	}

	// 冷启动短路：热门兜底，三路相似度报 0
	if coldStart {
		hot := &recall.Hot{Store: e.store, Limit: req.Limit}
		return hot.Recall(ctx, rctx)
	}

	rctx.Targets = targets

	filters := make([]filter.Filter, 0, len(e.filters)+1)
	filters = append(filters, &filter.FocusMovieFilter{})
	filters = append(filters, e.filters...)

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.SignalFanout{Store: e.store, Meta: e.meta, TopK: e.fanoutK, Logger: e.logger},
			&filter.FilterNode{Filters: filters},
			&rank.BlendNode{},
			&rerank.TopNNode{},
		},
	}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, core.AsUnavailable(core.ModuleEngine, err)
	}
	return items, nil
}

// RecordRating 记录一次用户评分（观看=5.0、喜欢=4.0、不喜欢=1.0 也走此通道）。
// 评分在触达存储前校验范围 [0.5, 5.0]；(user, movie) 键上 last-write-wins。
func (e *Engine) RecordRating(ctx context.Context, userID string, movieID int64, rating float64) error {
	if userID == "" {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "rate: user_id is required")
	}
	if movieID <= 0 {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "rate: movie_id must be positive")
	}
	if !core.ValidRating(rating) {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "rate: rating must be in [0.5, 5.0]")
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return core.AsUnavailable(core.ModuleEngine, e.store.UpsertRating(ctx, userID, movieID, rating))
}
