package recall

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// Hot 是热门召回源：按流行度降序返回电影，作为冷启动兜底。
// 冷启动用户没有可聚合的历史，三路相似度一律报 0，最终得分 0。
// Hot 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Hot struct {
	Store core.VectorStore

	// Limit 返回条数，<= 0 时取请求的 Limit。
	Limit int
}

func (r *Hot) Name() string        { return "recall.hot" }
func (r *Hot) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Hot) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Hot) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	limit := r.Limit
	if limit <= 0 && rctx != nil && rctx.Request != nil {
		limit = rctx.Request.Limit
	}
	if limit <= 0 {
		return nil, nil
	}

	movies, err := r.Store.PopularMovies(ctx, limit)
	if err != nil {
		return nil, core.AsUnavailable(core.ModuleRecall, err)
	}

	out := make([]*core.Item, 0, len(movies))
	for _, m := range movies {
		it := core.NewItem(m.ID)
		it.Meta = m
		for _, sig := range core.Signals {
			it.Scores[sig] = 0
		}
		it.Score = 0
		it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var (
	_ Source        = (*Hot)(nil)
	_ pipeline.Node = (*Hot)(nil)
)
