package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// TopNNode 是最终的结果装配 Node：按最终得分降序排序并截断。
//
// 得分完全相同的候选按电影 ID 升序排列，使最终排序是全序——
// 相同的存储快照与请求必然产出相同的结果序列，与召回 fan-out 规模和调用次序无关。
type TopNNode struct {
	// N 要保留的条数；<= 0 时取请求的 Limit。
	N int
}

func (n *TopNNode) Name() string        { return "rerank.topn" }
func (n *TopNNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})

	limit := n.N
	if limit <= 0 && rctx != nil && rctx.Request != nil {
		limit = rctx.Request.Limit
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ pipeline.Node = (*TopNNode)(nil)
