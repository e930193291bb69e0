package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该候选就会被过滤掉。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))

	for _, item := range items {
		if item == nil {
			continue
		}

		shouldFilter := false
		filterReason := ""

		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				return nil, err
			}
			if ok {
				shouldFilter = true
				filterReason = f.Name()
				break
			}
		}

		if shouldFilter {
			// 记录过滤原因（用于调试/观测）
			item.PutLabel("filtered", utils.Label{
				Value:  "true",
				Source: filterReason,
			})
			continue
		}

		out = append(out, item)
	}

	return out, nil
}

var _ pipeline.Node = (*FilterNode)(nil)
