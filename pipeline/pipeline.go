package pipeline

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Pipeline 把一次推荐请求拆成可组合的 Node 链：Recall → Filter → Rank → ReRank。
// 任一 Node 出错则整条链失败——部分信号集上的重排会无提示地扭曲最终得分，
// 宁可整体失败也不返回截断的候选。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
