package rank

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// BlendNode 是多信号混合打分 Node。
//
// 对每个候选、每个信号计算目标向量与候选向量的余弦相似度，
// 最终得分 = sum(信号相似度 × 请求权重)。
//
// 候选集是信号间的 OR（并集），打分是 AND：三个信号永远全部求值，
// 只因单一信号邻近而入选的候选在其余信号上可能得到接近零的相似度。
// 权重按请求原值使用，不做归一化；这里不做过滤与截断（rerank 的职责）。
type BlendNode struct{}

func (n *BlendNode) Name() string        { return "rank.blend" }
func (n *BlendNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *BlendNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	targets := rctx.Targets
	if targets == nil {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeInternalError, "rank: target vectors missing")
	}
	weights := rctx.Request.Weights

	for _, it := range items {
		if it == nil || it.Vectors == nil {
			continue
		}
		var final float64
		for _, sig := range core.Signals {
			sim := core.Cosine(targets.BySignal(sig), it.Vectors.BySignal(sig))
			it.Scores[sig] = sim
			final += sim * weights[sig]
		}
		it.Score = final
		it.PutLabel("rank_model", utils.Label{Value: "weighted_cosine", Source: "rank"})
	}
	return items, nil
}

var _ pipeline.Node = (*BlendNode)(nil)
