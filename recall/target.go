package recall

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// TargetBuilder 为一次请求构建三路目标向量。
//
// 三种模式：
//   - item-similarity：焦点电影存在，目标向量即焦点电影的向量；电影不存在时返回 NOT_FOUND
//   - 历史聚合：按评分历史做加权质心，权重 w = max(0.1, rating - 2.0)
//   - 冷启动：无评分历史，显式返回冷启动信号（不是错误），调用方短路到热门兜底
type TargetBuilder struct {
	Store core.VectorStore
}

// 评分到权重的偏好曲线：5.0 分权重 3.0，<= 2.0 分托底 0.1。
// 刻意陡峭以放大高分偏好，不是概率。
func ratingWeight(rating float64) float64 {
	w := rating - 2.0
	if w < 0.1 {
		return 0.1
	}
	return w
}

// Build 返回目标向量与冷启动标记。
// coldStart 为 true 时 targets 为 nil，调用方不应进入候选召回。
func (b *TargetBuilder) Build(ctx context.Context, rctx *core.RecommendContext) (targets *core.TargetVectors, coldStart bool, err error) {
	req := rctx.Request

	// 模式 A：item-to-item（焦点电影，详情页"更多类似"）
	if req.ItemSimilarity() {
		vec, err := b.Store.GetVectors(ctx, req.FocusMovieID)
		if err != nil {
			return nil, false, err
		}
		return &core.TargetVectors{
			ALS:      vec.ALS,
			Semantic: vec.Semantic,
			LDA:      vec.LDA,
		}, false, nil
	}

	// 模式 B：user-to-item（主信息流），评分历史的加权质心
	history, err := b.Store.RatingHistory(ctx, req.UserID)
	if err != nil {
		return nil, false, err
	}
	if len(history) == 0 {
		return nil, true, nil
	}

	targets = core.NewTargetVectors()
	var totalWeight float64
	for _, rated := range history {
		if rated.Vectors == nil {
			continue
		}
		w := ratingWeight(rated.Rating)
		accumulate(targets.ALS, rated.Vectors.ALS, w)
		accumulate(targets.Semantic, rated.Vectors.Semantic, w)
		accumulate(targets.LDA, rated.Vectors.LDA, w)
		totalWeight += w
	}

	// 权重托底 0.1 使 totalWeight == 0 实际不可达，但仍需守卫：保持零向量即可。
	if totalWeight > 0 {
		scale(targets.ALS, 1/totalWeight)
		scale(targets.Semantic, 1/totalWeight)
		scale(targets.LDA, 1/totalWeight)
	}
	return targets, false, nil
}

func accumulate(dst, src []float64, w float64) {
	if len(dst) != len(src) {
		return
	}
	for i := range src {
		dst[i] += src[i] * w
	}
}

func scale(v []float64, f float64) {
	for i := range v {
		v[i] *= f
	}
}
