package core

import (
	"math"
	"strconv"

	"github.com/rushteam/movierec/pkg/utils"
)

// RecommendRequest 是一次推荐请求。
//
// Weights 必须显式给全三个信号的 key（als / semantic / lda），核心不做任何隐式
// 默认值替换——缺 key 静默补默认会悄悄改变排序语义。权重按原值使用（加权和
// 契约，不要求归一化），归一化是调用方的责任。
type RecommendRequest struct {
	UserID       string             `json:"user_id"`
	Weights      map[Signal]float64 `json:"weights"`
	Limit        int                `json:"limit"`
	FocusMovieID int64              `json:"focus_movie_id,omitempty"` // > 0 时进入 item-similarity 模式
}

// Validate 在任何存储访问前校验请求，不合法时返回 INVALID_INPUT。
func (r *RecommendRequest) Validate() error {
	if r.Limit <= 0 {
		return NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "recommend: limit must be positive")
	}
	if r.Weights == nil {
		return NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "recommend: weights are required")
	}
	for _, sig := range Signals {
		w, ok := r.Weights[sig]
		if !ok {
			return NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "recommend: missing weight for signal "+string(sig))
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "recommend: weight for signal "+string(sig)+" is not finite")
		}
	}
	if r.FocusMovieID == 0 && r.UserID == "" {
		return NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "recommend: user_id is required without a focus movie")
	}
	return nil
}

// ItemSimilarity 报告请求是否处于 item-similarity 模式（焦点电影存在）。
func (r *RecommendRequest) ItemSimilarity() bool {
	return r.FocusMovieID > 0
}

// RecommendContext 承载单次请求的上下文，贯穿整个 Pipeline 透传。
// 每次请求独立从存储快照计算，跨请求不保留任何状态。
type RecommendContext struct {
	Request *RecommendRequest

	// Targets 是 TargetBuilder 产出的三路目标向量；冷启动请求不会进入 Pipeline，
	// 因此 Pipeline 内各 Node 可以假定 Targets 非空。
	Targets *TargetVectors

	// Labels 是请求级标签，可驱动 Pipeline 行为（如标记冷启动、请求模式）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数，供自定义 Node / 表达式过滤器使用。
	Params map[string]any
}

// NewRecommendContext 从请求构建上下文，并打上模式标签。
func NewRecommendContext(req *RecommendRequest) *RecommendContext {
	rctx := &RecommendContext{
		Request: req,
		Labels:  make(map[string]utils.Label),
		Params:  make(map[string]any),
	}
	if req.ItemSimilarity() {
		rctx.PutLabel("mode", utils.Label{Value: "item_similarity", Source: "engine"})
		rctx.Params["focus_movie_id"] = strconv.FormatInt(req.FocusMovieID, 10)
	} else {
		rctx.PutLabel("mode", utils.Label{Value: "history", Source: "engine"})
	}
	return rctx
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}
