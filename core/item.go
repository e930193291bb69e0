package core

import "github.com/rushteam/movierec/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选电影的向量、元数据、分信号得分与最终得分。
// Labels 用于解释与观测；Score 用于最终排序。
type Item struct {
	ID      int64
	Score   float64            // 最终得分：sum(信号相似度 × 请求权重)
	Scores  map[Signal]float64 // 每个信号的余弦相似度
	Meta    *Movie
	Vectors *MovieVectors
	Labels  map[string]utils.Label
}

func NewItem(id int64) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Scores: make(map[Signal]float64, len(Signals)),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
