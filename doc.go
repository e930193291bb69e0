// Package movierec 是一个多信号电影推荐引擎。
//
// 设计要点：
// - 三信号并行：协同过滤（ALS）、语义（TF-IDF）、主题（LDA）各自独立召回，
//   候选取并集，打分时三路全量计算后按权重加权求和
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
// - 确定性排序：最终得分降序，同分按电影 ID 升序，同样的输入永远同样的输出
package movierec

import "github.com/rushteam/movierec/pipeline"

// 轻量 facade：便于用户直接 import "movierec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
