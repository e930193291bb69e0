package core

import (
	"math"
	"strconv"
	"strings"
)

// Signal 是三路独立训练的相关性信号之一。
// 离线训练产出固定维度的向量，在线侧只消费，不训练、不更新、不校验语义。
type Signal string

const (
	SignalALS      Signal = "als"      // 协同过滤（ALS 矩阵分解），50 维
	SignalSemantic Signal = "semantic" // 语义内容（TF-IDF），50 维
	SignalLDA      Signal = "lda"      // 主题模型（LDA），5 维
)

// Signals 按固定顺序枚举全部信号，供校验与遍历使用。
var Signals = []Signal{SignalALS, SignalSemantic, SignalLDA}

// 各信号的向量维度，全量数据集内固定不变。
const (
	DimALS      = 50
	DimSemantic = 50
	DimLDA      = 5
)

// Dim 返回该信号的向量维度；未知信号返回 0。
func (s Signal) Dim() int {
	switch s {
	case SignalALS:
		return DimALS
	case SignalSemantic:
		return DimSemantic
	case SignalLDA:
		return DimLDA
	default:
		return 0
	}
}

// MovieVectors 是单部电影的三路信号向量，由离线训练器批量写入。
// 对在线侧只读；核心链路从不修改。
type MovieVectors struct {
	MovieID  int64
	ALS      []float64
	Semantic []float64
	LDA      []float64
}

// BySignal 返回对应信号的向量。
func (v *MovieVectors) BySignal(s Signal) []float64 {
	switch s {
	case SignalALS:
		return v.ALS
	case SignalSemantic:
		return v.Semantic
	case SignalLDA:
		return v.LDA
	default:
		return nil
	}
}

// TargetVectors 是一次请求的排序基准：每个信号一个目标向量。
// 来源于焦点电影（item-similarity 模式）或用户历史的加权质心。
type TargetVectors struct {
	ALS      []float64
	Semantic []float64
	LDA      []float64
}

// NewTargetVectors 返回按各信号维度初始化的零向量组。
func NewTargetVectors() *TargetVectors {
	return &TargetVectors{
		ALS:      make([]float64, DimALS),
		Semantic: make([]float64, DimSemantic),
		LDA:      make([]float64, DimLDA),
	}
}

// BySignal 返回对应信号的目标向量。
func (t *TargetVectors) BySignal(s Signal) []float64 {
	switch s {
	case SignalALS:
		return t.ALS
	case SignalSemantic:
		return t.Semantic
	case SignalLDA:
		return t.LDA
	default:
		return nil
	}
}

// Cosine 计算余弦相似度。
// 任一向量零模长或维度不一致时返回 0：绝不除零、绝不产生 NaN。
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ParseVector 是存储向量的严格数值解码器。
// 接受 pgvector/JSON 的文本形态（如 "[0.1, -2.5, 3]"），逐项 ParseFloat，
// 维度不符或任一分量非法时以 DATA_INTEGRITY 拒绝（fail closed）。
// 存储内容只作为数据解码，绝不作为表达式求值。
func ParseVector(raw string, dim int) ([]float64, error) {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, NewDomainError(ModuleStore, ErrorCodeDataIntegrity, "vector: malformed payload")
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, NewDomainError(ModuleStore, ErrorCodeDataIntegrity, "vector: empty payload")
	}

	parts := strings.Split(body, ",")
	if len(parts) != dim {
		return nil, NewDomainError(ModuleStore, ErrorCodeDataIntegrity,
			"vector: dimension mismatch, want "+strconv.Itoa(dim)+" got "+strconv.Itoa(len(parts)))
	}

	out := make([]float64, dim)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, NewDomainError(ModuleStore, ErrorCodeDataIntegrity, "vector: invalid component at index "+strconv.Itoa(i))
		}
		out[i] = f
	}
	return out, nil
}
